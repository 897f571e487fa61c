package translator

import (
	"sort"
	"strings"
)

// DefaultPrefixes are the package prefixes of the platform SDK and the HTTP
// client bundled with it.
var DefaultPrefixes = []string{"android.", "org.apache.http"}

// Predicate decides from a fully qualified class name alone whether a class
// is rewritten.
type Predicate interface {
	Matches(class string) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(class string) bool

// Matches calls f.
func (f PredicateFunc) Matches(class string) bool {
	return f(class)
}

// PrefixPredicate matches classes whose name starts with any of its
// prefixes.
type PrefixPredicate struct {
	prefixes []string
}

// NewPrefixPredicate builds a predicate over the given prefixes. Empty
// prefixes are ignored so that a blank config entry cannot match everything.
func NewPrefixPredicate(prefixes ...string) *PrefixPredicate {
	p := &PrefixPredicate{}
	seen := make(map[string]bool)
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" || seen[prefix] {
			continue
		}
		seen[prefix] = true
		p.prefixes = append(p.prefixes, prefix)
	}
	sort.Strings(p.prefixes)
	return p
}

// Matches reports prefix membership.
func (p *PrefixPredicate) Matches(class string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

// Prefixes returns the configured prefixes, sorted.
func (p *PrefixPredicate) Prefixes() []string {
	return append([]string(nil), p.prefixes...)
}
