// Package trace provides types for recording invocations of rewritten
// members.
package trace

import (
	"fmt"
	"strings"
	"time"
)

// Tag represents a trace event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for trace events.
const (
	Constructor Tag = "constructor"
	Method      Tag = "method"
	Static      Tag = "static"
	Declined    Tag = "declined"
	Error       Tag = "error"
	Shadowed    Tag = "shadowed"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Primary returns the first tag or empty string if none.
func (t Tags) Primary() Tag {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Annotations holds key-value metadata for trace events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Event is one invocation of a rewritten member.
type Event struct {
	Class       string   // declaring class
	Method      string   // member name; "<init>" for constructors
	Self        string   // receiver identity, empty for static members
	ParamTypes  []string // declared parameter types
	Args        []any    // boxed arguments as the dispatcher saw them
	Result      any      // dispatcher result; nil when it declined
	Err         error
	Tags        Tags
	Annotations Annotations
	Timestamp   time.Time
}

// NewEvent creates an event for an invocation. self is the receiver's
// string form, empty for static calls.
func NewEvent(class, method, self string, paramTypes []string, args []any) *Event {
	return &Event{
		Class:       class,
		Method:      method,
		Self:        self,
		ParamTypes:  paramTypes,
		Args:        args,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// AddTag adds a tag to the event.
func (e *Event) AddTag(tag Tag) {
	e.Tags.Add(tag)
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Signature renders Class.Method(types).
func (e *Event) Signature() string {
	return e.Class + "." + e.Method + "(" + strings.Join(e.ParamTypes, ",") + ")"
}

// String renders the event on one line.
func (e *Event) String() string {
	var b strings.Builder
	b.WriteString(e.Signature())
	if len(e.Args) > 0 {
		b.WriteString(" args=")
		fmt.Fprint(&b, e.Args)
	}
	switch {
	case e.Err != nil:
		fmt.Fprintf(&b, " err=%v", e.Err)
	case e.Result != nil:
		fmt.Fprintf(&b, " -> %v", e.Result)
	}
	if len(e.Tags) > 0 {
		b.WriteString(" " + strings.Join(e.Tags.Strings(), " "))
	}
	return b.String()
}

// Enricher enriches trace events after the dispatcher returns.
type Enricher func(e *Event)

// DefaultEnricher tags the event by member shape and outcome.
func DefaultEnricher(e *Event) {
	if e.Method == "<init>" {
		e.AddTag(Constructor)
	} else {
		e.AddTag(Method)
	}
	if e.Self == "" {
		e.AddTag(Static)
	}

	switch {
	case e.Err != nil:
		e.AddTag(Error)
	case e.Result == nil:
		e.AddTag(Declined)
	default:
		e.Annotate("result", fmt.Sprintf("%T", e.Result))
	}
}
