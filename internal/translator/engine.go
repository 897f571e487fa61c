// Package translator rewrites matched classes at load time so that every
// constructor and method forwards its invocation to a Dispatcher.
//
// An Engine is installed as a classfile.Translator. For each class it is
// shown it clears the final modifier, lets the dispatcher instrument the
// class, and replaces every member body with a forwarding shim that finds
// its way back to the engine through the registry arena.
package translator

import (
	"fmt"

	"github.com/zboralski/shade/internal/classfile"
	glog "github.com/zboralski/shade/internal/log"
	"github.com/zboralski/shade/internal/registry"
)

// Dispatcher supplies shadow behavior. Instrument runs once per matched
// class before its members are rewritten; MethodInvoked runs on every call
// of a rewritten member.
type Dispatcher interface {
	Instrument(class *classfile.ClassDescriptor) error
	registry.Interceptor
}

// AbstractPolicy controls what happens to abstract methods of a matched
// class.
type AbstractPolicy int

const (
	// ClearAbstract installs a zero-value stub and clears the abstract bit.
	ClearAbstract AbstractPolicy = iota
	// SkipAbstract leaves abstract methods untouched.
	SkipAbstract
)

func (p AbstractPolicy) String() string {
	switch p {
	case ClearAbstract:
		return "clear"
	case SkipAbstract:
		return "skip"
	}
	return fmt.Sprintf("AbstractPolicy(%d)", int(p))
}

// ParseAbstractPolicy maps "clear" and "skip" to a policy.
func ParseAbstractPolicy(s string) (AbstractPolicy, error) {
	switch s {
	case "", "clear":
		return ClearAbstract, nil
	case "skip":
		return SkipAbstract, nil
	}
	return 0, fmt.Errorf("unknown abstract policy %q (want clear or skip)", s)
}

// Option configures an Engine.
type Option func(*Engine)

// WithArena registers the engine in an arena other than registry.Default.
// Listings then reach it through registry.Lookup(arena ID).
func WithArena(a *registry.Arena) Option {
	return func(e *Engine) { e.arena = a }
}

// WithPredicate replaces the default prefix predicate.
func WithPredicate(p Predicate) Option {
	return func(e *Engine) { e.predicate = p }
}

// WithLogger sets the engine's logger.
func WithLogger(l *glog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithAbstractPolicy sets how abstract methods are handled.
func WithAbstractPolicy(p AbstractPolicy) Option {
	return func(e *Engine) { e.abstract = p }
}

// Engine is one transformation engine. Its arena index is assigned at
// construction and never changes.
type Engine struct {
	index      int
	dispatcher Dispatcher
	arena      *registry.Arena
	predicate  Predicate
	abstract   AbstractPolicy
	log        *glog.Logger
}

// New creates an engine bound to d and registers it in its arena.
func New(d Dispatcher, opts ...Option) *Engine {
	if d == nil {
		panic("translator: New with nil dispatcher")
	}
	e := &Engine{
		dispatcher: d,
		arena:      registry.Default,
		predicate:  NewPrefixPredicate(DefaultPrefixes...),
		log:        glog.Get(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.index = e.arena.Register(e)
	return e
}

// Index returns the engine's arena index.
func (e *Engine) Index() int {
	return e.index
}

// Arena returns the arena the engine is registered in.
func (e *Engine) Arena() *registry.Arena {
	return e.arena
}

// Dispatcher returns the dispatcher the engine forwards to.
func (e *Engine) Dispatcher() Dispatcher {
	return e.dispatcher
}

// OnLoad rewrites a class if the predicate matches it. Classes that do not
// match are not touched at all.
func (e *Engine) OnLoad(c *classfile.ClassDescriptor) error {
	if !e.predicate.Matches(c.Name) {
		return nil
	}

	c.Modifiers = c.Modifiers.Clear(classfile.Final)
	if c.IsInterface() {
		e.log.ClassSkip(c.Name, "interface")
		return nil
	}

	if by, ok := c.RewrittenBy(); ok {
		return fmt.Errorf("rewrite %s: %w by engine %d", c.Name, ErrAlreadyRewritten, by)
	}

	if err := e.dispatcher.Instrument(c); err != nil {
		return fmt.Errorf("instrument %s: %w", c.Name, err)
	}

	p, err := e.plan(c)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", c.Name, err)
	}
	p.apply(c)
	c.MarkRewritten(e.index)

	for _, r := range p.rewrites {
		e.log.MemberRewrite(c.Name, r.member.Signature(), r.shape)
	}
	e.log.ClassRewrite(c.Name, e.index, p.constructors(), len(p.rewrites)-p.constructors())
	return nil
}

// MethodInvoked is what arena lookups from rewritten bodies reach.
func (e *Engine) MethodInvoked(class, method string, self *classfile.Object, paramTypes []string, params []any) (any, error) {
	e.log.Dispatch(class, method, fmt.Sprintf("engine=%d args=%d", e.index, len(params)))
	return e.dispatcher.MethodInvoked(class, method, self, paramTypes, params)
}
