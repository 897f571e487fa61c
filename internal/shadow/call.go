package shadow

import (
	"fmt"
	"sync"

	"github.com/zboralski/shade/internal/classfile"
)

// Call is the context a handler receives for one invocation.
type Call struct {
	Class      string
	Method     string
	Self       *classfile.Object // nil for static members
	ParamTypes []string
	Args       []any

	reg *Registry
}

// Arg returns argument i, or nil when out of range.
func (c *Call) Arg(i int) any {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// String returns argument i as a string. Non-string values are formatted;
// nil is "".
func (c *Call) String(i int) string {
	switch v := c.Arg(i).(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int returns argument i as an int32, or 0 when it is not one.
func (c *Call) Int(i int) int32 {
	v, _ := c.Arg(i).(int32)
	return v
}

// Bool returns argument i as a bool.
func (c *Call) Bool(i int) bool {
	v, _ := c.Arg(i).(bool)
	return v
}

// State returns the shadow state of the receiver, or of the class for
// static members.
func (c *Call) State() *State {
	if c.Self != nil {
		return StateOf(c.Self)
	}
	if c.reg == nil {
		return NewState()
	}
	return c.reg.classState(c.Class)
}

// State is per-instance shadow bookkeeping.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewState returns empty state.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// StateOf returns the state stored in the object's shadow field, creating
// it on first use.
func StateOf(obj *classfile.Object) *State {
	s, ok := obj.GetOrSet(StateField, NewState()).(*State)
	if !ok {
		panic(fmt.Sprintf("shadow: %s holds a %T in %s", obj, obj.Get(StateField), StateField))
	}
	return s
}

// Get returns a value, or nil when unset.
func (s *State) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Lookup returns a value and whether it was set.
func (s *State) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value.
func (s *State) Set(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
}

// Len returns the number of values held.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
