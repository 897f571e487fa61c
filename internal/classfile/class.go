// Package classfile models the class space that shade rewrites: class and
// member descriptors, their bodies, runtime objects, and the Pool that
// loads classes through translators.
package classfile

import (
	"fmt"
	"strings"
)

// ConstructorName is the reserved member name for constructors.
const ConstructorName = "<init>"

// VoidType is the return type name of methods that return nothing.
const VoidType = "void"

// Invoker executes a member body. self is nil for static members.
type Invoker func(self *Object, args []any) (any, error)

// Body is a member implementation: a source rendering plus the code that
// runs when the member is invoked.
type Body struct {
	Source string
	Invoke Invoker
}

// StubBody returns the body every method of the stock SDK jar carries.
func StubBody() *Body {
	return &Body{
		Source: `panic("Stub!")`,
		Invoke: func(*Object, []any) (any, error) {
			return nil, ErrStub
		},
	}
}

// Field is a declared field.
type Field struct {
	Name      string
	Type      string
	Modifiers Modifier
}

// Member is a constructor or a method.
type Member struct {
	Name       string   // ConstructorName for constructors
	Params     []string // ordered parameter type names
	Return     string   // empty for constructors
	Modifiers  Modifier
	Exceptions []string
	Body       *Body // nil for abstract and unlinked native methods
}

// IsConstructor reports whether m is a constructor.
func (m *Member) IsConstructor() bool {
	return m.Name == ConstructorName
}

// IsStatic reports whether m has no receiver.
func (m *Member) IsStatic() bool {
	return m.Modifiers.Has(Static)
}

// ReturnType is Return, or void for constructors.
func (m *Member) ReturnType() string {
	if m.Return == "" {
		return VoidType
	}
	return m.Return
}

// Signature renders name(params)return, e.g. "getCount()int".
func (m *Member) Signature() string {
	return m.Name + "(" + strings.Join(m.Params, ",") + ")" + m.ReturnType()
}

// SameParams reports whether m takes exactly the given parameter types.
func (m *Member) SameParams(params []string) bool {
	if len(m.Params) != len(params) {
		return false
	}
	for i := range params {
		if m.Params[i] != params[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m. Bodies are shared: they are replaced, never
// edited.
func (m *Member) Clone() *Member {
	c := *m
	c.Params = append([]string(nil), m.Params...)
	c.Exceptions = append([]string(nil), m.Exceptions...)
	return &c
}

// ClassDescriptor is the mutable description of a class while it loads.
type ClassDescriptor struct {
	Name         string
	Modifiers    Modifier
	Superclass   string
	Interfaces   []string
	Constructors []*Member
	Methods      []*Member
	Fields       []*Field

	rewritten   bool
	rewrittenBy int
}

// IsInterface reports whether the class is an interface.
func (c *ClassDescriptor) IsInterface() bool {
	return c.Modifiers.Has(Interface)
}

// IsAbstract reports whether the class is abstract.
func (c *ClassDescriptor) IsAbstract() bool {
	return c.Modifiers.Has(Abstract)
}

// MarkRewritten records the engine index that replaced this class's bodies.
func (c *ClassDescriptor) MarkRewritten(engine int) {
	c.rewritten = true
	c.rewrittenBy = engine
}

// RewrittenBy returns the engine index that rewrote the class, if any.
func (c *ClassDescriptor) RewrittenBy() (int, bool) {
	return c.rewrittenBy, c.rewritten
}

// Method returns the declared method with the given name and parameters.
func (c *ClassDescriptor) Method(name string, params ...string) *Member {
	for _, m := range c.Methods {
		if m.Name == name && m.SameParams(params) {
			return m
		}
	}
	return nil
}

// Constructor returns the declared constructor with the given parameters.
func (c *ClassDescriptor) Constructor(params ...string) *Member {
	for _, m := range c.Constructors {
		if m.SameParams(params) {
			return m
		}
	}
	return nil
}

// Field returns the declared field with the given name.
func (c *ClassDescriptor) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// AddField declares a field. It fails if the name is taken.
func (c *ClassDescriptor) AddField(f *Field) error {
	if c.Field(f.Name) != nil {
		return fmt.Errorf("%s: duplicate field %s", c.Name, f.Name)
	}
	c.Fields = append(c.Fields, f)
	return nil
}

// Clone returns a deep copy of the descriptor.
func (c *ClassDescriptor) Clone() *ClassDescriptor {
	out := *c
	out.Interfaces = append([]string(nil), c.Interfaces...)
	out.Constructors = cloneMembers(c.Constructors)
	out.Methods = cloneMembers(c.Methods)
	if c.Fields != nil {
		out.Fields = make([]*Field, len(c.Fields))
		for i, f := range c.Fields {
			cp := *f
			out.Fields[i] = &cp
		}
	}
	return &out
}

func cloneMembers(ms []*Member) []*Member {
	if ms == nil {
		return nil
	}
	out := make([]*Member, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}
