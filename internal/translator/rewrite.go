package translator

import (
	"fmt"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/typedesc"
)

// Body shapes, as logged per member.
const (
	shapeDelegate = "delegate"
	shapeStub     = "stub"
	shapeDefault  = "default-ctor"
)

// rewrite is one member's pending replacement.
type rewrite struct {
	member    *classfile.Member
	modifiers classfile.Modifier
	body      *classfile.Body
	shape     string
}

// plan holds every replacement for a class. It is built completely before
// anything is installed so that a failure leaves the members as they were.
type plan struct {
	rewrites    []rewrite
	defaultCtor *classfile.Member
	ctors       int
}

func (p *plan) constructors() int {
	return p.ctors
}

func (p *plan) apply(c *classfile.ClassDescriptor) {
	for _, r := range p.rewrites {
		r.member.Modifiers = r.modifiers
		r.member.Body = r.body
	}
	if p.defaultCtor != nil {
		c.Constructors = append(c.Constructors, p.defaultCtor)
		p.rewrites = append(p.rewrites, rewrite{member: p.defaultCtor, shape: shapeDefault})
		p.ctors++
	}
}

func (e *Engine) plan(c *classfile.ClassDescriptor) (*plan, error) {
	p := &plan{}
	void := typedesc.MustFind(classfile.VoidType)

	hasDefault := false
	for _, ctor := range c.Constructors {
		if len(ctor.Params) == 0 {
			hasDefault = true
		}
		body, err := e.delegate(c, ctor, void)
		if err != nil {
			return nil, err
		}
		p.rewrites = append(p.rewrites, rewrite{member: ctor, modifiers: ctor.Modifiers, body: body, shape: shapeDelegate})
		p.ctors++
	}
	if !hasDefault {
		ctor, err := e.defaultConstructor(c)
		if err != nil {
			return nil, err
		}
		p.defaultCtor = ctor
	}

	for _, m := range c.Methods {
		abstract := m.Modifiers.Has(classfile.Abstract)
		if abstract && e.abstract == SkipAbstract {
			continue
		}
		native := m.Modifiers.Has(classfile.Native)
		mods := m.Modifiers.Clear(classfile.Native | classfile.Final)

		ret, err := typedesc.Find(m.ReturnType())
		if err != nil {
			return nil, fmt.Errorf("%s: return type: %w", m.Signature(), err)
		}

		var body *classfile.Body
		shape := shapeDelegate
		if abstract || native {
			body, err = e.stub(c, m, ret)
			mods = mods.Clear(classfile.Abstract)
			shape = shapeStub
		} else {
			body, err = e.delegate(c, m, ret)
		}
		if err != nil {
			return nil, err
		}
		p.rewrites = append(p.rewrites, rewrite{member: m, modifiers: mods, body: body, shape: shape})
	}
	return p, nil
}

// defaultConstructor builds the zero-argument constructor added to classes
// that declare none. The pool runs superclass construction around it, so
// the body itself does nothing.
func (e *Engine) defaultConstructor(c *classfile.ClassDescriptor) (*classfile.Member, error) {
	m := &classfile.Member{Name: classfile.ConstructorName, Modifiers: classfile.Public}
	src, err := skeletonListing(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Signature(), err)
	}
	m.Body = &classfile.Body{
		Source: src,
		Invoke: func(*classfile.Object, []any) (any, error) { return nil, nil },
	}
	return m, nil
}
