// Package invoke runs member calls written as Go call expressions, such as
//
//	android.util.Log.d("tag", "hello")
//	android.widget.TextView.new(ctx)
//	android.widget.TextView.setText("hi")
//
// against a class pool. Instance methods run on one object per class, made
// with the zero-argument constructor on first use or by an explicit
// Class.new(args) call.
package invoke

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/typedesc"
)

// NewMethod is the member name that constructs an object.
const NewMethod = "new"

// ErrSyntax is returned for expressions that are not a member call with
// literal arguments.
var ErrSyntax = errors.New("invoke: bad call expression")

// Expr is one parsed call. Args hold untyped literals: int64, float64,
// string, bool or nil.
type Expr struct {
	Class  string
	Method string
	Args   []any
}

func (e *Expr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		if s, ok := a.(string); ok {
			parts[i] = strconv.Quote(s)
		} else {
			parts[i] = fmt.Sprint(a)
		}
	}
	return e.Class + "." + e.Method + "(" + strings.Join(parts, ", ") + ")"
}

// Parse parses Class.method(literal, ...).
func Parse(src string) (*Expr, error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, src, err)
	}
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a call", ErrSyntax, src)
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no class", ErrSyntax, src)
	}
	class, ok := dotted(sel.X)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no class", ErrSyntax, src)
	}

	e := &Expr{Class: class, Method: sel.Sel.Name}
	for i, a := range call.Args {
		v, err := literal(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q arg %d: %v", ErrSyntax, src, i, err)
		}
		e.Args = append(e.Args, v)
	}
	return e, nil
}

func dotted(x ast.Expr) (string, bool) {
	switch n := x.(type) {
	case *ast.Ident:
		return n.Name, true
	case *ast.SelectorExpr:
		head, ok := dotted(n.X)
		if !ok {
			return "", false
		}
		return head + "." + n.Sel.Name, true
	}
	return "", false
}

func literal(x ast.Expr) (any, error) {
	switch n := x.(type) {
	case *ast.BasicLit:
		switch n.Kind {
		case token.INT:
			return strconv.ParseInt(n.Value, 0, 64)
		case token.FLOAT:
			return strconv.ParseFloat(n.Value, 64)
		case token.STRING:
			return strconv.Unquote(n.Value)
		case token.CHAR:
			s, err := strconv.Unquote(n.Value)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
	case *ast.Ident:
		switch n.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil", "null":
			return nil, nil
		}
	case *ast.UnaryExpr:
		if n.Op == token.SUB {
			v, err := literal(n.X)
			if err != nil {
				return nil, err
			}
			switch x := v.(type) {
			case int64:
				return -x, nil
			case float64:
				return -x, nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported literal %T", x)
}

// Session runs expressions against a pool and keeps one receiver per class.
type Session struct {
	pool    *classfile.Pool
	objects map[string]*classfile.Object
}

// NewSession creates a session over pool.
func NewSession(pool *classfile.Pool) *Session {
	return &Session{pool: pool, objects: make(map[string]*classfile.Object)}
}

// Object returns the session's receiver for class, if one was made.
func (s *Session) Object(class string) *classfile.Object {
	return s.objects[class]
}

// Run loads the class and calls the member. Literal arguments are converted
// to the declared parameter types of the first overload they fit.
func (s *Session) Run(e *Expr) (any, error) {
	c, err := s.pool.Load(e.Class)
	if err != nil {
		return nil, err
	}

	if e.Method == NewMethod {
		args, ok := fit(c.Constructors, classfile.ConstructorName, e.Args)
		if !ok {
			return nil, fmt.Errorf("%s: %w", e, classfile.ErrNoSuchMethod)
		}
		obj, err := s.pool.New(e.Class, args...)
		if err != nil {
			return nil, err
		}
		s.objects[e.Class] = obj
		return obj, nil
	}

	for cur := c; cur != nil; cur = s.super(cur) {
		var static, instance []*classfile.Member
		for _, m := range cur.Methods {
			if m.IsStatic() {
				static = append(static, m)
			} else {
				instance = append(instance, m)
			}
		}
		if args, ok := fit(static, e.Method, e.Args); ok {
			return s.pool.InvokeStatic(cur.Name, e.Method, args...)
		}
		if args, ok := fit(instance, e.Method, e.Args); ok {
			obj, err := s.receiver(e.Class)
			if err != nil {
				return nil, err
			}
			return s.pool.Invoke(obj, e.Method, args...)
		}
	}
	return nil, fmt.Errorf("%s: %w", e, classfile.ErrNoSuchMethod)
}

func (s *Session) super(c *classfile.ClassDescriptor) *classfile.ClassDescriptor {
	if c.Superclass == "" {
		return nil
	}
	next, err := s.pool.Load(c.Superclass)
	if err != nil {
		return nil
	}
	return next
}

func (s *Session) receiver(class string) (*classfile.Object, error) {
	if obj, ok := s.objects[class]; ok {
		return obj, nil
	}
	obj, err := s.pool.New(class)
	if err != nil {
		return nil, fmt.Errorf("receiver for %s: %w", class, err)
	}
	s.objects[class] = obj
	return obj, nil
}

// fit converts args for the first member named name whose parameters accept
// them.
func fit(members []*classfile.Member, name string, args []any) ([]any, bool) {
	for _, m := range members {
		if m.Name != name || len(m.Params) != len(args) {
			continue
		}
		if out, ok := convert(m.Params, args); ok {
			return out, true
		}
	}
	return nil, false
}

func convert(params []string, args []any) ([]any, bool) {
	out := make([]any, len(args))
	for i, p := range params {
		d, err := typedesc.Find(p)
		if err != nil || d.IsVoid() {
			return nil, false
		}
		kind := d.Kind
		if boxed, ok := typedesc.Unboxed(p); ok && args[i] != nil {
			kind = boxed
		}
		if kind == typedesc.Reference {
			if !classfile.Assignable(args[i], p) {
				return nil, false
			}
			out[i] = args[i]
			continue
		}
		v, err := typedesc.Coerce(args[i], kind)
		if err != nil || v == nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
