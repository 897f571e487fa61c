package translator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/registry"
	"github.com/zboralski/shade/internal/typedesc"
)

// runtimeAlias is the package name generated listings use for the arena.
const runtimeAlias = "registry"

// delegate builds the forwarding body for a constructor or concrete method.
// The listing and the invoker carry the same literals: engine index, class
// name, member name and parameter type names.
func (e *Engine) delegate(c *classfile.ClassDescriptor, m *classfile.Member, ret *typedesc.Descriptor) (*classfile.Body, error) {
	params, err := paramDescriptors(m)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	writeHeader(&b, m, params, ret)
	self := "self"
	if m.IsStatic() {
		self = "nil"
	}
	call := fmt.Sprintf("%s.MethodInvoked(%s, %s, %s, %s, %s)",
		e.arenaRef(), strconv.Quote(c.Name), strconv.Quote(m.Name), self,
		typeNamesLiteral(m.Params), boxedLiteral(params))
	if ret.IsVoid() {
		fmt.Fprintf(&b, "_, err := %s\nreturn err\n", call)
	} else {
		fmt.Fprintf(&b, "x, err := %s\n", call)
		fmt.Fprintf(&b, "if err != nil {\nreturn %s, err\n}\n", ret.ZeroLiteral)
		fmt.Fprintf(&b, "if x != nil {\nreturn %s, nil\n}\n", ret.UnboxExpr("x"))
		fmt.Fprintf(&b, "return %s, nil\n", ret.ZeroLiteral)
	}
	b.WriteString("}\n")

	src, err := validate(m, b.String())
	if err != nil {
		return nil, err
	}
	return &classfile.Body{
		Source: src,
		Invoke: e.invoker(c.Name, m, params, ret),
	}, nil
}

// stub builds the body given to abstract and formerly native methods. It
// never reaches the dispatcher.
func (e *Engine) stub(c *classfile.ClassDescriptor, m *classfile.Member, ret *typedesc.Descriptor) (*classfile.Body, error) {
	params, err := paramDescriptors(m)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	writeHeader(&b, m, params, ret)
	if ret.IsVoid() {
		b.WriteString("return nil\n}\n")
	} else {
		fmt.Fprintf(&b, "return %s, nil\n}\n", ret.ZeroLiteral)
	}
	src, err := validate(m, b.String())
	if err != nil {
		return nil, err
	}
	zero := ret.Zero
	return &classfile.Body{
		Source: src,
		Invoke: func(*classfile.Object, []any) (any, error) { return zero, nil },
	}, nil
}

// arenaRef renders the expression that reaches the engine from a listing.
// Engines in the default arena use the short registry.Get form.
func (e *Engine) arenaRef() string {
	if e.arena == registry.Default {
		return fmt.Sprintf("%s.Get(%d)", runtimeAlias, e.index)
	}
	return fmt.Sprintf("%s.Lookup(%d).Get(%d)", runtimeAlias, e.arena.ID(), e.index)
}

func skeletonListing(m *classfile.Member) (string, error) {
	var b strings.Builder
	writeHeader(&b, m, nil, typedesc.MustFind(classfile.VoidType))
	b.WriteString("return nil\n}\n")
	return validate(m, b.String())
}

// invoker is the executable form of a delegating body.
func (e *Engine) invoker(class string, m *classfile.Member, params []*typedesc.Descriptor, ret *typedesc.Descriptor) classfile.Invoker {
	arena, index := e.arena, e.index
	method, static := m.Name, m.IsStatic()
	paramTypes := make([]string, len(m.Params))
	copy(paramTypes, m.Params)
	retType := m.ReturnType()

	return func(self *classfile.Object, args []any) (any, error) {
		if len(args) != len(params) {
			return nil, fmt.Errorf("%s.%s: %d args for %d params", class, method, len(args), len(params))
		}
		boxed := make([]any, len(args))
		for i, d := range params {
			v, err := d.Box(args[i])
			if err != nil {
				return nil, fmt.Errorf("%s.%s arg %d: %w", class, method, i, err)
			}
			boxed[i] = v
		}
		types := make([]string, len(paramTypes))
		copy(types, paramTypes)
		if static {
			self = nil
		}

		x, err := arena.Get(index).MethodInvoked(class, method, self, types, boxed)
		if err != nil {
			return nil, err
		}
		if ret.IsVoid() {
			return nil, nil
		}
		if x == nil {
			return ret.Zero, nil
		}
		v, err := ret.Unbox(x)
		if err != nil {
			return nil, fmt.Errorf("%s.%s result: %w", class, method, err)
		}
		if ret.Kind == typedesc.Reference && !classfile.Assignable(v, retType) {
			return nil, fmt.Errorf("%s.%s result %T is not a %s: %w", class, method, v, retType, typedesc.ErrNotAssignable)
		}
		return v, nil
	}
}

func paramDescriptors(m *classfile.Member) ([]*typedesc.Descriptor, error) {
	out := make([]*typedesc.Descriptor, len(m.Params))
	for i, p := range m.Params {
		d, err := typedesc.Find(p)
		if err != nil {
			return nil, fmt.Errorf("%s: param %d: %w", m.Signature(), i, err)
		}
		if d.IsVoid() {
			return nil, fmt.Errorf("%s: param %d: %q: %w", m.Signature(), i, p, typedesc.ErrUnknownType)
		}
		out[i] = d
	}
	return out, nil
}

func writeHeader(b *strings.Builder, m *classfile.Member, params []*typedesc.Descriptor, ret *typedesc.Descriptor) {
	b.WriteString("func ")
	if !m.IsStatic() {
		b.WriteString("(self *Object) ")
	}
	b.WriteString(goName(m))
	b.WriteByte('(')
	for i, d := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "p%d %s", i, d.GoType)
	}
	b.WriteString(") ")
	if ret.IsVoid() {
		b.WriteString("error")
	} else {
		fmt.Fprintf(b, "(%s, error)", ret.GoType)
	}
	b.WriteString(" {\n")
}

// goName maps a member name to a Go identifier for the listing.
func goName(m *classfile.Member) string {
	if m.IsConstructor() {
		return "construct"
	}
	name := strings.Map(func(r rune) rune {
		if r == '$' || r == '-' {
			return '_'
		}
		return r
	}, m.Name)
	if token.IsKeyword(name) {
		return name + "_"
	}
	return name
}

func typeNamesLiteral(types []string) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = strconv.Quote(t)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

func boxedLiteral(params []*typedesc.Descriptor) string {
	exprs := make([]string, len(params))
	for i, d := range params {
		exprs[i] = d.BoxExpr("p" + strconv.Itoa(i))
	}
	return "[]any{" + strings.Join(exprs, ", ") + "}"
}

// validate parses a generated listing and returns it gofmt'd.
func validate(m *classfile.Member, src string) (string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", "package shim\n\n"+src, parser.SkipObjectResolution)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", m.Signature(), ErrInvalidBody, err)
	}
	if len(f.Decls) != 1 {
		return "", fmt.Errorf("%s: %w: %d declarations", m.Signature(), ErrInvalidBody, len(f.Decls))
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok {
		return "", fmt.Errorf("%s: %w: not a function", m.Signature(), ErrInvalidBody)
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, fn); err != nil {
		return "", fmt.Errorf("%s: %w: %v", m.Signature(), ErrInvalidBody, err)
	}
	return buf.String(), nil
}
