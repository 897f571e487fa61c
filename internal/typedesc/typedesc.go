// Package typedesc is the static catalog of type descriptors used when
// generating delegating bodies. Every primitive kind has one entry; all
// reference types (classes, interfaces, arrays) share a single entry.
//
// Java values are carried in Go as:
//
//	boolean -> bool     byte  -> int8     char   -> uint16
//	short   -> int16    int   -> int32    long   -> int64
//	float   -> float32  double-> float64  ref    -> any
package typedesc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnknownType is returned by Find for names with no catalog entry.
	ErrUnknownType = errors.New("unknown type")

	// ErrNotAssignable is returned by Box, Unbox and Coerce when a value
	// does not have, or cannot become, the Go type a kind requires.
	ErrNotAssignable = errors.New("value not assignable")
)

// Kind is the closed set of type categories.
type Kind int

const (
	Void Kind = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Reference
)

var kindNames = [...]string{
	Void:      "void",
	Boolean:   "boolean",
	Byte:      "byte",
	Char:      "char",
	Short:     "short",
	Int:       "int",
	Long:      "long",
	Float:     "float",
	Double:    "double",
	Reference: "reference",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsPrimitive reports whether k is a value kind other than void.
func (k Kind) IsPrimitive() bool {
	return k > Void && k < Reference
}

// Descriptor describes one catalog entry. Entries are immutable and shared.
type Descriptor struct {
	Name        string // canonical name ("int", "void"; "reference" for the shared entry)
	Kind        Kind
	GoType      string // Go spelling used in generated listings
	Zero        any    // value returned when the dispatcher declines
	ZeroLiteral string // Go literal for Zero
}

// IsVoid reports whether the descriptor is the void entry.
func (d *Descriptor) IsVoid() bool {
	return d.Kind == Void
}

// Box wraps an argument for the generated parameter array. Primitive
// arguments must carry exactly their kind's Go type; references pass
// through unchanged.
func (d *Descriptor) Box(v any) (any, error) {
	switch d.Kind {
	case Void:
		return nil, fmt.Errorf("box void: %w", ErrNotAssignable)
	case Reference:
		return v, nil
	}
	if !d.holds(v) {
		return nil, fmt.Errorf("box %T as %s: %w", v, d.Name, ErrNotAssignable)
	}
	return v, nil
}

// Unbox extracts a primitive from a non-nil dispatcher result. A value of
// any other Go type is a contract violation. Reference results are returned
// as-is; class assignability is checked by the caller, which knows the
// declared class.
func (d *Descriptor) Unbox(v any) (any, error) {
	switch d.Kind {
	case Void:
		return nil, nil
	case Reference:
		return v, nil
	}
	if !d.holds(v) {
		return nil, fmt.Errorf("unbox %T as %s: %w", v, d.Name, ErrNotAssignable)
	}
	return v, nil
}

func (d *Descriptor) holds(v any) bool {
	k, ok := KindOf(v)
	return ok && k == d.Kind
}

// BoxExpr renders the boxing of param in a generated listing.
func (d *Descriptor) BoxExpr(param string) string {
	if d.Kind == Reference {
		return param
	}
	return "any(" + param + ")"
}

// UnboxExpr renders the unboxing of x in a generated listing.
func (d *Descriptor) UnboxExpr(x string) string {
	if d.Kind == Reference {
		return x
	}
	return x + ".(" + d.GoType + ")"
}

var (
	voidDesc      = &Descriptor{Name: "void", Kind: Void}
	referenceDesc = &Descriptor{Name: "reference", Kind: Reference, GoType: "any", ZeroLiteral: "nil"}

	catalog = map[string]*Descriptor{
		"void":    voidDesc,
		"boolean": {Name: "boolean", Kind: Boolean, GoType: "bool", Zero: false, ZeroLiteral: "false"},
		"byte":    {Name: "byte", Kind: Byte, GoType: "int8", Zero: int8(0), ZeroLiteral: "0"},
		"char":    {Name: "char", Kind: Char, GoType: "uint16", Zero: uint16(0), ZeroLiteral: "0"},
		"short":   {Name: "short", Kind: Short, GoType: "int16", Zero: int16(0), ZeroLiteral: "0"},
		"int":     {Name: "int", Kind: Int, GoType: "int32", Zero: int32(0), ZeroLiteral: "0"},
		"long":    {Name: "long", Kind: Long, GoType: "int64", Zero: int64(0), ZeroLiteral: "0"},
		"float":   {Name: "float", Kind: Float, GoType: "float32", Zero: float32(0), ZeroLiteral: "0"},
		"double":  {Name: "double", Kind: Double, GoType: "float64", Zero: float64(0), ZeroLiteral: "0"},
	}
)

// binaryName matches dotted class names such as android.view.View$OnClickListener.
var binaryName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// Find returns the descriptor for a type name. Primitive names map to their
// own entries; class names and array types map to the shared reference
// entry. Anything else is ErrUnknownType.
func Find(name string) (*Descriptor, error) {
	if d, ok := catalog[name]; ok {
		return d, nil
	}
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		d, err := Find(elem)
		if err != nil {
			return nil, err
		}
		if d.IsVoid() {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownType)
		}
		return referenceDesc, nil
	}
	if binaryName.MatchString(name) {
		return referenceDesc, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownType)
}

// MustFind is Find for names known at compile time.
func MustFind(name string) *Descriptor {
	d, err := Find(name)
	if err != nil {
		panic(err)
	}
	return d
}

// ForKind returns the entry for a kind.
func ForKind(k Kind) *Descriptor {
	if k == Reference {
		return referenceDesc
	}
	return catalog[k.String()]
}
