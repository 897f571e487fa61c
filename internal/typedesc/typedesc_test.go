package typedesc

import (
	"errors"
	"math"
	"testing"
)

func TestFindPrimitives(t *testing.T) {
	cases := map[string]struct {
		kind   Kind
		goType string
		zero   any
	}{
		"boolean": {Boolean, "bool", false},
		"byte":    {Byte, "int8", int8(0)},
		"char":    {Char, "uint16", uint16(0)},
		"short":   {Short, "int16", int16(0)},
		"int":     {Int, "int32", int32(0)},
		"long":    {Long, "int64", int64(0)},
		"float":   {Float, "float32", float32(0)},
		"double":  {Double, "float64", float64(0)},
	}

	for name, want := range cases {
		d, err := Find(name)
		if err != nil {
			t.Fatalf("Find(%q) failed: %v", name, err)
		}
		if d.Kind != want.kind {
			t.Errorf("Find(%q).Kind = %v, want %v", name, d.Kind, want.kind)
		}
		if d.GoType != want.goType {
			t.Errorf("Find(%q).GoType = %q, want %q", name, d.GoType, want.goType)
		}
		if d.Zero != want.zero {
			t.Errorf("Find(%q).Zero = %#v, want %#v", name, d.Zero, want.zero)
		}
		if d.IsVoid() {
			t.Errorf("Find(%q) reports void", name)
		}
	}
}

func TestFindVoid(t *testing.T) {
	d, err := Find("void")
	if err != nil {
		t.Fatalf("Find(void) failed: %v", err)
	}
	if !d.IsVoid() {
		t.Error("void descriptor should report IsVoid")
	}
}

func TestFindReferenceShared(t *testing.T) {
	names := []string{
		"java.lang.String",
		"android.view.View$OnClickListener",
		"Widget",
		"int[]",
		"java.lang.Object[][]",
	}

	first, err := Find(names[0])
	if err != nil {
		t.Fatalf("Find(%q) failed: %v", names[0], err)
	}
	for _, name := range names {
		d, err := Find(name)
		if err != nil {
			t.Fatalf("Find(%q) failed: %v", name, err)
		}
		if d != first {
			t.Errorf("Find(%q) returned a distinct entry; reference entries must be shared", name)
		}
		if d.Zero != nil || d.ZeroLiteral != "nil" {
			t.Errorf("Find(%q) zero = %#v / %q, want nil", name, d.Zero, d.ZeroLiteral)
		}
	}
}

func TestFindUnknown(t *testing.T) {
	for _, name := range []string{"", "9lives", "java..lang", "void[]", "int[", "a b"} {
		if _, err := Find(name); !errors.Is(err, ErrUnknownType) {
			t.Errorf("Find(%q) err = %v, want ErrUnknownType", name, err)
		}
	}
}

func TestBoxUnbox(t *testing.T) {
	intDesc := MustFind("int")

	v, err := intDesc.Box(int32(7))
	if err != nil {
		t.Fatalf("Box(int32) failed: %v", err)
	}
	if v != int32(7) {
		t.Errorf("Box(int32(7)) = %#v", v)
	}

	if _, err := intDesc.Box(int64(7)); !errors.Is(err, ErrNotAssignable) {
		t.Errorf("Box(int64) on int err = %v, want ErrNotAssignable", err)
	}
	if _, err := intDesc.Box(nil); !errors.Is(err, ErrNotAssignable) {
		t.Errorf("Box(nil) on int err = %v, want ErrNotAssignable", err)
	}
	if _, err := intDesc.Unbox("7"); !errors.Is(err, ErrNotAssignable) {
		t.Errorf("Unbox(string) on int err = %v, want ErrNotAssignable", err)
	}

	ref := MustFind("java.lang.String")
	if v, err := ref.Box("hello"); err != nil || v != "hello" {
		t.Errorf("reference Box = %#v, %v", v, err)
	}
	if v, err := ref.Box(nil); err != nil || v != nil {
		t.Errorf("reference Box(nil) = %#v, %v", v, err)
	}
}

func TestExpressions(t *testing.T) {
	if got := MustFind("long").UnboxExpr("x"); got != "x.(int64)" {
		t.Errorf("long UnboxExpr = %q", got)
	}
	if got := MustFind("boolean").BoxExpr("p0"); got != "any(p0)" {
		t.Errorf("boolean BoxExpr = %q", got)
	}
	if got := MustFind("java.lang.Object").BoxExpr("p1"); got != "p1" {
		t.Errorf("reference BoxExpr = %q", got)
	}
	if got := MustFind("java.lang.Object").UnboxExpr("x"); got != "x" {
		t.Errorf("reference UnboxExpr = %q", got)
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		in   any
		kind Kind
		want any
	}{
		{int64(7), Int, int32(7)},
		{float64(7), Int, int32(7)},
		{float64(2.5), Double, float64(2.5)},
		{float64(2.5), Float, float32(2.5)},
		{int64(1) << 40, Long, int64(1) << 40},
		{"x", Char, uint16('x')},
		{true, Boolean, true},
		{int64(0), Boolean, false},
		{nil, Int, nil},
		{"kept", Reference, "kept"},
	}
	for _, tc := range cases {
		got, err := Coerce(tc.in, tc.kind)
		if err != nil {
			t.Errorf("Coerce(%#v, %v) failed: %v", tc.in, tc.kind, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Coerce(%#v, %v) = %#v, want %#v", tc.in, tc.kind, got, tc.want)
		}
	}

	rejected := []struct {
		in   any
		kind Kind
	}{
		{"seven", Int},
		{true, Int},
		{int64(3000000000), Int},
		{float64(3e9), Int},
		{float64(2.7), Int},
		{float64(-0.5), Long},
		{int64(70000), Char},
		{int64(-1), Char},
		{float64(128), Byte},
		{int64(-32769), Short},
		{float64(1 << 63), Long},
		{uint64(math.MaxUint64), Long},
		{float64(1e40), Float},
		{math.NaN(), Int},
		{math.Inf(1), Int},
	}
	for _, tc := range rejected {
		if got, err := Coerce(tc.in, tc.kind); !errors.Is(err, ErrNotAssignable) {
			t.Errorf("Coerce(%#v, %v) = %#v, %v; want ErrNotAssignable", tc.in, tc.kind, got, err)
		}
	}
}

func TestCoerceBounds(t *testing.T) {
	cases := []struct {
		in   any
		kind Kind
		want any
	}{
		{float64(-128), Byte, int8(-128)},
		{int64(127), Byte, int8(127)},
		{int64(math.MaxUint16), Char, uint16(math.MaxUint16)},
		{float64(math.MinInt32), Int, int32(math.MinInt32)},
		{int64(math.MaxInt32), Int, int32(math.MaxInt32)},
		{int64(math.MaxInt64), Long, int64(math.MaxInt64)},
		{int64(math.MaxInt64 - 1), Long, int64(math.MaxInt64 - 1)},
		{float64(4), Short, int16(4)},
		{math.Inf(-1), Float, float32(math.Inf(-1))},
		{int64(3), Double, float64(3)},
	}
	for _, tc := range cases {
		got, err := Coerce(tc.in, tc.kind)
		if err != nil {
			t.Errorf("Coerce(%#v, %v) failed: %v", tc.in, tc.kind, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Coerce(%#v, %v) = %#v, want %#v", tc.in, tc.kind, got, tc.want)
		}
	}
}

func TestBoxedTypes(t *testing.T) {
	for _, k := range []Kind{Boolean, Byte, Char, Short, Int, Long, Float, Double} {
		name := k.BoxedName()
		got, ok := Unboxed(name)
		if !ok || got != k {
			t.Errorf("Unboxed(%q) = %v, %v; want %v", name, got, ok, k)
		}
		zero := ForKind(k).Zero
		if vk, ok := KindOf(zero); !ok || vk != k {
			t.Errorf("KindOf(%#v) = %v, %v; want %v", zero, vk, ok, k)
		}
	}
	if Void.BoxedName() != "" || Reference.BoxedName() != "" {
		t.Error("void and reference have no wrapper")
	}
	if _, ok := Unboxed("java.lang.String"); ok {
		t.Error("String is not a wrapper")
	}
	if Char.IsNumeric() || Boolean.IsNumeric() || !Int.IsNumeric() || !Double.IsNumeric() {
		t.Error("IsNumeric disagrees with java.lang.Number")
	}

	valueKinds := map[string]Kind{
		"int":                 Int,
		"void":                Void,
		"java.lang.Integer":   Int,
		"java.lang.Character": Char,
		"java.lang.String":    Reference,
		"int[]":               Reference,
	}
	for name, want := range valueKinds {
		if got, err := ValueKind(name); err != nil || got != want {
			t.Errorf("ValueKind(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ValueKind("not a type"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ValueKind(bad) err = %v, want ErrUnknownType", err)
	}
}
