package script

import (
	"errors"
	"testing"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/registry"
	"github.com/zboralski/shade/internal/shadow"
	"github.com/zboralski/shade/internal/translator"
	"github.com/zboralski/shade/internal/typedesc"
)

func setup(t *testing.T, opts ...Option) (*classfile.Pool, *Dispatcher) {
	t.Helper()
	classes, err := classfile.LoadManifest("testdata/sdk.yaml")
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	pool := classfile.NewPool()
	if err := pool.DefineAll(classes); err != nil {
		t.Fatalf("DefineAll failed: %v", err)
	}
	d := New(pool, opts...)
	pool.AddTranslator(translator.New(d, translator.WithArena(registry.NewArena())))
	return pool, d
}

func TestScriptShadows(t *testing.T) {
	pool, d := setup(t)
	if err := d.LoadFile("testdata/widget.js"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if d.Handlers() != 7 {
		t.Errorf("Handlers = %d, want 7", d.Handlers())
	}

	w, err := pool.New("android.widget.Widget")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	checks := []struct {
		method string
		want   any
	}{
		{"getCount", int32(7)},
		{"getLabel", "android.widget.Widget#getLabel@true"},
		{"getRatio", float64(1.5)},
		{"getInitial", uint16('W')},
		{"isChecked", false},
	}
	for _, c := range checks {
		got, err := pool.Invoke(w, c.method)
		if err != nil || got != c.want {
			t.Errorf("%s = %#v, %v; want %#v", c.method, got, err, c.want)
		}
	}

	if _, err := pool.Invoke(w, "setCount", int32(3)); err != nil {
		t.Fatalf("setCount failed: %v", err)
	}
	if got, _ := pool.Invoke(w, "getCount"); got != int32(3) {
		t.Errorf("getCount after setCount = %#v, want 3", got)
	}

	other, _ := pool.New("android.widget.Widget")
	if got, _ := pool.Invoke(other, "getCount"); got != int32(7) {
		t.Errorf("state leaked to another instance: %#v", got)
	}

	if got, err := pool.InvokeStatic("android.os.Build", "getSerial"); err != nil || got != "static" {
		t.Errorf("getSerial = %v, %v", got, err)
	}
}

func TestScriptReturnMismatch(t *testing.T) {
	pool, d := setup(t)
	err := d.Load("bad.js", `shadow("android.widget.Widget", "getCount", function () { return "seven"; });`)
	if err != nil {
		t.Fatal(err)
	}
	w, err := pool.New("android.widget.Widget")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Invoke(w, "getCount"); !errors.Is(err, typedesc.ErrNotAssignable) {
		t.Errorf("err = %v, want ErrNotAssignable", err)
	}
}

func TestScriptNumbersMustFit(t *testing.T) {
	pool, d := setup(t)
	w, err := pool.New("android.widget.Widget")
	if err != nil {
		t.Fatal(err)
	}
	for _, ret := range []string{"3e9", "-3e9", "2.7", "0/0"} {
		src := `shadow("android.widget.Widget", "getCount", function () { return ` + ret + `; });`
		if err := d.Load("count.js", src); err != nil {
			t.Fatal(err)
		}
		if v, err := pool.Invoke(w, "getCount"); !errors.Is(err, typedesc.ErrNotAssignable) {
			t.Errorf("getCount returning %s = %#v, %v; want ErrNotAssignable", ret, v, err)
		}
	}

	if err := d.Load("initial.js", `shadow("android.widget.Widget", "getInitial", function () { return 70000; });`); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Invoke(w, "getInitial"); !errors.Is(err, typedesc.ErrNotAssignable) {
		t.Errorf("char out of range: err = %v, want ErrNotAssignable", err)
	}
}

func TestScriptBoxedReturn(t *testing.T) {
	pool, d := setup(t)
	if err := d.Load("sdk.js", `shadow("android.os.Build", "getSdkInt", function () { return 34; });`); err != nil {
		t.Fatal(err)
	}
	v, err := pool.InvokeStatic("android.os.Build", "getSdkInt")
	if err != nil || v != int32(34) {
		t.Errorf("getSdkInt = %#v, %v; want int32(34)", v, err)
	}
}

func TestScriptErrors(t *testing.T) {
	_, d := setup(t)
	if err := d.Load("syntax.js", "shadow(("); err == nil {
		t.Error("syntax error accepted")
	}
	if err := d.Load("nofn.js", `shadow("a.B", "m", 42);`); err == nil {
		t.Error("non-function handler accepted")
	}
	if err := d.LoadFile("testdata/missing.js"); err == nil {
		t.Error("missing file accepted")
	}
}

func TestScriptThrowPropagates(t *testing.T) {
	pool, d := setup(t)
	if err := d.Load("throw.js", `shadow("android.widget.Widget", "getCount", function () { throw new Error("nope"); });`); err != nil {
		t.Fatal(err)
	}
	w, err := pool.New("android.widget.Widget")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Invoke(w, "getCount"); err == nil {
		t.Error("thrown error swallowed")
	}
}

func TestFallback(t *testing.T) {
	reg := shadow.NewRegistry()
	reg.RegisterFunc("test", "android.widget.Widget", "getLabel", func(*shadow.Call) (any, error) {
		return "from registry", nil
	})
	pool, d := setup(t, WithFallback(reg))
	if err := d.Load("count.js", `shadow("android.widget.Widget", "getCount", function () { return 1; });`); err != nil {
		t.Fatal(err)
	}

	w, err := pool.New("android.widget.Widget")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := pool.Invoke(w, "getCount"); got != int32(1) {
		t.Errorf("getCount = %#v", got)
	}
	if got, _ := pool.Invoke(w, "getLabel"); got != "from registry" {
		t.Errorf("getLabel = %#v", got)
	}
	if w.Class().Field(shadow.StateField) == nil {
		t.Error("Instrument was not forwarded to the fallback")
	}
	if !d.Handles("android.widget.Widget", "getLabel", []string{}) || d.Handles("android.widget.Widget", "isChecked", []string{}) {
		t.Error("Handles ignores the fallback")
	}
}
