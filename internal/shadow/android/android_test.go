package android

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/registry"
	"github.com/zboralski/shade/internal/shadow"
	"github.com/zboralski/shade/internal/translator"
)

func newPool(t *testing.T) *classfile.Pool {
	t.Helper()
	classes, err := classfile.LoadManifest("testdata/android.yaml")
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	pool := classfile.NewPool()
	if err := pool.DefineAll(classes); err != nil {
		t.Fatalf("DefineAll failed: %v", err)
	}
	pool.AddTranslator(translator.New(shadow.DefaultRegistry, translator.WithArena(registry.NewArena())))
	return pool
}

func TestLog(t *testing.T) {
	Logcat.Clear()
	pool := newPool(t)

	n, err := pool.InvokeStatic("android.util.Log", "d", "tag", "hello")
	if err != nil {
		t.Fatalf("Log.d failed: %v", err)
	}
	if n != int32(8) {
		t.Errorf("Log.d returned %v, want 8", n)
	}
	if _, err := pool.InvokeStatic("android.util.Log", "e", "tag", "bad", nil); err != nil {
		t.Fatalf("Log.e failed: %v", err)
	}
	if _, err := pool.InvokeStatic("android.util.Log", "println", Warn, "sys", "low memory"); err != nil {
		t.Fatalf("Log.println failed: %v", err)
	}
	if v, err := pool.InvokeStatic("android.util.Log", "isLoggable", "tag", Verbose); err != nil || v != false {
		t.Errorf("native isLoggable = %v, %v; want the stub's false", v, err)
	}

	want := []string{"D/tag: hello", "E/tag: bad", "W/sys: low memory"}
	var got []string
	for _, e := range Logcat.Entries() {
		got = append(got, e.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("logcat (-want +got):\n%s", diff)
	}
}

func TestTextUtils(t *testing.T) {
	pool := newPool(t)
	call := func(method string, args ...any) any {
		t.Helper()
		v, err := pool.InvokeStatic("android.text.TextUtils", method, args...)
		if err != nil {
			t.Fatalf("%s failed: %v", method, err)
		}
		return v
	}

	if call("isEmpty", "") != true || call("isEmpty", nil) != true || call("isEmpty", "x") != false {
		t.Error("isEmpty")
	}
	if call("equals", "a", "a") != true || call("equals", "a", nil) != false || call("equals", nil, nil) != true {
		t.Error("equals")
	}
	if got := call("join", ", ", []any{"a", 1, true}); got != "a, 1, true" {
		t.Errorf("join = %v", got)
	}
	if call("isDigitsOnly", "0123") != true || call("isDigitsOnly", "12a") != false {
		t.Error("isDigitsOnly")
	}
	if _, err := pool.InvokeStatic("android.text.TextUtils", "join", ",", nil); err == nil {
		t.Error("join with null tokens should fail")
	}
}

func TestViewState(t *testing.T) {
	pool := newPool(t)
	v, err := pool.New("android.view.View", "ctx")
	if err == nil {
		t.Fatal("a string is not a Context")
	}
	v, err = pool.New("android.view.View", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	invoke := func(method string, args ...any) any {
		t.Helper()
		out, err := pool.Invoke(v, method, args...)
		if err != nil {
			t.Fatalf("%s failed: %v", method, err)
		}
		return out
	}

	if invoke("getVisibility") != Visible || invoke("isEnabled") != true {
		t.Error("defaults wrong")
	}
	invoke("setVisibility", Gone)
	invoke("setEnabled", false)
	if invoke("getVisibility") != Gone || invoke("isEnabled") != false {
		t.Error("state not kept")
	}

	invoke("setTag", "plain")
	invoke("setTag", int32(7), "keyed")
	if invoke("getTag") != "plain" {
		t.Error("getTag()")
	}
	if invoke("getTag", int32(7)) != "keyed" || invoke("getTag", int32(8)) != nil {
		t.Error("getTag(int)")
	}
	if invoke("getId") != int32(0) {
		t.Error("unset id should decline to 0")
	}
	if _, ok := shadow.StateOf(v).Lookup("context"); !ok {
		t.Error("constructor did not record the context")
	}
}

func TestWidgetProperties(t *testing.T) {
	pool := newPool(t)
	tv, err := pool.New("android.widget.TextView")
	if err != nil {
		t.Fatalf("New(TextView) failed: %v", err)
	}
	other, err := pool.New("android.widget.TextView")
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		method string
		args   []any
	}{
		{"setText", []any{"hello"}},
		{"setTextSize", []any{float32(14)}},
		{"setSelected", []any{true}},
	}
	for _, s := range steps {
		if _, err := pool.Invoke(tv, s.method, s.args...); err != nil {
			t.Fatalf("%s failed: %v", s.method, err)
		}
	}

	checks := map[string]any{
		"getText":      "hello",
		"getTextSize":  float32(14),
		"isSelected":   true,
		"getLineCount": int32(0),
	}
	for method, want := range checks {
		got, err := pool.Invoke(tv, method)
		if err != nil || got != want {
			t.Errorf("%s = %v, %v; want %v", method, got, err, want)
		}
	}
	if got, _ := pool.Invoke(other, "getText"); got != nil {
		t.Errorf("other.getText = %v, want nil", got)
	}

	// Inherited View shadows still apply to widgets.
	if _, err := pool.Invoke(tv, "setVisibility", Invisible); err != nil {
		t.Fatal(err)
	}
	if got, _ := pool.Invoke(tv, "getVisibility"); got != Invisible {
		t.Errorf("getVisibility = %v", got)
	}
}

func TestPropertyOf(t *testing.T) {
	cases := []struct {
		m          classfile.Member
		prop, kind string
	}{
		{classfile.Member{Name: "setText", Params: []string{"java.lang.CharSequence"}, Return: "void"}, "Text", "set"},
		{classfile.Member{Name: "getText", Return: "java.lang.CharSequence"}, "Text", "get"},
		{classfile.Member{Name: "isShown", Return: "boolean"}, "Shown", "get"},
		{classfile.Member{Name: "settle", Params: []string{"int"}, Return: "void"}, "", ""},
		{classfile.Member{Name: "getText", Params: []string{"int"}, Return: "java.lang.CharSequence"}, "", ""},
		{classfile.Member{Name: "setText", Params: []string{"int", "int"}, Return: "void"}, "", ""},
		{classfile.Member{Name: "get", Return: "int"}, "", ""},
	}
	for _, tc := range cases {
		prop, kind := propertyOf(&tc.m)
		if prop != tc.prop || kind != tc.kind {
			t.Errorf("propertyOf(%s) = %q, %q; want %q, %q", tc.m.Signature(), prop, kind, tc.prop, tc.kind)
		}
	}
}
