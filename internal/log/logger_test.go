package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatchCallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{Logger: zap.New(core)}

	var got []string
	l.SetOnDispatch(func(class, method, detail string) {
		got = append(got, class+"."+method+" "+detail)
	})
	l.WithCategory("view").Dispatch("android.view.View", "getId", "")

	if len(got) != 1 || got[0] != "android.view.View.getId " {
		t.Errorf("callback = %q", got)
	}
	entries := logs.FilterMessage("dispatch").All()
	if len(entries) != 1 {
		t.Fatalf("dispatch entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["cat"] != "view" || fields["class"] != "android.view.View" || fields["fn"] != "getId" {
		t.Errorf("fields = %v", fields)
	}
}

func TestGetWithoutInit(t *testing.T) {
	if L != nil {
		t.Skip("global logger already initialized")
	}
	if Get() == nil || Get() != Get() {
		t.Error("Get should return one shared nop logger")
	}
}
