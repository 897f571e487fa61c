package trace

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultEnricher(t *testing.T) {
	ctor := NewEvent("android.view.View", "<init>", "android.view.View@1234abcd", []string{"android.content.Context"}, []any{nil})
	DefaultEnricher(ctor)
	if !ctor.Tags.Has(Constructor) || !ctor.Tags.Has(Declined) || ctor.Tags.Has(Static) {
		t.Errorf("constructor tags = %v", ctor.Tags)
	}

	static := NewEvent("android.text.TextUtils", "isEmpty", "", []string{"java.lang.CharSequence"}, []any{""})
	static.Result = true
	DefaultEnricher(static)
	if static.PrimaryTag() != "#method" || !static.Tags.Has(Static) || static.Tags.Has(Declined) {
		t.Errorf("static tags = %v", static.Tags)
	}
	if got := static.Annotations.Get("result"); got != "bool" {
		t.Errorf("result annotation = %q", got)
	}

	failed := NewEvent("android.view.View", "draw", "v", nil, nil)
	failed.Err = errors.New("boom")
	DefaultEnricher(failed)
	if !failed.Tags.Has(Error) {
		t.Errorf("failed tags = %v", failed.Tags)
	}
	if s := failed.String(); !strings.Contains(s, "err=boom") || !strings.Contains(s, "#error") {
		t.Errorf("String() = %q", s)
	}
}

func TestTagsAddOnce(t *testing.T) {
	var tags Tags
	tags.Add(Shadowed)
	tags.Add(Shadowed)
	tags.Add(Static)
	if len(tags) != 2 || tags.Primary() != Shadowed {
		t.Errorf("tags = %v", tags)
	}
	if got := strings.Join(tags.Strings(), " "); got != "#shadowed #static" {
		t.Errorf("Strings = %q", got)
	}
}
