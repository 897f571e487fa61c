package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zboralski/shade/internal/translator"
)

func TestParse(t *testing.T) {
	src := `
match:
  prefixes: [android., com.google.android.]
manifests: [sdk/android.yaml, /abs/extra.yaml]
scripts: [shadows.js]
abstract: skip
color: false
`
	cfg, err := Parse([]byte(src), "/proj")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := &Config{
		Prefixes:  []string{"android.", "com.google.android."},
		Manifests: []string{"/proj/sdk/android.yaml", "/abs/extra.yaml"},
		Scripts:   []string{"/proj/shadows.js"},
		Abstract:  translator.SkipAbstract,
		Color:     false,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("manifests: []\n"), "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(translator.DefaultPrefixes, cfg.Prefixes); diff != "" {
		t.Errorf("prefixes (-want +got):\n%s", diff)
	}
	if cfg.Abstract != translator.ClearAbstract || !cfg.Color {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"abstract: keep\n", "match: [\n"} {
		if _, err := Parse([]byte(src), ""); err == nil {
			t.Errorf("Parse(%q) accepted", src)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("manifests: [sdk.yaml]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "sdk.yaml")}, cfg.Manifests); diff != "" {
		t.Errorf("manifests (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing file accepted")
	}
}

func TestColorDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("SHADE_NO_COLOR", "1")
	if !ColorDisabled() {
		t.Error("SHADE_NO_COLOR ignored")
	}
	t.Setenv("SHADE_NO_COLOR", "")
	if ColorDisabled() {
		t.Error("color disabled with empty env")
	}
}
