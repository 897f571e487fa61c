// Package config loads shade.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zboralski/shade/internal/translator"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "shade.yaml"

// Config is the resolved configuration.
type Config struct {
	Prefixes  []string
	Manifests []string // resolved relative to the config file
	Scripts   []string // resolved relative to the config file
	Abstract  translator.AbstractPolicy
	Color     bool
}

// Raw YAML structures for unmarshaling.

type rawFile struct {
	Match     rawMatch `yaml:"match"`
	Manifests []string `yaml:"manifests"`
	Scripts   []string `yaml:"scripts"`
	Abstract  string   `yaml:"abstract"`
	Color     *bool    `yaml:"color"`
}

type rawMatch struct {
	Prefixes []string `yaml:"prefixes"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		Prefixes: append([]string(nil), translator.DefaultPrefixes...),
		Abstract: translator.ClearAbstract,
		Color:    true,
	}
}

// Load reads a config file. An empty path loads DefaultFile if it exists
// and falls back to Default otherwise.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses config YAML. Relative paths are resolved against dir.
func Parse(data []byte, dir string) (*Config, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}

	cfg := Default()
	if len(raw.Match.Prefixes) > 0 {
		cfg.Prefixes = raw.Match.Prefixes
	}
	policy, err := translator.ParseAbstractPolicy(raw.Abstract)
	if err != nil {
		return nil, err
	}
	cfg.Abstract = policy
	if raw.Color != nil {
		cfg.Color = *raw.Color
	}
	cfg.Manifests = resolve(dir, raw.Manifests)
	cfg.Scripts = resolve(dir, raw.Scripts)
	return cfg, nil
}

func resolve(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) && dir != "" {
			p = filepath.Join(dir, p)
		}
		out = append(out, p)
	}
	return out
}

// ColorDisabled reports whether the environment turns color off.
func ColorDisabled() bool {
	return os.Getenv("SHADE_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}
