package classfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Raw YAML structures for unmarshaling an SDK manifest.

type rawManifest struct {
	Classes []rawClass `yaml:"classes"`
}

type rawClass struct {
	Name         string      `yaml:"name"`
	Super        string      `yaml:"super"`
	Interfaces   []string    `yaml:"interfaces"`
	Modifiers    []string    `yaml:"modifiers"`
	Fields       []rawField  `yaml:"fields"`
	Constructors []rawMember `yaml:"constructors"`
	Methods      []rawMember `yaml:"methods"`
}

type rawField struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Modifiers []string `yaml:"modifiers"`
}

type rawMember struct {
	Name      string   `yaml:"name"`
	Params    []string `yaml:"params"`
	Return    string   `yaml:"return"`
	Modifiers []string `yaml:"modifiers"`
	Throws    []string `yaml:"throws"`
}

// LoadManifest reads an SDK manifest file.
func LoadManifest(path string) ([]*ClassDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	classes, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return classes, nil
}

// ParseManifest builds class definitions from manifest YAML. Every concrete
// member gets the stock SDK stub body; abstract and native methods get none.
// Types are not checked here: an unknown type fails when the class is
// rewritten.
func ParseManifest(data []byte) ([]*ClassDescriptor, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}

	classes := make([]*ClassDescriptor, 0, len(raw.Classes))
	for i, rc := range raw.Classes {
		if rc.Name == "" {
			return nil, fmt.Errorf("class #%d: missing name", i)
		}
		c, err := buildClass(rc)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", rc.Name, err)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func buildClass(rc rawClass) (*ClassDescriptor, error) {
	mods, err := ParseModifiers(rc.Modifiers)
	if err != nil {
		return nil, err
	}

	c := &ClassDescriptor{
		Name:       rc.Name,
		Modifiers:  mods,
		Superclass: rc.Super,
		Interfaces: rc.Interfaces,
	}
	if c.Superclass == "" && !c.IsInterface() && c.Name != RootClass {
		c.Superclass = RootClass
	}

	for _, rf := range rc.Fields {
		fm, err := ParseModifiers(rf.Modifiers)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", rf.Name, err)
		}
		if err := c.AddField(&Field{Name: rf.Name, Type: rf.Type, Modifiers: fm}); err != nil {
			return nil, err
		}
	}

	for _, rm := range rc.Constructors {
		m, err := buildMember(rm, true, c.IsInterface())
		if err != nil {
			return nil, fmt.Errorf("constructor: %w", err)
		}
		c.Constructors = append(c.Constructors, m)
	}

	for _, rm := range rc.Methods {
		if rm.Name == "" {
			return nil, fmt.Errorf("method without a name")
		}
		m, err := buildMember(rm, false, c.IsInterface())
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", rm.Name, err)
		}
		c.Methods = append(c.Methods, m)
	}
	return c, nil
}

func buildMember(rm rawMember, ctor, inInterface bool) (*Member, error) {
	mods, err := ParseModifiers(rm.Modifiers)
	if err != nil {
		return nil, err
	}
	m := &Member{
		Name:       rm.Name,
		Params:     rm.Params,
		Return:     rm.Return,
		Modifiers:  mods,
		Exceptions: rm.Throws,
	}
	if ctor {
		m.Name = ConstructorName
		m.Return = ""
	} else if m.Return == "" {
		m.Return = VoidType
	}
	if inInterface && !ctor && !m.IsStatic() {
		m.Modifiers |= Abstract
	}
	if !m.Modifiers.Has(Abstract) && !m.Modifiers.Has(Native) {
		m.Body = StubBody()
	}
	return m, nil
}
