package android

import (
	"strings"
	"unicode"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/shadow"
)

func init() {
	shadow.RegisterDetector(shadow.Detector{
		Name:        "widget-properties",
		Patterns:    []string{"android.widget.*"},
		Activate:    activateWidgetProperties,
		Description: "bean-style getters and setters backed by shadow state",
	})
}

// activateWidgetProperties shadows setX(v), getX() and isX() on a widget
// class as a property X stored in the instance's shadow state. Members that
// already have a handler are left alone.
func activateWidgetProperties(r *shadow.Registry, c *classfile.ClassDescriptor) int {
	installed := 0
	for _, m := range c.Methods {
		if m.IsStatic() {
			continue
		}
		prop, kind := propertyOf(m)
		if prop == "" || r.Handles(c.Name, m.Name, m.Params) {
			continue
		}
		var h shadow.Handler
		switch kind {
		case "set":
			h = setter("prop:" + prop)
		default:
			h = getter("prop:"+prop, nil)
		}
		r.Register(shadow.Def{
			Class:    c.Name,
			Method:   m.Name,
			Params:   append([]string{}, m.Params...),
			Handler:  h,
			Category: "widget",
		})
		installed++
	}
	return installed
}

// propertyOf returns the property a member accesses and whether it reads
// ("get") or writes ("set") it.
func propertyOf(m *classfile.Member) (string, string) {
	for _, prefix := range []string{"set", "get", "is"} {
		rest, ok := strings.CutPrefix(m.Name, prefix)
		if !ok || rest == "" || !unicode.IsUpper(rune(rest[0])) {
			continue
		}
		switch {
		case prefix == "set" && len(m.Params) == 1 && m.ReturnType() == classfile.VoidType:
			return rest, "set"
		case prefix != "set" && len(m.Params) == 0 && m.ReturnType() != classfile.VoidType:
			return rest, "get"
		}
	}
	return "", ""
}
