package classfile

import (
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zboralski/shade/internal/typedesc"
)

// RootClass is the implicit superclass of every class.
const RootClass = "java.lang.Object"

// Object is a runtime instance created by Pool.New.
type Object struct {
	id      uuid.UUID
	class   *ClassDescriptor
	chain   []*ClassDescriptor // class first, then loaded superclasses
	lineage map[string]bool    // every class and interface name this object is

	mu     sync.RWMutex
	fields map[string]any
}

func newObject(chain []*ClassDescriptor, lineage map[string]bool) *Object {
	return &Object{
		id:      uuid.New(),
		class:   chain[0],
		chain:   chain,
		lineage: lineage,
		fields:  make(map[string]any),
	}
}

// ID returns the object's identity.
func (o *Object) ID() uuid.UUID {
	return o.id
}

// Class returns the object's own class descriptor.
func (o *Object) Class() *ClassDescriptor {
	return o.class
}

// ClassName returns the object's class name.
func (o *Object) ClassName() string {
	return o.class.Name
}

// InstanceOf reports whether the object is assignable to the named class or
// interface.
func (o *Object) InstanceOf(name string) bool {
	return name == RootClass || o.lineage[name]
}

// Get returns a field value, or nil if never set.
func (o *Object) Get(field string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fields[field]
}

// Set stores a field value.
func (o *Object) Set(field string, v any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[field] = v
}

// GetOrSet stores v only if the field is unset and returns the value the
// field holds afterwards.
func (o *Object) GetOrSet(field string, v any) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cur, ok := o.fields[field]; ok && cur != nil {
		return cur
	}
	o.fields[field] = v
	return v
}

func (o *Object) String() string {
	return o.class.Name + "@" + o.id.String()[:8]
}

// Assignable reports whether a non-primitive value may be stored in a slot
// declared with the given reference type. nil is always assignable. A Go
// value of a primitive kind is the boxed form of that kind, so it fits the
// kind's wrapper class and the interfaces the wrappers implement.
func Assignable(v any, typeName string) bool {
	if v == nil || typeName == RootClass {
		return true
	}
	if strings.HasSuffix(typeName, "[]") {
		k := reflect.TypeOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	}
	switch x := v.(type) {
	case *Object:
		return x.InstanceOf(typeName)
	case string:
		switch typeName {
		case "java.lang.String", "java.lang.CharSequence", javaSerializable, javaComparable:
			return true
		}
		return false
	}

	k, ok := typedesc.KindOf(v)
	if !ok {
		return false
	}
	if boxed, isWrapper := typedesc.Unboxed(typeName); isWrapper {
		return boxed == k
	}
	switch typeName {
	case "java.lang.Number":
		return k.IsNumeric()
	case javaSerializable, javaComparable:
		return true
	}
	return false
}

const (
	javaSerializable = "java.io.Serializable"
	javaComparable   = "java.lang.Comparable"
)
