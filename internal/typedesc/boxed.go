package typedesc

// boxedTypes maps each primitive kind to its java.lang wrapper class.
var boxedTypes = map[Kind]string{
	Boolean: "java.lang.Boolean",
	Byte:    "java.lang.Byte",
	Char:    "java.lang.Character",
	Short:   "java.lang.Short",
	Int:     "java.lang.Integer",
	Long:    "java.lang.Long",
	Float:   "java.lang.Float",
	Double:  "java.lang.Double",
}

var unboxedTypes = func() map[string]Kind {
	m := make(map[string]Kind, len(boxedTypes))
	for k, name := range boxedTypes {
		m[name] = k
	}
	return m
}()

// BoxedName returns the wrapper class of a primitive kind, or "" for void
// and reference.
func (k Kind) BoxedName() string {
	return boxedTypes[k]
}

// IsNumeric reports whether k is a primitive that java.lang.Number covers.
func (k Kind) IsNumeric() bool {
	switch k {
	case Byte, Short, Int, Long, Float, Double:
		return true
	}
	return false
}

// Unboxed returns the primitive kind a wrapper class boxes.
func Unboxed(class string) (Kind, bool) {
	k, ok := unboxedTypes[class]
	return k, ok
}

// KindOf returns the primitive kind whose Go type v carries.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case bool:
		return Boolean, true
	case int8:
		return Byte, true
	case uint16:
		return Char, true
	case int16:
		return Short, true
	case int32:
		return Int, true
	case int64:
		return Long, true
	case float32:
		return Float, true
	case float64:
		return Double, true
	}
	return Void, false
}

// ValueKind returns the kind of the Go values a declared type carries: the
// entry's own kind for primitives and void, the boxed kind for wrapper
// classes, and Reference for every other class.
func ValueKind(typeName string) (Kind, error) {
	d, err := Find(typeName)
	if err != nil {
		return Void, err
	}
	if d.Kind == Reference {
		if k, ok := Unboxed(typeName); ok {
			return k, nil
		}
	}
	return d.Kind, nil
}
