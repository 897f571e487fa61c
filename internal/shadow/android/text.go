package android

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/zboralski/shade/internal/shadow"
)

const textUtilsClass = "android.text.TextUtils"

func init() {
	shadow.RegisterFunc("text", textUtilsClass, "isEmpty", shadowIsEmpty)
	shadow.RegisterFunc("text", textUtilsClass, "equals", shadowTextEquals)
	shadow.RegisterFunc("text", textUtilsClass, "join", shadowJoin)
	shadow.RegisterFunc("text", textUtilsClass, "isDigitsOnly", shadowIsDigitsOnly)
}

func shadowIsEmpty(c *shadow.Call) (any, error) {
	return c.String(0) == "", nil
}

func shadowTextEquals(c *shadow.Call) (any, error) {
	a, b := c.Arg(0), c.Arg(1)
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	return c.String(0) == c.String(1), nil
}

// shadowJoin handles join(CharSequence delimiter, Object[] tokens).
func shadowJoin(c *shadow.Call) (any, error) {
	tokens := c.Arg(1)
	if tokens == nil {
		return nil, fmt.Errorf("TextUtils.join: null tokens")
	}
	v := reflect.ValueOf(tokens)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("TextUtils.join: tokens is a %T", tokens)
	}
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}
	return strings.Join(parts, c.String(0)), nil
}

func shadowIsDigitsOnly(c *shadow.Call) (any, error) {
	for _, r := range c.String(0) {
		if !unicode.IsDigit(r) {
			return false, nil
		}
	}
	return true, nil
}
