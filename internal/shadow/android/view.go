package android

import (
	"strconv"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/shadow"
)

const viewClass = "android.view.View"

// View visibility values.
const (
	Visible   int32 = 0
	Invisible int32 = 4
	Gone      int32 = 8
)

func init() {
	shadow.RegisterFunc("view", viewClass, classfile.ConstructorName, shadowViewInit)
	shadow.RegisterFunc("view", viewClass, "setVisibility", setter("visibility"))
	shadow.RegisterFunc("view", viewClass, "getVisibility", getter("visibility", Visible))
	shadow.RegisterFunc("view", viewClass, "setEnabled", setter("enabled"))
	shadow.RegisterFunc("view", viewClass, "isEnabled", getter("enabled", true))
	shadow.RegisterFunc("view", viewClass, "setId", setter("id"))
	shadow.RegisterFunc("view", viewClass, "getId", getter("id", nil))

	// setTag(Object) and setTag(int key, Object)
	shadow.RegisterFunc("view", viewClass, "setTag", setter("tag"), "java.lang.Object")
	shadow.Register(shadow.Def{
		Class: viewClass, Method: "getTag", Params: []string{}, Handler: getter("tag", nil), Category: "view",
	})
	shadow.RegisterFunc("view", viewClass, "setTag", shadowSetKeyedTag, "int", "java.lang.Object")
	shadow.RegisterFunc("view", viewClass, "getTag", shadowGetKeyedTag, "int")
}

// shadowViewInit records the context a view was built with.
func shadowViewInit(c *shadow.Call) (any, error) {
	if len(c.Args) > 0 {
		c.State().Set("context", c.Arg(0))
	}
	return nil, nil
}

// setter stores the first argument under key.
func setter(key string) shadow.Handler {
	return func(c *shadow.Call) (any, error) {
		c.State().Set(key, c.Arg(0))
		return nil, nil
	}
}

// getter returns the value stored under key, or def when unset.
func getter(key string, def any) shadow.Handler {
	return func(c *shadow.Call) (any, error) {
		if v, ok := c.State().Lookup(key); ok {
			return v, nil
		}
		return def, nil
	}
}

func keyedTag(key int32) string {
	return "tag:" + strconv.Itoa(int(key))
}

func shadowSetKeyedTag(c *shadow.Call) (any, error) {
	c.State().Set(keyedTag(c.Int(0)), c.Arg(1))
	return nil, nil
}

func shadowGetKeyedTag(c *shadow.Call) (any, error) {
	return c.State().Get(keyedTag(c.Int(0))), nil
}
