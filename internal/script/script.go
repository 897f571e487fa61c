// Package script implements a dispatcher whose shadows are JavaScript
// functions, run with goja.
//
// A script registers handlers with the global shadow function:
//
//	shadow("android.widget.Widget", "getCount", function (call) {
//		return call.get("count") || 7;
//	});
//
// The handler receives an object with class, method, self, types and args
// fields plus get(key) and set(key, value) for the receiver's shadow state.
// Returning undefined or null declines. Numbers are converted to the
// member's declared return type; a number that type cannot hold exactly
// fails the call.
package script

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/zboralski/shade/internal/classfile"
	glog "github.com/zboralski/shade/internal/log"
	"github.com/zboralski/shade/internal/shadow"
	"github.com/zboralski/shade/internal/translator"
	"github.com/zboralski/shade/internal/typedesc"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFallback forwards members the script does not handle, and every
// Instrument call, to next.
func WithFallback(next translator.Dispatcher) Option {
	return func(d *Dispatcher) { d.fallback = next }
}

// WithLogger sets the logger used for log() and dispatch messages.
func WithLogger(l *glog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// Dispatcher runs script handlers. The runtime is single-threaded, so
// calls are serialized.
type Dispatcher struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	handlers map[string]goja.Callable
	statics  map[string]*shadow.State

	pool     *classfile.Pool
	fallback translator.Dispatcher
	log      *glog.Logger
}

// New creates a dispatcher that resolves return types through pool.
func New(pool *classfile.Pool, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		vm:       goja.New(),
		handlers: make(map[string]goja.Callable),
		statics:  make(map[string]*shadow.State),
		pool:     pool,
		log:      glog.Get(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.vm.Set("shadow", d.jsShadow)
	d.vm.Set("log", d.jsLog)
	return d
}

func key(class, method string) string {
	return class + "#" + method
}

// Load runs a script. Handlers it registers replace earlier ones for the
// same member.
func (d *Dispatcher) Load(name, src string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.vm.RunScript(name, src); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// LoadFile reads and runs a script file.
func (d *Dispatcher) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return d.Load(path, string(src))
}

// Handlers returns the number of registered script handlers.
func (d *Dispatcher) Handlers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

func (d *Dispatcher) jsShadow(call goja.FunctionCall) goja.Value {
	class := call.Argument(0).String()
	method := call.Argument(1).String()
	fn, ok := goja.AssertFunction(call.Argument(2))
	if !ok || class == "" || method == "" {
		panic(d.vm.NewTypeError("shadow(class, method, fn): fn must be a function"))
	}
	d.handlers[key(class, method)] = fn
	d.log.Debug("script shadow", glog.Class(class), glog.Fn(method))
	return goja.Undefined()
}

func (d *Dispatcher) jsLog(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, a := range call.Arguments {
		parts[i] = a.String()
	}
	d.log.WithCategory("script").Info("log", zap.String("msg", strings.Join(parts, " ")))
	return goja.Undefined()
}

// Instrument forwards to the fallback dispatcher, if any.
func (d *Dispatcher) Instrument(c *classfile.ClassDescriptor) error {
	if d.fallback != nil {
		return d.fallback.Instrument(c)
	}
	return nil
}

// Handles reports whether the script or the fallback shadows a member.
func (d *Dispatcher) Handles(class, method string, paramTypes []string) bool {
	d.mu.Lock()
	_, ok := d.handlers[key(class, method)]
	d.mu.Unlock()
	if ok {
		return true
	}
	if h, isHandler := d.fallback.(interface {
		Handles(class, method string, paramTypes []string) bool
	}); isHandler {
		return h.Handles(class, method, paramTypes)
	}
	return false
}

// MethodInvoked runs the script handler for the member, if there is one.
func (d *Dispatcher) MethodInvoked(class, method string, self *classfile.Object, paramTypes []string, params []any) (any, error) {
	d.mu.Lock()
	fn, ok := d.handlers[key(class, method)]
	if !ok {
		d.mu.Unlock()
		if d.fallback != nil {
			return d.fallback.MethodInvoked(class, method, self, paramTypes, params)
		}
		return nil, nil
	}
	res, err := fn(goja.Undefined(), d.callObject(class, method, self, paramTypes, params))
	var out any
	if err == nil && res != nil && !goja.IsUndefined(res) && !goja.IsNull(res) {
		out = res.Export()
	}
	d.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("script %s.%s: %w", class, method, err)
	}
	if out == nil {
		return nil, nil
	}
	kind, err := d.returnKind(class, method, paramTypes)
	if err != nil {
		return nil, err
	}
	if kind == typedesc.Void {
		return nil, nil
	}
	return typedesc.Coerce(out, kind)
}

func (d *Dispatcher) callObject(class, method string, self *classfile.Object, paramTypes []string, params []any) *goja.Object {
	var st *shadow.State
	selfValue := goja.Null()
	if self != nil {
		st = shadow.StateOf(self)
		selfValue = d.vm.ToValue(self.String())
	} else {
		st = d.statics[class]
		if st == nil {
			st = shadow.NewState()
			d.statics[class] = st
		}
	}

	obj := d.vm.NewObject()
	obj.Set("class", class)
	obj.Set("method", method)
	obj.Set("self", selfValue)
	obj.Set("types", paramTypes)
	obj.Set("args", params)
	obj.Set("get", func(k string) any { return st.Get(k) })
	obj.Set("set", func(k string, v goja.Value) { st.Set(k, v.Export()) })
	return obj
}

// returnKind finds the declared return kind of the invoked member. Wrapper
// classes such as java.lang.Integer report the kind they box.
func (d *Dispatcher) returnKind(class, method string, paramTypes []string) (typedesc.Kind, error) {
	if method == classfile.ConstructorName {
		return typedesc.Void, nil
	}
	c, err := d.pool.Get(class)
	if err != nil {
		return 0, err
	}
	m := c.Method(method, paramTypes...)
	if m == nil {
		return 0, fmt.Errorf("%s.%s: %w", class, method, classfile.ErrNoSuchMethod)
	}
	return typedesc.ValueKind(m.ReturnType())
}
