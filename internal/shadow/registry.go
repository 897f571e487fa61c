// Package shadow provides a registry for self-registering shadow handlers.
// Each shadow package uses init() to register handlers for the platform
// members it fakes; the registry is then handed to a translator engine as
// its dispatcher.
//
// Features:
//   - Self-registering handlers via init()
//   - Per-overload or per-name handler lookup
//   - Detectors that activate on class-name patterns (e.g. android.widget.*)
//   - Per-instance shadow state kept in a field added at instrumentation
package shadow

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zboralski/shade/internal/classfile"
	glog "github.com/zboralski/shade/internal/log"
)

// StateField is the bookkeeping field Instrument adds to every class.
const StateField = "__shadow__"

// Handler implements one shadowed member. Returning a nil value declines,
// and the rewritten member returns its zero value.
type Handler func(c *Call) (any, error)

// Def defines a shadow for one member.
type Def struct {
	Class    string   // declaring class, e.g. "android.util.Log"
	Method   string   // member name; classfile.ConstructorName for constructors
	Params   []string // nil matches every overload
	Handler  Handler
	Category string // for logging: "log", "view", "text", ...
}

func (d *Def) key() string {
	if d.Params == nil {
		return nameKey(d.Class, d.Method)
	}
	return exactKey(d.Class, d.Method, d.Params)
}

func nameKey(class, method string) string {
	return class + "#" + method
}

func exactKey(class, method string, params []string) string {
	return nameKey(class, method) + "(" + strings.Join(params, ",") + ")"
}

// DetectorFunc is called when a detector's pattern matches a class being
// instrumented. It returns the number of handlers it registered.
type DetectorFunc func(r *Registry, class *classfile.ClassDescriptor) int

// Detector defines a pattern-based activation system. A detector fires once
// for every matching class, the first time that class is instrumented.
type Detector struct {
	Name        string       // Detector name (e.g., "widget-properties")
	Patterns    []string     // Class name patterns to match (any match triggers)
	Activate    DetectorFunc // Called when pattern matches
	Description string       // Human-readable description
}

// Registry holds all registered shadow definitions.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Def // exact or name key -> definition
	names []string        // registration order, for List

	// Detectors
	detectorsMu sync.Mutex
	detectors   []*Detector
	activated   map[string]bool // detector|class pairs already fired

	statics sync.Map // class name -> *State for static members

	// Callbacks
	OnCall func(category, name, detail string)

	log *glog.Logger
}

// DefaultRegistry is the global registry used by init() functions.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new shadow registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:      make(map[string]*Def),
		activated: make(map[string]bool),
	}
}

// SetLogger replaces the logger. Without one the registry logs through the
// global logger.
func (r *Registry) SetLogger(l *glog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = l
}

func (r *Registry) logger() *glog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.log != nil {
		return r.log
	}
	return glog.Get()
}

// Register adds a shadow definition. A later definition for the same key
// replaces the earlier one.
// Called from init() functions in shadow packages.
func (r *Registry) Register(def Def) {
	if def.Handler == nil {
		panic(fmt.Sprintf("shadow: %s.%s registered without a handler", def.Class, def.Method))
	}
	r.mu.Lock()
	key := def.key()
	if _, exists := r.defs[key]; !exists {
		r.names = append(r.names, key)
	}
	r.defs[key] = &def
	r.mu.Unlock()

	r.logger().Debug("registered",
		zap.String("cat", def.Category),
		glog.Class(def.Class),
		glog.Fn(def.Method),
		zap.Strings("params", def.Params),
	)
}

// RegisterFunc is a convenience method to register a handler for every
// overload of a member, or for one overload when params are given.
func (r *Registry) RegisterFunc(category, class, method string, h Handler, params ...string) {
	def := Def{Class: class, Method: method, Handler: h, Category: category}
	if len(params) > 0 {
		def.Params = params
	}
	r.Register(def)
}

// RegisterDetector adds a detector that activates on pattern match.
// Detectors are checked during Instrument.
func (r *Registry) RegisterDetector(d Detector) {
	r.detectorsMu.Lock()
	r.detectors = append(r.detectors, &d)
	r.detectorsMu.Unlock()

	r.logger().DetectorRegister(d.Name, d.Description, d.Patterns)
}

// checkDetectors activates every detector matching the class.
func (r *Registry) checkDetectors(c *classfile.ClassDescriptor) int {
	r.detectorsMu.Lock()
	var fire []*Detector
	for _, det := range r.detectors {
		key := det.Name + "|" + c.Name
		if r.activated[key] {
			continue
		}
		for _, pattern := range det.Patterns {
			if matchPattern(c.Name, pattern) {
				r.activated[key] = true
				fire = append(fire, det)
				break
			}
		}
	}
	r.detectorsMu.Unlock()

	// Activate outside the lock: detectors register handlers.
	installed := 0
	for _, det := range fire {
		r.logger().DetectorActivate(det.Name, det.Description)
		installed += det.Activate(r, c)
	}
	return installed
}

// matchPattern checks if a class name matches a pattern.
// Patterns can use a leading or trailing * as a wildcard; anything else
// must match exactly.
func matchPattern(name, pattern string) bool {
	if strings.Contains(pattern, "*") {
		if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
			// *foo* - contains
			return strings.Contains(name, pattern[1:len(pattern)-1])
		} else if strings.HasPrefix(pattern, "*") {
			// *foo - suffix
			return strings.HasSuffix(name, pattern[1:])
		} else if strings.HasSuffix(pattern, "*") {
			// foo* - prefix
			return strings.HasPrefix(name, pattern[:len(pattern)-1])
		}
	}
	return name == pattern
}

// Instrument runs detectors for the class and adds the shadow state field.
func (r *Registry) Instrument(c *classfile.ClassDescriptor) error {
	installed := r.checkDetectors(c)
	if c.Field(StateField) == nil {
		if err := c.AddField(&classfile.Field{
			Name:      StateField,
			Type:      classfile.RootClass,
			Modifiers: classfile.Private,
		}); err != nil {
			return err
		}
	}
	r.logger().Debug("instrument",
		glog.Class(c.Name),
		zap.Int("detected", installed),
	)
	return nil
}

// lookup resolves the exact overload first, then the name-only definition.
func (r *Registry) lookup(class, method string, paramTypes []string) *Def {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.defs[exactKey(class, method, paramTypes)]; ok {
		return def
	}
	return r.defs[nameKey(class, method)]
}

// Handles reports whether a handler exists for the member.
func (r *Registry) Handles(class, method string, paramTypes []string) bool {
	return r.lookup(class, method, paramTypes) != nil
}

// MethodInvoked dispatches to the registered handler. Members without one
// are declined.
func (r *Registry) MethodInvoked(class, method string, self *classfile.Object, paramTypes []string, params []any) (any, error) {
	def := r.lookup(class, method, paramTypes)
	if def == nil {
		return nil, nil
	}
	c := &Call{
		Class:      class,
		Method:     method,
		Self:       self,
		ParamTypes: paramTypes,
		Args:       params,
		reg:        r,
	}
	r.Log(def.Category, class+"."+method, formatArgs(params))
	return def.Handler(c)
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return strings.Join(parts, ", ")
}

// Log calls the OnCall callback and logs via zap.
// This is the primary method for handlers to report their activity.
func (r *Registry) Log(category, name, detail string) {
	r.mu.RLock()
	cb := r.OnCall
	r.mu.RUnlock()

	if cb != nil {
		cb(category, name, detail)
	}
	r.logger().WithCategory(category).Debug("shadow",
		glog.Fn(name),
		zap.String("detail", detail),
	)
}

// SetOnCall sets the callback fired by Log.
func (r *Registry) SetOnCall(fn func(category, name, detail string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OnCall = fn
}

// classState returns the shared state for static members of a class.
func (r *Registry) classState(class string) *State {
	s, _ := r.statics.LoadOrStore(class, NewState())
	return s.(*State)
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// List returns all registered keys, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.names...)
	sort.Strings(names)
	return names
}

// Convenience functions for the default registry

// Register adds a definition to the default registry.
func Register(def Def) {
	DefaultRegistry.Register(def)
}

// RegisterFunc adds a handler to the default registry.
func RegisterFunc(category, class, method string, h Handler, params ...string) {
	DefaultRegistry.RegisterFunc(category, class, method, h, params...)
}

// RegisterDetector adds a detector to the default registry.
func RegisterDetector(d Detector) {
	DefaultRegistry.RegisterDetector(d)
}
