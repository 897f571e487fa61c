package classfile

import (
	"fmt"
	"sort"
	"sync"

	glog "github.com/zboralski/shade/internal/log"
	"github.com/zboralski/shade/internal/typedesc"
)

// Translator is shown every class the first time it loads, before the class
// becomes usable. A translator error aborts the load.
//
// Translators run with the pool locked and must not call back into it.
type Translator interface {
	OnLoad(class *ClassDescriptor) error
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(class *ClassDescriptor) error

// OnLoad calls f.
func (f TranslatorFunc) OnLoad(class *ClassDescriptor) error {
	return f(class)
}

// Pool is a class space. Classes are defined up front, then loaded on first
// use; loading runs the superclass chain first and every translator exactly
// once per class.
type Pool struct {
	mu          sync.Mutex
	defs        map[string]*ClassDescriptor
	loaded      map[string]bool
	failed      map[string]error
	translators []Translator

	log *glog.Logger
}

// NewPool creates an empty class space.
func NewPool() *Pool {
	return &Pool{
		defs:   make(map[string]*ClassDescriptor),
		loaded: make(map[string]bool),
		failed: make(map[string]error),
		log:    glog.Get(),
	}
}

// SetLogger replaces the pool's logger.
func (p *Pool) SetLogger(l *glog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = l
}

// Define adds a class definition. Names must be unique.
func (p *Pool) Define(c *ClassDescriptor) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("define: class without a name")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.defs[c.Name]; ok {
		return fmt.Errorf("define %s: already defined", c.Name)
	}
	p.defs[c.Name] = c
	return nil
}

// DefineAll defines every class in order and stops at the first error.
func (p *Pool) DefineAll(classes []*ClassDescriptor) error {
	for _, c := range classes {
		if err := p.Define(c); err != nil {
			return err
		}
	}
	return nil
}

// AddTranslator appends a translator. It sees only classes loaded after it
// was added.
func (p *Pool) AddTranslator(t Translator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.translators = append(p.translators, t)
}

// Get returns a definition without loading it.
func (p *Pool) Get(name string) (*ClassDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.defs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrClassNotFound)
	}
	return c, nil
}

// Loaded reports whether the class finished loading.
func (p *Pool) Loaded(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded[name]
}

// Classes returns the names of every defined class, sorted.
func (p *Pool) Classes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.defs))
	for name := range p.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load makes a class usable, running translators on first load. A class
// whose load failed stays unavailable and keeps returning the same error.
func (p *Pool) Load(name string) (*ClassDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load(name, make(map[string]bool))
}

func (p *Pool) load(name string, visiting map[string]bool) (*ClassDescriptor, error) {
	if err, ok := p.failed[name]; ok {
		return nil, err
	}
	c, ok := p.defs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrClassNotFound)
	}
	if p.loaded[name] {
		return c, nil
	}
	if visiting[name] {
		return nil, p.fail(name, fmt.Errorf("circular class hierarchy"))
	}
	visiting[name] = true

	// Supertypes outside the pool are platform classes and need no loading.
	for _, dep := range supertypes(c) {
		if _, defined := p.defs[dep]; !defined {
			continue
		}
		if _, err := p.load(dep, visiting); err != nil {
			return nil, p.fail(name, err)
		}
	}

	for _, t := range p.translators {
		if err := t.OnLoad(c); err != nil {
			return nil, p.fail(name, err)
		}
	}

	p.loaded[name] = true
	p.log.ClassLoad(name, len(p.translators))
	return c, nil
}

func (p *Pool) fail(name string, cause error) error {
	err := fmt.Errorf("load %s: %w: %w", name, ErrLoadFailed, cause)
	p.failed[name] = err
	return err
}

func supertypes(c *ClassDescriptor) []string {
	var out []string
	if c.Superclass != "" {
		out = append(out, c.Superclass)
	}
	return append(out, c.Interfaces...)
}

// hierarchy returns the superclass chain of a loaded class (stopping at the
// first class outside the pool) and the set of every supertype name.
func (p *Pool) hierarchy(c *ClassDescriptor) ([]*ClassDescriptor, map[string]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	lineage := make(map[string]bool)
	var walk func(name string)
	walk = func(name string) {
		if name == "" || lineage[name] {
			return
		}
		lineage[name] = true
		if d, ok := p.defs[name]; ok {
			for _, s := range supertypes(d) {
				walk(s)
			}
		}
	}
	walk(c.Name)

	chain := []*ClassDescriptor{c}
	for cur := c; cur.Superclass != ""; {
		next, ok := p.defs[cur.Superclass]
		if !ok || !p.loaded[next.Name] {
			break
		}
		chain = append(chain, next)
		cur = next
	}
	return chain, lineage
}

// New instantiates a class. The constructor is the first declared one whose
// parameters accept args. The superclass's zero-argument constructor runs
// first when the superclass lives in the pool.
func (p *Pool) New(name string, args ...any) (*Object, error) {
	c, err := p.Load(name)
	if err != nil {
		return nil, err
	}
	if c.IsInterface() || c.IsAbstract() {
		return nil, fmt.Errorf("new %s: %w", name, ErrNotInstantiable)
	}
	ctor := selectMember(c.Constructors, ConstructorName, false, args)
	if ctor == nil {
		return nil, fmt.Errorf("new %s with %d args: %w", name, len(args), ErrNoSuchMethod)
	}

	chain, lineage := p.hierarchy(c)
	obj := newObject(chain, lineage)
	if err := p.construct(obj, chain, 0, ctor, args); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *Pool) construct(obj *Object, chain []*ClassDescriptor, depth int, ctor *Member, args []any) error {
	if depth+1 < len(chain) {
		if super := chain[depth+1].Constructor(); super != nil {
			if err := p.construct(obj, chain, depth+1, super, nil); err != nil {
				return err
			}
		}
	}
	_, err := call(chain[depth], ctor, obj, args)
	return err
}

// Invoke calls an instance method, searching the object's class chain from
// most to least derived.
func (p *Pool) Invoke(obj *Object, name string, args ...any) (any, error) {
	if obj == nil {
		return nil, fmt.Errorf("invoke %s on nil object", name)
	}
	for _, c := range obj.chain {
		if m := selectMember(c.Methods, name, false, args); m != nil {
			return call(c, m, obj, args)
		}
	}
	return nil, fmt.Errorf("%s.%s with %d args: %w", obj.ClassName(), name, len(args), ErrNoSuchMethod)
}

// InvokeStatic loads a class and calls one of its static methods.
func (p *Pool) InvokeStatic(class, name string, args ...any) (any, error) {
	c, err := p.Load(class)
	if err != nil {
		return nil, err
	}
	m := selectMember(c.Methods, name, true, args)
	if m == nil {
		return nil, fmt.Errorf("%s.%s with %d args: %w", class, name, len(args), ErrNoSuchMethod)
	}
	return call(c, m, nil, args)
}

func call(c *ClassDescriptor, m *Member, self *Object, args []any) (any, error) {
	if m.Body == nil || m.Body.Invoke == nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Signature(), ErrNoBody)
	}
	v, err := m.Body.Invoke(self, args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Signature(), err)
	}
	return v, nil
}

func selectMember(members []*Member, name string, static bool, args []any) *Member {
	for _, m := range members {
		if m.Name != name || m.IsStatic() != static || len(m.Params) != len(args) {
			continue
		}
		if accepts(m.Params, args) {
			return m
		}
	}
	return nil
}

func accepts(params []string, args []any) bool {
	for i, param := range params {
		d, err := typedesc.Find(param)
		if err != nil || d.IsVoid() {
			return false
		}
		if d.Kind == typedesc.Reference {
			if !Assignable(args[i], param) {
				return false
			}
			continue
		}
		if _, err := d.Box(args[i]); err != nil {
			return false
		}
	}
	return true
}
