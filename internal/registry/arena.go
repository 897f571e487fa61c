// Package registry is the append-only arena that maps small integer indices
// to the engines that rewrote a class. Rewritten bodies carry only their
// engine's index and resolve it here on every call.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zboralski/shade/internal/classfile"
)

// Interceptor receives every invocation of a rewritten member. A nil result
// means the interceptor declined and the member returns its zero value.
type Interceptor interface {
	MethodInvoked(class, method string, self *classfile.Object, paramTypes []string, params []any) (any, error)
}

// Arena is an append-only sequence of interceptors. Register is serialized;
// Get never blocks.
type Arena struct {
	id      int
	mu      sync.Mutex
	entries atomic.Pointer[[]Interceptor]
}

var (
	arenasMu sync.Mutex
	arenas   []*Arena
)

// Default is the process-wide arena. Its ID is 0.
var Default = NewArena()

// NewArena creates an empty arena with the next free ID.
func NewArena() *Arena {
	a := &Arena{}
	empty := make([]Interceptor, 0)
	a.entries.Store(&empty)

	arenasMu.Lock()
	a.id = len(arenas)
	arenas = append(arenas, a)
	arenasMu.Unlock()
	return a
}

// ID identifies the arena for Lookup.
func (a *Arena) ID() int {
	return a.id
}

// Lookup returns the arena with the given ID. Generated listings of engines
// outside Default reach their arena this way. An unknown ID panics.
func Lookup(id int) *Arena {
	arenasMu.Lock()
	defer arenasMu.Unlock()
	if id < 0 || id >= len(arenas) {
		panic(fmt.Sprintf("registry: arena %d out of range [0,%d)", id, len(arenas)))
	}
	return arenas[id]
}

// Register appends i and returns its index. The index is valid for the
// life of the arena.
func (a *Arena) Register(i Interceptor) int {
	if i == nil {
		panic("registry: Register(nil)")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	cur := *a.entries.Load()
	next := make([]Interceptor, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, i)
	a.entries.Store(&next)
	return len(next) - 1
}

// Get returns the interceptor at index. Indices come only from Register, so
// an out-of-range index is a programming error and panics.
func (a *Arena) Get(index int) Interceptor {
	entries := *a.entries.Load()
	if index < 0 || index >= len(entries) {
		panic(fmt.Sprintf("registry: index %d out of range [0,%d)", index, len(entries)))
	}
	return entries[index]
}

// Len returns the number of registered interceptors.
func (a *Arena) Len() int {
	return len(*a.entries.Load())
}

// Register appends to the default arena.
func Register(i Interceptor) int {
	return Default.Register(i)
}

// Get reads from the default arena. Generated listings call this form.
func Get(index int) Interceptor {
	return Default.Get(index)
}
