package registry

import (
	"sync"
	"testing"

	"github.com/zboralski/shade/internal/classfile"
)

type tagged int

func (t tagged) MethodInvoked(class, method string, self *classfile.Object, paramTypes []string, params []any) (any, error) {
	return int(t), nil
}

func TestRegisterIndices(t *testing.T) {
	a := NewArena()
	if a.Len() != 0 {
		t.Fatalf("new arena Len = %d", a.Len())
	}
	for want := 0; want < 5; want++ {
		if got := a.Register(tagged(want)); got != want {
			t.Errorf("Register #%d returned %d", want, got)
		}
	}
	for i := 0; i < 5; i++ {
		v, _ := a.Get(i).MethodInvoked("C", "m", nil, []string{}, []any{})
		if v != i {
			t.Errorf("Get(%d) resolved to interceptor %v", i, v)
		}
	}
}

func TestGetOutOfRangePanics(t *testing.T) {
	a := NewArena()
	a.Register(tagged(0))
	for _, idx := range []int{-1, 1, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Get(%d) did not panic", idx)
				}
			}()
			a.Get(idx)
		}()
	}
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	NewArena().Register(nil)
}

func TestLookup(t *testing.T) {
	if Default.ID() != 0 || Lookup(0) != Default {
		t.Errorf("Default ID = %d, Lookup(0) = %p", Default.ID(), Lookup(0))
	}
	a, b := NewArena(), NewArena()
	if a.ID() == b.ID() || Lookup(a.ID()) != a || Lookup(b.ID()) != b {
		t.Errorf("arenas %d and %d do not resolve to themselves", a.ID(), b.ID())
	}
	defer func() {
		if recover() == nil {
			t.Error("Lookup(-1) did not panic")
		}
	}()
	Lookup(-1)
}

// Readers resolve already-issued indices while writers append.
func TestConcurrentRegisterAndGet(t *testing.T) {
	a := NewArena()
	first := a.Register(tagged(-1))

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	seen := make([][]int, writers)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				idx := a.Register(tagged(w*perWriter + i))
				seen[w] = append(seen[w], idx)
				if v, _ := a.Get(idx).MethodInvoked("", "", nil, nil, nil); v != w*perWriter+i {
					t.Errorf("index %d resolved to %v", idx, v)
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if v, _ := a.Get(first).MethodInvoked("", "", nil, nil, nil); v != -1 {
					t.Errorf("first entry changed to %v", v)
					return
				}
				_ = a.Len()
			}
		}()
	}
	wg.Wait()

	if a.Len() != 1+writers*perWriter {
		t.Fatalf("Len = %d, want %d", a.Len(), 1+writers*perWriter)
	}
	unique := make(map[int]bool)
	for _, idxs := range seen {
		for _, idx := range idxs {
			if unique[idx] {
				t.Errorf("index %d issued twice", idx)
			}
			unique[idx] = true
		}
	}
}
