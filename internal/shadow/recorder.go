package shadow

import (
	"sync"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/trace"
	"github.com/zboralski/shade/internal/translator"
)

// handler reports whether a dispatcher has its own behavior for a member.
type handler interface {
	Handles(class, method string, paramTypes []string) bool
}

// Recorder wraps a dispatcher and records every invocation as a trace
// event.
type Recorder struct {
	next   translator.Dispatcher
	enrich trace.Enricher

	mu      sync.Mutex
	events  []*trace.Event
	onEvent func(*trace.Event)
}

// NewRecorder wraps next. Events are tagged with trace.DefaultEnricher.
func NewRecorder(next translator.Dispatcher) *Recorder {
	return &Recorder{next: next, enrich: trace.DefaultEnricher}
}

// SetOnEvent sets a callback fired after each event is recorded.
func (r *Recorder) SetOnEvent(fn func(*trace.Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvent = fn
}

// Instrument forwards to the wrapped dispatcher.
func (r *Recorder) Instrument(c *classfile.ClassDescriptor) error {
	return r.next.Instrument(c)
}

// MethodInvoked forwards the call and records it with its outcome.
func (r *Recorder) MethodInvoked(class, method string, self *classfile.Object, paramTypes []string, params []any) (any, error) {
	selfID := ""
	if self != nil {
		selfID = self.String()
	}
	ev := trace.NewEvent(class, method, selfID,
		append([]string{}, paramTypes...),
		append([]any{}, params...))

	res, err := r.next.MethodInvoked(class, method, self, paramTypes, params)
	ev.Result, ev.Err = res, err
	if r.enrich != nil {
		r.enrich(ev)
	}
	if h, ok := r.next.(handler); ok && h.Handles(class, method, paramTypes) {
		ev.AddTag(trace.Shadowed)
	}

	r.mu.Lock()
	r.events = append(r.events, ev)
	cb := r.onEvent
	r.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
	return res, err
}

// Events returns a copy of the recorded events in call order.
func (r *Recorder) Events() []*trace.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*trace.Event(nil), r.events...)
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
