package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered notification bus for collaborators outside the
// simulation core (UI, audio, telemetry). Events emitted while a tick runs
// are delivered, in emission order, by the next Flush. Handlers that emit
// during delivery land in the following Flush.
type Bus struct {
	mu       sync.Mutex // guards handlers
	front    []pending
	back     []pending
	handlers map[reflect.Type][]func(any)
}

type pending struct {
	typ reflect.Type
	ev  any
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]pending, 0, 64),
		back:     make([]pending, 0, 64),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, pending{typ: reflect.TypeFor[T](), ev: event})
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeFor[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Pending returns the number of events waiting for the next Flush.
func (b *Bus) Pending() int { return len(b.back) }

// Flush rotates back→front and delivers every front-buffer event to its
// subscribers. Returns the number of events delivered.
func (b *Bus) Flush() int {
	b.front, b.back = b.back, b.front[:0]
	for _, p := range b.front {
		for _, h := range b.handlersFor(p.typ) {
			h(p.ev)
		}
	}
	n := len(b.front)
	clear(b.front)
	b.front = b.front[:0]
	return n
}

// handlersFor returns the subscribers for t as of now. Subscribe only ever
// appends, so the returned slice stays valid while handlers are added.
func (b *Bus) handlersFor(t reflect.Type) []func(any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handlers[t]
}
