package realtime

import (
	"context"
	"encoding/json"
	"sync"
)

// Handler receives the raw payload of an event.
type Handler func(payload json.RawMessage)

// Registration identifies one handler registration. Handlers are removed by
// registration, never by event name or room, so two consumers of the same
// event never unsubscribe each other.
type Registration struct {
	Event string
	id    uint64
}

// Channel is the participant-side view of the event channel.
type Channel interface {
	On(event string, h Handler) Registration
	Off(reg Registration)
	Emit(ctx context.Context, event string, payload any) error

	// Join and Leave express interest in an engagement room. Interest is
	// reference counted; the room is only left when the last consumer leaves.
	Join(ctx context.Context, engagementID string) error
	Leave(ctx context.Context, engagementID string) error
}

type entry struct {
	id      uint64
	handler Handler
}

// Bus dispatches incoming events to registered handlers in registration order.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]entry
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]entry)}
}

// On registers h for event.
func (b *Bus) On(event string, h Handler) Registration {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[event] = append(b.handlers[event], entry{id: b.nextID, handler: h})
	return Registration{Event: event, id: b.nextID}
}

// Off removes a registration. Removing twice is harmless.
func (b *Bus) Off(reg Registration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.handlers[reg.Event]
	for i, e := range entries {
		if e.id == reg.id {
			b.handlers[reg.Event] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(b.handlers[reg.Event]) == 0 {
		delete(b.handlers, reg.Event)
	}
}

// Dispatch calls every handler of event. Handlers run outside the lock so
// they may register or unregister.
func (b *Bus) Dispatch(event string, payload json.RawMessage) {
	b.mu.RLock()
	entries := append([]entry(nil), b.handlers[event]...)
	b.mu.RUnlock()
	for _, e := range entries {
		e.handler(payload)
	}
}

// HandlerCount returns the number of handlers registered for event.
func (b *Bus) HandlerCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}
