package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
)

// MemoryChannel is an in-process Channel. Deliver plays the part of the hub
// pushing an event; Emit only records what a consumer sent.
type MemoryChannel struct {
	bus      *Bus
	interest *roomInterest

	mu      sync.Mutex
	emitted []Frame
	joinErr error
}

var _ Channel = (*MemoryChannel)(nil)

// NewMemoryChannel creates an empty MemoryChannel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{bus: NewBus(), interest: newRoomInterest()}
}

func (m *MemoryChannel) On(event string, h Handler) Registration { return m.bus.On(event, h) }

func (m *MemoryChannel) Off(reg Registration) { m.bus.Off(reg) }

func (m *MemoryChannel) Emit(_ context.Context, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: cannot encode %s payload: %w", apperrors.ErrValidation, event, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = append(m.emitted, Frame{Event: event, Payload: raw})
	return nil
}

func (m *MemoryChannel) Join(ctx context.Context, engagementID string) error {
	m.mu.Lock()
	joinErr := m.joinErr
	m.mu.Unlock()
	if joinErr != nil {
		return joinErr
	}
	if m.interest.acquire(engagementID) {
		return m.Emit(ctx, EventJoinEngagement, engagementID)
	}
	return nil
}

func (m *MemoryChannel) Leave(ctx context.Context, engagementID string) error {
	if m.interest.release(engagementID) {
		return m.Emit(ctx, EventLeaveEngagement, engagementID)
	}
	return nil
}

// FailJoins makes subsequent Join calls return err. Pass nil to reset.
func (m *MemoryChannel) FailJoins(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joinErr = err
}

// Deliver dispatches an event to registered handlers as if the hub sent it.
func (m *MemoryChannel) Deliver(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.bus.Dispatch(event, raw)
	return nil
}

// Emitted returns a copy of every frame sent through Emit, Join and Leave.
func (m *MemoryChannel) Emitted() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Frame(nil), m.emitted...)
}

// Interest returns the number of consumers interested in an engagement room.
func (m *MemoryChannel) Interest(engagementID string) int {
	return m.interest.count(engagementID)
}

// HandlerCount returns the number of handlers registered for event.
func (m *MemoryChannel) HandlerCount(event string) int {
	return m.bus.HandlerCount(event)
}
