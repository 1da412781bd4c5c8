// Package realtime is the engagement event channel: a websocket hub on the
// server side and a lazily connected, shared client on the participant side.
package realtime

import (
	"encoding/json"
	"sync"
)

// Event names carried on the channel.
const (
	EventChecklistUpdate       = "checklist:update"
	EventProcedureUpdate       = "procedure:update"
	EventDocumentRequestUpdate = "document-request:update"
	EventPBCUpdate             = "pbc:update"
	EventJoinEngagement        = "joinEngagement"
	EventLeaveEngagement       = "leaveEngagement"
	EventError                 = "error"

	// EventReconnected is dispatched locally by a Client after a dropped
	// connection is back and its rooms are rejoined. It never goes on the wire.
	EventReconnected = "connection:reconnected"
)

// Frame is the wire envelope of every message in both directions.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// relayable lists the client-originated events the hub forwards to the rest
// of the room. Everything else is published by the server after persistence.
var relayable = map[string]bool{
	EventProcedureUpdate: true,
}

// roomInterest counts how many local consumers want each engagement room.
type roomInterest struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRoomInterest() *roomInterest {
	return &roomInterest{counts: make(map[string]int)}
}

// acquire reports whether this is the first consumer of engagementID.
func (r *roomInterest) acquire(engagementID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[engagementID]++
	return r.counts[engagementID] == 1
}

// release reports whether the last consumer of engagementID went away.
func (r *roomInterest) release(engagementID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.counts[engagementID]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(r.counts, engagementID)
		return true
	}
	r.counts[engagementID] = n - 1
	return false
}

func (r *roomInterest) count(engagementID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[engagementID]
}

func (r *roomInterest) active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.counts))
	for id := range r.counts {
		ids = append(ids, id)
	}
	return ids
}
