// Package reconciler keeps local mirrors of one engagement's server-owned
// collections consistent with REST snapshots and real-time events.
//
// Every reconciler is scoped to one engagement at a time. Mounting a new
// engagement bumps a generation counter; event handlers and in-flight
// fetches capture the generation they were started under and are discarded
// once it is no longer current. The mutex is never held across a gateway or
// channel call.
package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
)

// ErrNotMounted is returned by operations on a reconciler with no engagement.
var ErrNotMounted = fmt.Errorf("%w: reconciler is not mounted", apperrors.ErrValidation)

// Option configures a reconciler.
type Option func(*base)

// WithLogger sets the reconciler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock overrides time.Now, used for local validation timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

type base struct {
	channel realtime.Channel
	logger  *slog.Logger
	now     func() time.Time

	mu           sync.Mutex
	engagementID string
	generation   uint64
	regs         []realtime.Registration
	loading      int
}

func newBase(channel realtime.Channel, component string, opts []Option) base {
	b := base{channel: channel, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	b.logger = b.logger.With("component", component)
	return b
}

// EngagementID returns the engagement currently mounted, or "".
func (b *base) EngagementID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.engagementID
}

// Loading reports whether a snapshot fetch is in flight.
func (b *base) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading > 0
}

// mount switches the reconciler to engagementID. reset runs under the lock
// and must clear the reconciler's collections. handlers also run under the
// lock, only while the generation they were registered for is current.
func (b *base) mount(ctx context.Context, engagementID string, reset func(), handlers map[string]func(json.RawMessage)) error {
	if engagementID == "" {
		return apperrors.NewValidationFailedError("engagement id is required")
	}

	b.mu.Lock()
	if b.engagementID == engagementID {
		b.mu.Unlock()
		return nil
	}
	prevID, prevRegs := b.engagementID, b.regs
	b.generation++
	gen := b.generation
	b.engagementID = engagementID
	b.regs = nil
	reset()
	b.mu.Unlock()

	b.release(ctx, prevID, prevRegs)

	regs := make([]realtime.Registration, 0, len(handlers))
	for event, apply := range handlers {
		regs = append(regs, b.channel.On(event, b.guard(gen, event, apply)))
	}
	if err := b.channel.Join(ctx, engagementID); err != nil {
		for _, reg := range regs {
			b.channel.Off(reg)
		}
		b.mu.Lock()
		if b.generation == gen {
			b.generation++
			b.engagementID = ""
		}
		b.mu.Unlock()
		return err
	}

	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		b.release(ctx, engagementID, regs)
		return nil
	}
	b.regs = regs
	b.mu.Unlock()

	b.logger.Debug("Mounted engagement", slog.String("engagement_id", engagementID))
	return nil
}

func (b *base) unmount(ctx context.Context, reset func()) {
	b.mu.Lock()
	prevID, prevRegs := b.engagementID, b.regs
	b.generation++
	b.engagementID = ""
	b.regs = nil
	reset()
	b.mu.Unlock()

	b.release(ctx, prevID, prevRegs)
}

func (b *base) release(ctx context.Context, engagementID string, regs []realtime.Registration) {
	if len(regs) == 0 {
		return
	}
	for _, reg := range regs {
		b.channel.Off(reg)
	}
	if err := b.channel.Leave(ctx, engagementID); err != nil {
		b.logger.Warn("Failed to leave engagement room", slog.String("engagement_id", engagementID), slog.Any("error", err))
	}
}

func (b *base) guard(gen uint64, event string, apply func(json.RawMessage)) realtime.Handler {
	return func(payload json.RawMessage) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.generation != gen {
			b.logger.Debug("Dropped event for stale engagement", slog.String("event", event))
			return
		}
		apply(payload)
	}
}

// begin captures the scope of an operation that is about to leave the lock.
func (b *base) begin() (string, uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.engagementID == "" {
		return "", 0, ErrNotMounted
	}
	return b.engagementID, b.generation, nil
}

// beginLoad is begin for snapshot fetches; endLoad must follow, under the lock.
func (b *base) beginLoad() (string, uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.engagementID == "" {
		return "", 0, ErrNotMounted
	}
	b.loading++
	return b.engagementID, b.generation, nil
}

func (b *base) endLoad() {
	if b.loading > 0 {
		b.loading--
	}
}

// decode unmarshals an event payload, logging and reporting malformed ones.
func decode[T any](logger *slog.Logger, event string, payload json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		logger.Warn("Ignoring malformed event", slog.String("event", event), slog.Any("error", err))
		return v, false
	}
	return v, true
}
