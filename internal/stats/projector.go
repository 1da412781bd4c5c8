// Package stats computes the cross-engagement dashboard summary of a
// signed-in participant and keeps it fresh while the session lives.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is how often the summary is recomputed.
const DefaultInterval = 5 * time.Minute

const defaultConcurrency = 4

// Gateway is the subset of remote operations the projector reads.
type Gateway interface {
	GetAll(ctx context.Context) ([]domain.Engagement, error)
	GetClientEngagements(ctx context.Context) ([]domain.Engagement, error)
	GetDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error)
	CountClients(ctx context.Context) (int, error)
}

// Projector derives domain.DashboardStats for one user. It is owned by a
// session: Start when the user is known, Stop when the session ends.
type Projector struct {
	gateway     Gateway
	logger      *slog.Logger
	interval    time.Duration
	concurrency int

	current atomic.Pointer[domain.DashboardStats]

	mu     sync.Mutex
	user   *domain.Profile
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Projector.
type Option func(*Projector)

// WithLogger sets the projector's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Projector) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(p *Projector) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithConcurrency bounds the per-engagement fan-out.
func WithConcurrency(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProjector creates a stopped Projector.
func NewProjector(gw Gateway, opts ...Option) *Projector {
	p := &Projector{
		gateway:     gw,
		logger:      slog.Default(),
		interval:    DefaultInterval,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "stats_projector")
	p.reset()
	return p
}

func (p *Projector) reset() {
	defaults := domain.DefaultDashboardStats()
	p.current.Store(&defaults)
}

// Current returns the last computed summary.
func (p *Projector) Current() domain.DashboardStats {
	return *p.current.Load()
}

// Compute derives the summary for user. It never fails: every failed
// fetch degrades to zero and is logged.
func (p *Projector) Compute(ctx context.Context, user domain.Profile) domain.DashboardStats {
	stats := domain.DefaultDashboardStats()
	logger := p.logger.With(slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))

	engagements, err := p.gateway.GetAll(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Failed to fetch engagements for stats", slog.Any("error", err))
	}
	for _, e := range engagements {
		if e.IsActive() {
			stats.ActiveEngagements++
		}
	}

	switch user.Role {
	case domain.RoleClient:
		stats.PendingRequests = p.pendingRequests(ctx, logger)
	case domain.RoleEmployee:
		count, err := p.gateway.CountClients(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Failed to count clients for stats", slog.Any("error", err))
			count = 0
		}
		stats.TotalClients = count
	}

	stats.TodayTasks = stats.ActiveEngagements + stats.PendingRequests
	switch {
	case stats.ActiveEngagements > 0:
		stats.NextTask = domain.NextTaskClientReview
	case stats.PendingRequests > 0:
		stats.NextTask = domain.NextTaskDocumentReview
	default:
		stats.NextTask = domain.NextTaskNone
	}
	return stats
}

// pendingRequests counts pending document requests over the client's
// engagements. A failed engagement contributes zero.
func (p *Projector) pendingRequests(ctx context.Context, logger *slog.Logger) int {
	engagements, err := p.gateway.GetClientEngagements(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Failed to fetch client engagements for stats", slog.Any("error", err))
		return 0
	}

	counts := make([]int, len(engagements))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, e := range engagements {
		g.Go(func() error {
			requests, err := p.gateway.GetDocumentRequestsByEngagement(ctx, e.EngagementID)
			if err != nil {
				logger.WarnContext(ctx, "Skipping engagement in stats",
					slog.String("engagement_id", e.EngagementID),
					slog.Any("error", fmt.Errorf("%w: %w", apperrors.ErrPartialAggregation, err)))
				return nil
			}
			for _, r := range requests {
				if r.Status == domain.DocumentRequestPending {
					counts[i]++
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// Refresh recomputes the summary for the started user.
func (p *Projector) Refresh(ctx context.Context) domain.DashboardStats {
	p.mu.Lock()
	user := p.user
	p.mu.Unlock()
	if user == nil {
		return p.Current()
	}
	stats := p.Compute(ctx, *user)
	p.current.Store(&stats)
	return stats
}

// Start computes the summary for user immediately, then every interval
// until Stop is called or ctx is cancelled. Starting again replaces the
// previous user.
func (p *Projector) Start(ctx context.Context, user domain.Profile) {
	p.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.mu.Lock()
	p.user = &user
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	p.Refresh(runCtx)

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				p.Refresh(runCtx)
			}
		}
	}()
}

// Stop tears down the refresh loop and forgets the user's summary.
func (p *Projector) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done, p.user = nil, nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	p.reset()
}
