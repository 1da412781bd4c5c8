// Package session ties one signed-in participant's components together for
// the lifetime of a login: the gateway, the shared event channel, the stats
// projector and the engagement views opened in between.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/gateway"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/SscSPs/pbc_workflow_app/internal/reconciler"
	"github.com/SscSPs/pbc_workflow_app/internal/stats"
	"golang.org/x/sync/errgroup"
)

const reconnectReloadTimeout = 30 * time.Second

// Session is created at login and closed at logout. Nothing in it outlives
// Close.
type Session struct {
	User    domain.Profile
	Gateway gateway.Gateway
	Channel realtime.Channel
	Stats   *stats.Projector

	logger *slog.Logger

	mu     sync.Mutex
	views  map[*EngagementView]struct{}
	closed bool
}

// New assembles a session. The channel is shared by every view opened on it.
func New(user domain.Profile, gw gateway.Gateway, channel realtime.Channel, logger *slog.Logger, statsOpts ...stats.Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("user_id", user.UserID))
	return &Session{
		User:    user,
		Gateway: gw,
		Channel: channel,
		Stats:   stats.NewProjector(gw, append([]stats.Option{stats.WithLogger(logger)}, statsOpts...)...),
		logger:  logger,
		views:   make(map[*EngagementView]struct{}),
	}
}

// Start begins the periodic stats refresh for the session user.
func (s *Session) Start(ctx context.Context) {
	s.Stats.Start(ctx, s.User)
}

// OpenEngagement mounts and loads a view of engagementID.
func (s *Session) OpenEngagement(ctx context.Context, engagementID string) (*EngagementView, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("session: closed")
	}
	s.mu.Unlock()

	opt := reconciler.WithLogger(s.logger)
	v := &EngagementView{
		session:   s,
		Checklist: reconciler.NewChecklist(s.Gateway, s.Channel, opt),
		Documents: reconciler.NewDocumentRequests(s.Gateway, s.Channel, opt),
		Workflow:  reconciler.NewWorkflow(s.Gateway, s.Channel, opt),
	}
	v.reconnected = s.Channel.On(realtime.EventReconnected, func(json.RawMessage) {
		v.reloadAfterReconnect()
	})
	if err := v.Switch(ctx, engagementID); err != nil {
		v.unmount(ctx)
		return nil, err
	}

	s.mu.Lock()
	s.views[v] = struct{}{}
	s.mu.Unlock()
	return v, nil
}

// Close stops the stats refresh, closes every open view and the channel.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	views := make([]*EngagementView, 0, len(s.views))
	for v := range s.views {
		views = append(views, v)
	}
	s.views = nil
	s.mu.Unlock()

	s.Stats.Stop()
	for _, v := range views {
		v.unmount(ctx)
	}
	if closer, ok := s.Channel.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// EngagementView is the reconciled state of one engagement.
type EngagementView struct {
	session     *Session
	reconnected realtime.Registration

	Checklist *reconciler.Checklist
	Documents *reconciler.DocumentRequests
	Workflow  *reconciler.Workflow
}

// Switch moves the view to engagementID and loads fresh snapshots. Events
// for the previous engagement stop applying as soon as Switch starts.
func (v *EngagementView) Switch(ctx context.Context, engagementID string) error {
	if err := v.Checklist.Mount(ctx, engagementID); err != nil {
		return err
	}
	if err := v.Documents.Mount(ctx, engagementID); err != nil {
		return err
	}
	if err := v.Workflow.Mount(ctx, engagementID); err != nil {
		return err
	}
	return v.Reload(ctx)
}

// Reload refreshes all three snapshots concurrently.
func (v *EngagementView) Reload(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return v.Checklist.Load(gctx) })
	g.Go(func() error { return v.Documents.Load(gctx) })
	g.Go(func() error { return v.Workflow.Load(gctx) })
	return g.Wait()
}

// reloadAfterReconnect refetches the snapshots, since events published while
// the channel was down never arrive.
func (v *EngagementView) reloadAfterReconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), reconnectReloadTimeout)
	defer cancel()
	if err := v.Reload(ctx); err != nil {
		v.session.logger.Warn("Failed to reload engagement after reconnect", slog.Any("error", err))
		return
	}
	v.session.logger.Debug("Reloaded engagement after reconnect")
}

// Close unmounts the view.
func (v *EngagementView) Close(ctx context.Context) {
	v.session.mu.Lock()
	if v.session.views != nil {
		delete(v.session.views, v)
	}
	v.session.mu.Unlock()
	v.unmount(ctx)
}

func (v *EngagementView) unmount(ctx context.Context) {
	v.session.Channel.Off(v.reconnected)
	v.Checklist.Unmount(ctx)
	v.Documents.Unmount(ctx)
	v.Workflow.Unmount(ctx)
}
