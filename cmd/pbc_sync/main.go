// Command pbc_sync follows one engagement as a signed-in participant: it
// keeps the checklist, document requests and PBC workflow reconciled with
// the backend's event channel and logs the dashboard summary.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/adapters/gateway"
	"github.com/SscSPs/pbc_workflow_app/internal/platform/config"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/SscSPs/pbc_workflow_app/internal/session"
	"github.com/SscSPs/pbc_workflow_app/internal/stats"
	"github.com/SscSPs/pbc_workflow_app/internal/utils"
)

const reportInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadParticipantConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Participant session failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func accessToken(cfg *config.ParticipantConfig, logger *slog.Logger) (string, error) {
	if cfg.AccessToken != "" || cfg.DevUserID == "" || cfg.IsProduction {
		return cfg.AccessToken, nil
	}
	logger.Warn("Minting development access token", slog.String("user_id", cfg.DevUserID))
	return utils.GenerateJWT(cfg.DevUserID, cfg.JWTSecret, 12*time.Hour, cfg.JWTIssuer)
}

func run(ctx context.Context, cfg *config.ParticipantConfig, logger *slog.Logger) error {
	token, err := accessToken(cfg, logger)
	if err != nil {
		return err
	}

	gw := gateway.NewHTTPGateway(ctx, cfg.APIBaseURL, token, gateway.WithLogger(logger))
	me, err := gw.GetMe(ctx)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("user_id", me.UserID), slog.String("role", string(me.Role)))

	channel := realtime.NewClient(cfg.WebsocketURL, token, realtime.WithClientLogger(logger))
	s := session.New(*me, gw, channel, logger, stats.WithInterval(cfg.StatsRefreshInterval))
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Close(closeCtx); err != nil {
			logger.Warn("Error closing session", slog.String("error", err.Error()))
		}
	}()
	s.Start(ctx)

	var view *session.EngagementView
	if cfg.EngagementID != "" {
		view, err = s.OpenEngagement(ctx, cfg.EngagementID)
		if err != nil {
			return err
		}
		defer view.Close(context.Background())
	}

	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()
	for {
		report(logger, s, view)
		select {
		case <-ctx.Done():
			logger.Info("Participant session ending")
			return nil
		case <-ticker.C:
		}
	}
}

func report(logger *slog.Logger, s *session.Session, view *session.EngagementView) {
	summary := s.Stats.Current()
	attrs := []any{
		slog.Int("active_engagements", summary.ActiveEngagements),
		slog.Int("pending_requests", summary.PendingRequests),
		slog.Int("today_tasks", summary.TodayTasks),
		slog.Int("total_clients", summary.TotalClients),
		slog.String("next_task", summary.NextTask),
	}
	if view != nil {
		done := 0
		state := view.Checklist.State()
		for _, completed := range state {
			if completed {
				done++
			}
		}
		attrs = append(attrs,
			slog.String("engagement_id", view.Checklist.EngagementID()),
			slog.Int("checklist_done", done),
			slog.Int("checklist_total", len(state)),
			slog.Int("documents_pending", view.Documents.Pending()),
		)
		if wf := view.Workflow.Current(); wf != nil {
			attrs = append(attrs, slog.String("pbc_status", string(wf.Status)))
		}
	}
	logger.Info("Participant summary", attrs...)
}
