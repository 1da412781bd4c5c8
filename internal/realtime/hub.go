package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"golang.org/x/net/websocket"
)

const maxDecodeErrorsPerConn = 3

// Authenticator resolves an access token to the participant's profile.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Profile, error)
}

// RoomAuthorizer decides whether a participant may join an engagement room.
type RoomAuthorizer interface {
	AuthorizeEngagementAccess(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error)
}

type profileContextKey struct{}

type peer struct {
	mu      sync.Mutex
	encoder *json.Encoder
	profile domain.Profile
	rooms   map[string]struct{} // owned by the connection goroutine
}

func (p *peer) writeFrame(frame Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

func (p *peer) writeError(message string) error {
	payload, _ := json.Marshal(errorPayload{Message: message})
	return p.writeFrame(Frame{Event: EventError, Payload: payload})
}

// Hub is the server side of the event channel. Participants connect over a
// websocket, join engagement rooms, and receive every event published for
// the rooms they are in.
type Hub struct {
	logger     *slog.Logger
	auth       Authenticator
	authorizer RoomAuthorizer

	mu    sync.Mutex
	rooms map[string]map[*peer]struct{}
}

// NewHub creates a Hub. A nil authenticator accepts every connection as an
// anonymous participant; a nil authorizer lets anyone join any room.
func NewHub(logger *slog.Logger, auth Authenticator, authorizer RoomAuthorizer) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger.With("component", "realtime_hub"),
		auth:       auth,
		authorizer: authorizer,
		rooms:      make(map[string]map[*peer]struct{}),
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// ServeHTTP authenticates the upgrade request and hands the connection to
// the websocket handler.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var profile domain.Profile
	if h.auth != nil {
		token := accessTokenFromRequest(r)
		if token == "" {
			h.logger.Warn("Websocket unauthorized: missing token", slog.String("remote", r.RemoteAddr))
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		resolved, err := h.auth.Authenticate(r.Context(), token)
		if err != nil || resolved == nil {
			h.logger.Warn("Websocket unauthorized", slog.String("remote", r.RemoteAddr), slog.Any("error", err))
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		profile = *resolved
	}

	r = r.WithContext(context.WithValue(r.Context(), profileContextKey{}, profile))
	websocket.Handler(h.serveConn).ServeHTTP(w, r)
}

func (h *Hub) serveConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	ctx := conn.Request().Context()
	profile, _ := ctx.Value(profileContextKey{}).(domain.Profile)
	p := &peer{encoder: json.NewEncoder(conn), profile: profile, rooms: make(map[string]struct{})}
	logger := h.logger.With(slog.String("user_id", profile.UserID))
	defer h.dropPeer(p)

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var frame Frame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = p.writeError("invalid frame")
			if decodeErrors >= maxDecodeErrorsPerConn {
				logger.Warn("Closing websocket after repeated decode errors", slog.Any("error", err))
				return
			}
			continue
		}
		decodeErrors = 0

		switch frame.Event {
		case EventJoinEngagement:
			h.handleJoin(ctx, logger, p, frame.Payload)
		case EventLeaveEngagement:
			var engagementID string
			if err := json.Unmarshal(frame.Payload, &engagementID); err != nil || engagementID == "" {
				_ = p.writeError("engagement id is required")
				continue
			}
			h.leave(engagementID, p)
		default:
			if !relayable[frame.Event] {
				_ = p.writeError("unsupported event " + frame.Event)
				continue
			}
			h.relay(logger, p, frame)
		}
	}
}

func (h *Hub) handleJoin(ctx context.Context, logger *slog.Logger, p *peer, payload json.RawMessage) {
	var engagementID string
	if err := json.Unmarshal(payload, &engagementID); err != nil || strings.TrimSpace(engagementID) == "" {
		_ = p.writeError("engagement id is required")
		return
	}
	if h.authorizer != nil {
		if _, err := h.authorizer.AuthorizeEngagementAccess(ctx, p.profile, engagementID); err != nil {
			logger.Warn("Room join rejected", slog.String("engagement_id", engagementID), slog.Any("error", err))
			_ = p.writeError("cannot join engagement " + engagementID)
			return
		}
	}
	h.join(engagementID, p)
	logger.Debug("Joined engagement room", slog.String("engagement_id", engagementID))
}

func (h *Hub) join(engagementID string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[engagementID]
	if !ok {
		room = make(map[*peer]struct{})
		h.rooms[engagementID] = room
	}
	room[p] = struct{}{}
	p.rooms[engagementID] = struct{}{}
}

func (h *Hub) leave(engagementID string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(p.rooms, engagementID)
	room, ok := h.rooms[engagementID]
	if !ok {
		return
	}
	delete(room, p)
	if len(room) == 0 {
		delete(h.rooms, engagementID)
	}
}

func (h *Hub) dropPeer(p *peer) {
	for engagementID := range p.rooms {
		h.leave(engagementID, p)
	}
}

func (h *Hub) members(engagementID string, except *peer) []*peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*peer, 0, len(h.rooms[engagementID]))
	for p := range h.rooms[engagementID] {
		if p != except {
			out = append(out, p)
		}
	}
	return out
}

// relay forwards a participant event to the other members of the room named
// by the payload's engagementId. The sender must be in that room.
func (h *Hub) relay(logger *slog.Logger, from *peer, frame Frame) {
	var scoped struct {
		EngagementID string `json:"engagementId"`
	}
	if err := json.Unmarshal(frame.Payload, &scoped); err != nil || scoped.EngagementID == "" {
		_ = from.writeError("engagementId is required")
		return
	}
	if _, ok := from.rooms[scoped.EngagementID]; !ok {
		_ = from.writeError("not a member of engagement " + scoped.EngagementID)
		return
	}
	for _, p := range h.members(scoped.EngagementID, from) {
		if err := p.writeFrame(frame); err != nil {
			logger.Warn("Failed to relay event", slog.String("event", frame.Event), slog.Any("error", err))
		}
	}
}

// Publish sends event to every member of the engagement room. Delivery
// failures are logged and never returned.
func (h *Hub) Publish(engagementID string, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to encode event payload", slog.String("event", event), slog.Any("error", err))
		return
	}
	frame := Frame{Event: event, Payload: raw}
	for _, p := range h.members(engagementID, nil) {
		if err := p.writeFrame(frame); err != nil {
			h.logger.Warn("Failed to publish event",
				slog.String("event", event),
				slog.String("engagement_id", engagementID),
				slog.String("user_id", p.profile.UserID),
				slog.Any("error", err))
		}
	}
}

// RoomSize returns the number of participants in an engagement room.
func (h *Hub) RoomSize(engagementID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[engagementID])
}
