package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/net/websocket"
)

// ErrClosed is returned by a Client after Close.
var ErrClosed = errors.New("realtime: client closed")

// Client is the participant side of the event channel. The connection is
// dialled lazily on first use and shared by every consumer of the client.
// While any room is joined a dropped connection is redialled in the
// background and EventReconnected is dispatched once the rooms are rejoined.
type Client struct {
	url         string
	origin      string
	accessToken string
	logger      *slog.Logger

	retryInitial time.Duration
	retryMax     time.Duration

	bus      *Bus
	interest *roomInterest

	// lifetime of the client; cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex // guards conn, closed, dials and reconnecting
	conn         *websocket.Conn
	dials        int
	closed       bool
	reconnecting bool

	writeMu sync.Mutex
}

var _ Channel = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger used for connection diagnostics.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOrigin overrides the Origin header sent on the handshake.
func WithOrigin(origin string) ClientOption {
	return func(c *Client) { c.origin = origin }
}

// WithReconnectBackOff sets the first and the largest delay between redial
// attempts after the connection drops.
func WithReconnectBackOff(initial, maxDelay time.Duration) ClientOption {
	return func(c *Client) {
		if initial > 0 {
			c.retryInitial = initial
		}
		if maxDelay > 0 {
			c.retryMax = maxDelay
		}
	}
}

// NewClient creates a Client for the hub at wsURL. No connection is made
// until the first Emit or Join.
func NewClient(wsURL, accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		url:          wsURL,
		origin:       "http://localhost/",
		accessToken:  accessToken,
		logger:       slog.Default(),
		retryInitial: 500 * time.Millisecond,
		retryMax:     30 * time.Second,
		bus:          NewBus(),
		interest:     newRoomInterest(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.logger = c.logger.With("component", "realtime_client")
	return c
}

// On registers a handler for event.
func (c *Client) On(event string, h Handler) Registration {
	return c.bus.On(event, h)
}

// Off removes a single registration.
func (c *Client) Off(reg Registration) {
	c.bus.Off(reg)
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.conn != nil {
		return c.conn, nil
	}

	config, err := websocket.NewConfig(c.url, c.origin)
	if err != nil {
		return nil, apperrors.NewTransportError("invalid websocket url", err)
	}
	if c.accessToken != "" {
		config.Header = http.Header{}
		config.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	conn, err := config.DialContext(ctx)
	if err != nil {
		return nil, apperrors.NewTransportError("failed to connect to event channel", err)
	}
	c.conn = conn
	c.dials++

	if c.dials > 1 {
		for _, engagementID := range c.interest.active() {
			if err := c.send(conn, EventJoinEngagement, engagementID); err != nil {
				c.logger.Warn("Failed to rejoin engagement room", slog.String("engagement_id", engagementID), slog.Any("error", err))
			}
		}
	}

	go c.readLoop(conn)
	return conn, nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var frame Frame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			c.drop(conn, err)
			return
		}
		if frame.Event == EventError {
			c.logger.Warn("Event channel reported an error", slog.String("payload", string(frame.Payload)))
		}
		c.bus.Dispatch(frame.Event, frame.Payload)
	}
}

func (c *Client) drop(conn *websocket.Conn, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	c.conn = nil
	_ = conn.Close()
	if c.closed {
		return
	}
	c.logger.Info("Event channel disconnected", slog.Any("error", cause))
	if !c.reconnecting && len(c.interest.active()) > 0 {
		c.reconnecting = true
		go c.reconnect()
	}
}

// reconnect redials until a connection is up again, then tells consumers
// that events sent in the gap were missed.
func (c *Client) reconnect() {
	for {
		_, err := backoff.Retry(c.ctx, func() (*websocket.Conn, error) {
			conn, err := c.connect(c.ctx)
			if errors.Is(err, ErrClosed) {
				return nil, backoff.Permanent(err)
			}
			return conn, err
		},
			backoff.WithBackOff(c.newBackOff()),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, next time.Duration) {
				c.logger.Warn("Event channel redial failed", slog.Duration("retry_in", next), slog.Any("error", err))
			}),
		)

		c.mu.Lock()
		if err != nil || c.closed {
			c.reconnecting = false
			c.mu.Unlock()
			if err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, context.Canceled) {
				c.logger.Error("Gave up reconnecting event channel", slog.Any("error", err))
			}
			return
		}
		if c.conn == nil {
			// dropped again before we got here
			c.mu.Unlock()
			continue
		}
		c.reconnecting = false
		c.mu.Unlock()

		c.logger.Info("Event channel reconnected")
		c.bus.Dispatch(EventReconnected, nil)
		return
	}
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	return b
}

func (c *Client) send(conn *websocket.Conn, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: cannot encode %s payload: %w", apperrors.ErrValidation, event, err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := websocket.JSON.Send(conn, Frame{Event: event, Payload: raw}); err != nil {
		return apperrors.NewTransportError("failed to send "+event, err)
	}
	return nil
}

// Emit sends an event to the hub. There is no delivery acknowledgement.
func (c *Client) Emit(ctx context.Context, event string, payload any) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	if err := c.send(conn, event, payload); err != nil {
		c.drop(conn, err)
		return err
	}
	return nil
}

// Join registers interest in an engagement room, joining it on the hub
// when this is the first interested consumer.
func (c *Client) Join(ctx context.Context, engagementID string) error {
	if !c.interest.acquire(engagementID) {
		return nil
	}
	if err := c.Emit(ctx, EventJoinEngagement, engagementID); err != nil {
		c.interest.release(engagementID)
		return err
	}
	return nil
}

// Leave drops one consumer's interest, leaving the room on the hub only
// when nobody else is interested.
func (c *Client) Leave(ctx context.Context, engagementID string) error {
	if !c.interest.release(engagementID) {
		return nil
	}
	return c.Emit(ctx, EventLeaveEngagement, engagementID)
}

// Close shuts the connection. The client cannot be reused.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancel()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
