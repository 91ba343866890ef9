package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrSessionExpired is the one distinguished server error: the caller
// must leave the room view, not retry.
var ErrSessionExpired = errors.New("session expired")

// IsSessionExpired reports whether err means the session is gone.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// APIError is a domain rejection reported by the server (insufficient
// funds, invalid amount, trade rejected). The message is meant for the
// player.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the Market Crash room API. The server tracks the
// player through a session cookie, so the client owns a cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *cookiejar.Jar
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the given server base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		jar:     jar,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			// Lobby endpoints answer with a redirect into the room
			// view; the client only needs the Location header.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client. The session jar
// is re-attached so cookie handling keeps working.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
		c.httpClient.Jar = c.jar
	}
}

// RoomState fetches the authoritative room snapshot.
func (c *Client) RoomState(ctx context.Context, roomID string) (*RoomSnapshot, error) {
	var env stateEnvelope
	if err := c.getJSON(ctx, "/api/room/"+url.PathEscape(roomID)+"/state", &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, serverError(env.Error)
	}
	return &env.RoomSnapshot, nil
}

// Buy submits a buy order for the given number of shares.
func (c *Client) Buy(ctx context.Context, roomID string, shares int) (string, error) {
	return c.trade(ctx, roomID, "buy", shares)
}

// Sell submits a sell order for the given number of shares.
func (c *Client) Sell(ctx context.Context, roomID string, shares int) (string, error) {
	return c.trade(ctx, roomID, "sell", shares)
}

func (c *Client) trade(ctx context.Context, roomID, side string, shares int) (string, error) {
	var out actionEnvelope
	path := "/api/room/" + url.PathEscape(roomID) + "/" + side
	if err := c.postJSON(ctx, path, tradeRequest{Shares: shares}, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", serverError(out.Error)
	}
	return out.Message, nil
}

// Chat posts a chat message to the room.
func (c *Client) Chat(ctx context.Context, roomID, message string) error {
	var out actionEnvelope
	path := "/api/room/" + url.PathEscape(roomID) + "/chat"
	if err := c.postJSON(ctx, path, chatRequest{Message: message}, &out); err != nil {
		return err
	}
	if !out.Success {
		return serverError(out.Error)
	}
	return nil
}

// CreateRoom creates a new room for the given player and returns the
// room id parsed from the redirect into the room view.
func (c *Client) CreateRoom(ctx context.Context, playerName string) (string, error) {
	return c.lobbyForm(ctx, "/create_room", url.Values{"player_name": {playerName}})
}

// JoinRoom joins an existing room as the given player.
func (c *Client) JoinRoom(ctx context.Context, roomID, playerName string) (string, error) {
	return c.lobbyForm(ctx, "/join_room", url.Values{
		"room_id":     {roomID},
		"player_name": {playerName},
	})
}

func (c *Client) lobbyForm(ctx context.Context, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	// Success is a redirect into /room/{id}; anything else means the
	// server bounced us back to the lobby.
	loc := resp.Header.Get("Location")
	if resp.StatusCode < 300 || resp.StatusCode >= 400 || !strings.Contains(loc, "/room/") {
		return "", &APIError{Message: "room not available"}
	}
	parts := strings.Split(strings.TrimRight(loc, "/"), "/")
	return parts[len(parts)-1], nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverError maps a success:false body onto the error taxonomy.
func serverError(msg string) error {
	if strings.Contains(msg, "Session expired") {
		return ErrSessionExpired
	}
	if msg == "" {
		msg = "request rejected"
	}
	return &APIError{Message: msg}
}
