package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// Client talks to the server over REST for request/response operations and
// over one live websocket for pushes. It serializes the three event sources
// (local send results, pushed messages and presence changes) onto the single
// State so their read-modify-write sequences never interleave.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger

	token  string
	viewer domain.User

	mu    sync.Mutex
	state *State

	conn *websocket.Conn

	// OnEvent, if set before Connect, is called after each pushed event has
	// been folded into the state. Used by the CLI to repaint.
	OnEvent func(Event)
}

// New creates a client for the given server base URL (e.g.
// "http://localhost:3000").
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type authResponse struct {
	User domain.User `json:"user"`
}

// Signup creates an account and opens a session.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) error {
	return c.authenticate(ctx, "/api/auth/signup", domain.SignupRequest{
		FullName: fullName, Email: email, Password: password,
	})
}

// Login opens a session for an existing account.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/login", domain.LoginRequest{
		Email: email, Password: password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) error {
	var resp authResponse
	header, err := c.do(ctx, http.MethodPost, path, body, &resp)
	if err != nil {
		return err
	}
	token := header.Get("X-Auth-Token")
	if token == "" {
		return errors.New("server did not return a session token")
	}
	c.token = token
	c.viewer = resp.User

	c.mu.Lock()
	c.state = NewState(resp.User.ID)
	c.mu.Unlock()
	return nil
}

// Viewer returns the authenticated user.
func (c *Client) Viewer() domain.User {
	return c.viewer
}

// Connect dials the live connection and starts consuming pushes. Call after
// a successful Login or Signup. Reconnecting re-registers presence but does
// not re-fetch any history; an explicit reselect does that.
func (c *Client) Connect() error {
	wsURL, err := c.websocketURL()
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dialing live connection: %w", err)
	}
	c.conn = conn

	events := make(chan Event, 64)
	go c.readPump(conn, events)
	go c.run(events)
	return nil
}

// Close tears down the live connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// readPump decodes pushed envelopes into tagged events. The connection
// ending for any reason is reported as a single DisconnectedEvent.
func (c *Client) readPump(conn *websocket.Conn, events chan<- Event) {
	defer close(events)
	for {
		var envelope struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&envelope); err != nil {
			events <- DisconnectedEvent{Err: err}
			return
		}

		switch envelope.Type {
		case domain.EventNewMessage:
			var msg domain.Message
			if err := json.Unmarshal(envelope.Payload, &msg); err != nil {
				c.logger.Warn("malformed message push", zap.Error(err))
				continue
			}
			events <- NewMessageEvent{Message: msg}
		case domain.EventPresenceChanged:
			var payload domain.PresencePayload
			if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
				c.logger.Warn("malformed presence push", zap.Error(err))
				continue
			}
			events <- PresenceChangedEvent{OnlineUserIDs: payload.OnlineUserIDs}
		default:
			c.logger.Debug("ignoring unknown push", zap.String("type", envelope.Type))
		}
	}
}

// run folds pushed events into the state, strictly in arrival order.
func (c *Client) run(events <-chan Event) {
	for evt := range events {
		c.mu.Lock()
		c.state.Apply(evt)
		c.mu.Unlock()
		if c.OnEvent != nil {
			c.OnEvent(evt)
		}
	}
}

// RefreshChats loads the server-computed ranked partner list, replacing the
// local list wholesale.
func (c *Client) RefreshChats(ctx context.Context) error {
	var entries []domain.ChatPartnerEntry
	if _, err := c.do(ctx, http.MethodGet, "/api/messages/chats", nil, &entries); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.LoadChatList(entries)
	c.mu.Unlock()
	return nil
}

// OpenConversation selects the partner and fetches the pair history. On a
// fetch failure the selection sticks (it is a local fact) and the message
// sequence stays empty.
func (c *Client) OpenConversation(ctx context.Context, partner domain.User) error {
	c.mu.Lock()
	epoch := c.state.SelectPartner(partner)
	c.mu.Unlock()

	var messages []domain.Message
	if _, err := c.do(ctx, http.MethodGet, "/api/messages/"+partner.ID.String(), nil, &messages); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.ApplyHistory(epoch, messages)
	c.mu.Unlock()
	return nil
}

// SendMessage sends to the given receiver and, once the server confirms the
// durable write, folds the echoed record into the local view. A failed send
// leaves the view untouched.
func (c *Client) SendMessage(ctx context.Context, receiverID uuid.UUID, text, image string) (*domain.Message, error) {
	var msg domain.Message
	_, err := c.do(ctx, http.MethodPost, "/api/messages/send/"+receiverID.String(),
		domain.SendMessageRequest{Text: text, Image: image}, &msg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.state.ApplySendResult(msg)
	c.mu.Unlock()
	return &msg, nil
}

// LookupUser resolves a user by ID for starting a first-ever conversation.
func (c *Client) LookupUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if _, err := c.do(ctx, http.MethodGet, "/api/messages/user/"+id.String(), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- State snapshots ---

// ChatList returns the current ranked chat list.
func (c *Client) ChatList() []domain.ChatPartnerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ChatList()
}

// Messages returns the open conversation's message sequence.
func (c *Client) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Messages()
}

// SelectedPartner returns the open conversation partner, or nil.
func (c *Client) SelectedPartner() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.SelectedPartner()
}

// IsOnline reports whether the user has a live session right now.
func (c *Client) IsOnline(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsOnline(userID)
}

// OnlineUserIDs returns the current online set.
func (c *Client) OnlineUserIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.OnlineUserIDs()
}

// do performs one REST call and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (http.Header, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&failure)
		return nil, &APIError{Status: resp.StatusCode, Message: failure.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.Header, nil
}
