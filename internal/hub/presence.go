package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// Registry is the single owner of all live sessions. Every mutation and read
// goes through one mutex, so a broadcast never misses a session registered
// concurrently with it. Fan-outs working from a released snapshot stay safe
// across a concurrent unregister because each session drops pushes once it
// has been shut down.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	byUser   map[uuid.UUID]map[uuid.UUID]*Session
	logger   *zap.Logger
}

// NewRegistry creates an empty presence registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		byUser:   make(map[uuid.UUID]map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// Attach wraps an upgraded websocket connection in a session, registers it
// and starts its read/write pumps.
func (r *Registry) Attach(userID uuid.UUID, conn *websocket.Conn) *Session {
	s := &Session{
		ID:          uuid.New(),
		UserID:      userID,
		Send:        make(chan []byte, sendBufferSize),
		ConnectedAt: time.Now(),
		conn:        conn,
		registry:    r,
		logger:      r.logger,
	}
	r.Register(s)
	go s.writePump()
	go s.readPump()
	return s
}

// Register adds a session for its user. A user may hold any number of
// concurrent sessions (multi-device). The complete current online set is
// broadcast to every connected session after the change.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s
	userSessions, ok := r.byUser[s.UserID]
	if !ok {
		userSessions = make(map[uuid.UUID]*Session)
		r.byUser[s.UserID] = userSessions
	}
	userSessions[s.ID] = s

	r.logger.Info("session registered",
		zap.String("session", s.ID.String()),
		zap.String("user", s.UserID.String()),
		zap.Int("user_sessions", len(userSessions)))

	r.broadcastPresenceLocked()
}

// Unregister removes a session and closes its send channel. Calling it for an
// already removed session is a no-op. The complete online set is broadcast
// after the change.
func (r *Registry) Unregister(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)
	if userSessions, ok := r.byUser[s.UserID]; ok {
		delete(userSessions, sessionID)
		if len(userSessions) == 0 {
			delete(r.byUser, s.UserID)
		}
	}
	// A router fan-out may still hold this session in a snapshot taken before
	// the lock; shutdown flips the session's closed flag so such a push is
	// dropped rather than hitting the closed channel.
	s.shutdown()

	r.logger.Info("session unregistered",
		zap.String("session", s.ID.String()),
		zap.String("user", s.UserID.String()))

	r.broadcastPresenceLocked()
}

// SessionsFor returns a snapshot of the user's live sessions; may be empty.
func (r *Registry) SessionsFor(userID uuid.UUID) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	userSessions := r.byUser[userID]
	out := make([]*Session, 0, len(userSessions))
	for _, s := range userSessions {
		out = append(out, s)
	}
	return out
}

// OnlineIdentities returns a snapshot of all users with at least one live
// session.
func (r *Registry) OnlineIdentities() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onlineLocked()
}

func (r *Registry) onlineLocked() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(r.byUser))
	for userID := range r.byUser {
		out = append(out, userID)
	}
	return out
}

// broadcastPresenceLocked pushes the full current online set to every
// connected session. The full set, not a diff, keeps client state
// self-healing against missed updates. Callers must hold r.mu.
func (r *Registry) broadcastPresenceLocked() {
	online := r.onlineLocked()
	ids := make([]string, len(online))
	for i, id := range online {
		ids[i] = id.String()
	}

	data, err := json.Marshal(domain.WebSocketMessage{
		Type:    domain.EventPresenceChanged,
		Payload: domain.PresencePayload{OnlineUserIDs: ids},
	})
	if err != nil {
		r.logger.Error("marshal presence payload", zap.Error(err))
		return
	}

	for _, s := range r.sessions {
		if !s.push(data) {
			r.logger.Warn("presence push dropped, session queue full",
				zap.String("session", s.ID.String()),
				zap.String("user", s.UserID.String()))
		}
	}
}
