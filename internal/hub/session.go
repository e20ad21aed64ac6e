package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// sendBufferSize is the per-session outbound queue. A session that cannot
// keep up has pushes dropped rather than blocking the registry.
const sendBufferSize = 256

// Session is one live websocket connection of an authenticated user. It is
// owned exclusively by the Registry; no other component holds the raw
// connection.
type Session struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Send        chan []byte
	ConnectedAt time.Time

	conn     *websocket.Conn
	registry *Registry
	logger   *zap.Logger

	// mu guards closed. A fan-out working from a session snapshot can race
	// the unregister that closes Send; push checks the flag under the same
	// lock shutdown sets it, so a late push is dropped instead of sending on
	// a closed channel.
	mu     sync.Mutex
	closed bool
}

// readPump drains inbound frames until the connection errors or closes, then
// unregisters the session. An errored connection is treated exactly like an
// explicit disconnect.
func (s *Session) readPump() {
	defer func() {
		s.registry.Unregister(s.ID)
		s.conn.Close()
	}()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("session read ended",
					zap.String("session", s.ID.String()),
					zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards the Send channel to the websocket. It exits when the
// registry closes the channel on unregister.
func (s *Session) writePump() {
	defer s.conn.Close()
	for message := range s.Send {
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			s.logger.Warn("session write failed",
				zap.String("session", s.ID.String()),
				zap.String("user", s.UserID.String()),
				zap.Error(err))
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// push queues data for delivery without blocking. It reports whether the
// session accepted the payload; a full queue or an already shut down session
// drops it.
func (s *Session) push(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.Send <- data:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once. After it returns every
// further push is a no-op.
func (s *Session) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.Send)
}
