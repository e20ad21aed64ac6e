package hub

import (
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// Router fans a freshly stored message out to every live session of both
// parties. Delivery is best-effort: a failed push to one session never
// prevents delivery to the others and never fails the send that triggered
// it. By the time Deliver runs the message is already durable, and a missed
// push is recovered by the receiver's next history fetch.
type Router struct {
	registry *Registry
	logger   *zap.Logger
}

// NewRouter creates a broadcast router over the given registry.
func NewRouter(registry *Registry, logger *zap.Logger) *Router {
	return &Router{registry: registry, logger: logger}
}

// Deliver pushes the message to all live sessions of the sender and the
// receiver. Self-messaging is rejected upstream, so the two session sets
// never overlap.
func (r *Router) Deliver(msg *domain.Message) {
	data, err := json.Marshal(domain.WebSocketMessage{
		Type:    domain.EventNewMessage,
		Payload: msg,
	})
	if err != nil {
		r.logger.Error("marshal message push", zap.Error(err))
		return
	}

	r.fanOut(msg.SenderID, data)
	r.fanOut(msg.ReceiverID, data)
}

func (r *Router) fanOut(rawUserID string, data []byte) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		r.logger.Error("message references malformed user id",
			zap.String("user", rawUserID), zap.Error(err))
		return
	}
	for _, s := range r.registry.SessionsFor(userID) {
		if !s.push(data) {
			r.logger.Warn("message push dropped, session queue full",
				zap.String("session", s.ID.String()),
				zap.String("user", rawUserID))
		}
	}
}
