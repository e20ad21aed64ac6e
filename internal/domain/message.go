package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the delivery state of a message. Transitions are strictly
// monotonic: sent -> delivered -> seen, never backward.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusSeen      Status = "seen"
)

func (s Status) ordinal() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusSeen:
		return 2
	}
	return -1
}

// Valid reports whether s is one of the known delivery states.
func (s Status) Valid() bool {
	return s.ordinal() >= 0
}

// CanTransitionTo reports whether moving from s to next preserves the
// monotonic ordering of delivery states.
func (s Status) CanTransitionTo(next Status) bool {
	return s.Valid() && next.Valid() && s.ordinal() <= next.ordinal()
}

// Message represents a single direct message between two users, stored in
// MongoDB. ID, CreatedAt and the initial Status are assigned by the message
// repository at insert time and are immutable afterwards.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   string             `bson:"sender_id" json:"senderId"`
	ReceiverID string             `bson:"receiver_id" json:"receiverId"`
	Text       string             `bson:"text,omitempty" json:"text,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Status     Status             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Empty reports whether the message carries no payload at all. A message must
// have at least a text or an image part.
func (m *Message) Empty() bool {
	return m.Text == "" && m.Image == ""
}

// Counterpart returns the other party of the message from the given viewer's
// perspective.
func (m *Message) Counterpart(viewerID string) string {
	if m.SenderID == viewerID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ChatPartnerEntry is one row of a user's ranked conversation list: the
// resolved partner profile plus the timestamp of the most recent message
// exchanged with them. It is derived, never persisted.
type ChatPartnerEntry struct {
	User           User      `json:"user"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}
