package client

import "github.com/RikitaRoy3/Chatly/internal/domain"

// Event is one push received over the live connection. The variants are
// consumed strictly in order from a single queue, so every state transition
// sees exactly one event at a time.
type Event interface {
	isEvent()
}

// NewMessageEvent carries one message record, exactly as stored.
type NewMessageEvent struct {
	Message domain.Message
}

func (NewMessageEvent) isEvent() {}

// PresenceChangedEvent carries the complete current online set.
type PresenceChangedEvent struct {
	OnlineUserIDs []string
}

func (PresenceChangedEvent) isEvent() {}

// DisconnectedEvent marks the live connection as gone. Local state is
// retained; only the connected flag flips.
type DisconnectedEvent struct {
	Err error
}

func (DisconnectedEvent) isEvent() {}
