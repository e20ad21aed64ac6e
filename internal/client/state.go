package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// State is the client's local view: the ranked chat list, the active
// conversation and the online set. It reconciles a bulk server snapshot with
// incrementally pushed events while keeping the list unique and ordered only
// by move-to-front mutations, so entries the user did not touch never jump
// around under their cursor.
//
// State is a cooperative single-writer machine: the caller serializes local
// send results and pushed events onto it (the Client feeds it from one event
// loop). It is not safe for concurrent use.
type State struct {
	viewerID uuid.UUID

	chatList        []domain.ChatPartnerEntry
	selectedPartner *domain.User
	selectionEpoch  uint64
	messages        []domain.Message
	online          map[string]struct{}
	connected       bool
}

// NewState creates the local view for the given authenticated viewer.
func NewState(viewerID uuid.UUID) *State {
	return &State{
		viewerID: viewerID,
		online:   make(map[string]struct{}),
	}
}

// LoadChatList replaces the chat list wholesale with the server-computed
// ranking. This is the only operation allowed to rebuild the list; every
// later change is an incremental, order-preserving mutation.
func (s *State) LoadChatList(entries []domain.ChatPartnerEntry) {
	s.chatList = append([]domain.ChatPartnerEntry(nil), entries...)
}

// SelectPartner makes p the active conversation and discards the previous
// message sequence immediately, before any fetch resolves, so the old
// partner's messages never flash under the new selection. The returned epoch
// ties the upcoming history fetch to this selection.
func (s *State) SelectPartner(p domain.User) uint64 {
	s.selectedPartner = &p
	s.messages = nil
	s.selectionEpoch++
	return s.selectionEpoch
}

// ApplyHistory installs a fetched history for the selection identified by
// epoch. A late-arriving fetch for a superseded selection is dropped; the
// return value reports whether the history was applied.
func (s *State) ApplyHistory(epoch uint64, messages []domain.Message) bool {
	if epoch != s.selectionEpoch {
		return false
	}
	s.messages = append([]domain.Message(nil), messages...)
	return true
}

// ApplySendResult folds the synchronous response of the viewer's own send
// into the view. Callers invoke it only after the durable write was
// confirmed; a failed send must leave the view untouched.
func (s *State) ApplySendResult(msg domain.Message) {
	if s.selectedPartner != nil && s.selectedPartner.ID.String() == msg.ReceiverID {
		s.messages = append(s.messages, msg)
	}
	s.touchChatList(msg.ReceiverID, msg.CreatedAt)
}

// Apply advances the state by one pushed event.
func (s *State) Apply(evt Event) {
	switch e := evt.(type) {
	case NewMessageEvent:
		s.applyPushedMessage(e.Message)
	case PresenceChangedEvent:
		// Wholesale replacement, never a diff: a repeated or missed update
		// cannot leave the set skewed.
		online := make(map[string]struct{}, len(e.OnlineUserIDs))
		for _, id := range e.OnlineUserIDs {
			online[id] = struct{}{}
		}
		s.online = online
		s.connected = true
	case DisconnectedEvent:
		// Chat list and messages are retained across a drop; a reconnect
		// re-registers without re-fetching history.
		s.connected = false
	}
}

func (s *State) applyPushedMessage(msg domain.Message) {
	counterpart := msg.Counterpart(s.viewerID.String())
	if counterpart == msg.SenderID && s.selectedPartner != nil && s.selectedPartner.ID.String() == counterpart {
		s.messages = append(s.messages, msg)
	}
	// The chat list reorders even when the push belongs to a conversation
	// that is not open: an unrelated incoming chat still jumps to the top.
	s.touchChatList(counterpart, msg.CreatedAt)
}

// touchChatList moves the partner's entry to the front, leaving the relative
// order of all other entries alone, or inserts a new entry at the front for a
// first-ever contact. Profile data for a new entry comes from the selected
// partner when it matches; otherwise the identity stays opaque. Metadata is
// never fabricated.
func (s *State) touchChatList(partnerID string, activityAt time.Time) {
	for i := range s.chatList {
		if s.chatList[i].User.ID.String() != partnerID {
			continue
		}
		entry := s.chatList[i]
		entry.LastActivityAt = activityAt
		s.chatList = append(s.chatList[:i], s.chatList[i+1:]...)
		s.chatList = append([]domain.ChatPartnerEntry{entry}, s.chatList...)
		return
	}

	entry := domain.ChatPartnerEntry{LastActivityAt: activityAt}
	if s.selectedPartner != nil && s.selectedPartner.ID.String() == partnerID {
		entry.User = *s.selectedPartner
	} else {
		id, err := uuid.Parse(partnerID)
		if err != nil {
			return
		}
		entry.User = domain.User{ID: id}
	}
	s.chatList = append([]domain.ChatPartnerEntry{entry}, s.chatList...)
}

// ChatList returns a copy of the current ranked chat list.
func (s *State) ChatList() []domain.ChatPartnerEntry {
	return append([]domain.ChatPartnerEntry(nil), s.chatList...)
}

// Messages returns a copy of the active conversation's message sequence.
func (s *State) Messages() []domain.Message {
	return append([]domain.Message(nil), s.messages...)
}

// SelectedPartner returns the active conversation partner, or nil.
func (s *State) SelectedPartner() *domain.User {
	if s.selectedPartner == nil {
		return nil
	}
	p := *s.selectedPartner
	return &p
}

// IsOnline reports whether the given user currently has a live session.
func (s *State) IsOnline(userID string) bool {
	_, ok := s.online[userID]
	return ok
}

// OnlineUserIDs returns a snapshot of the online set.
func (s *State) OnlineUserIDs() []string {
	out := make([]string, 0, len(s.online))
	for id := range s.online {
		out = append(out, id)
	}
	return out
}

// Connected reports whether the live connection is currently up.
func (s *State) Connected() bool {
	return s.connected
}
