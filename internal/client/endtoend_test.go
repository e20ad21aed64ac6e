package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
	"github.com/RikitaRoy3/Chatly/internal/hub"
	"github.com/RikitaRoy3/Chatly/internal/service"
)

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (r *memUserRepo) CreateUser(u *domain.User) error { r.users[u.ID] = u; return nil }
func (r *memUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) GetUserByID(id uuid.UUID) (*domain.User, error) { return r.users[id], nil }
func (r *memUserRepo) UpdateUser(u *domain.User) error                { r.users[u.ID] = u; return nil }

type memMessageRepo struct {
	messages []*domain.Message
	now      time.Time
}

func (r *memMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = r.now
	m.Status = domain.StatusSent
	r.messages = append(r.messages, m)
	return nil
}

func (r *memMessageRepo) Between(_ context.Context, a, b string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) Involving(_ context.Context, id string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.messages {
		if m.SenderID == id || m.ReceiverID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) UpdateStatus(context.Context, string, domain.Status) error { return nil }

type silentNotifier struct{}

func (silentNotifier) SendWelcomeEmail(context.Context, *domain.User) error { return nil }
func (silentNotifier) SendNewMessageEmail(context.Context, *domain.User, *domain.User, *domain.Message) error {
	return nil
}

// decodeEvents turns the payloads queued on a hub session into client events,
// exactly as the network read pump would.
func decodeEvents(t *testing.T, s *hub.Session) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case data := <-s.Send:
			var envelope struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal(data, &envelope); err != nil {
				t.Fatalf("unmarshal push: %v", err)
			}
			switch envelope.Type {
			case domain.EventNewMessage:
				var msg domain.Message
				if err := json.Unmarshal(envelope.Payload, &msg); err != nil {
					t.Fatalf("unmarshal message payload: %v", err)
				}
				events = append(events, NewMessageEvent{Message: msg})
			case domain.EventPresenceChanged:
				var p domain.PresencePayload
				if err := json.Unmarshal(envelope.Payload, &p); err != nil {
					t.Fatalf("unmarshal presence payload: %v", err)
				}
				events = append(events, PresenceChangedEvent{OnlineUserIDs: p.OnlineUserIDs})
			}
		default:
			return events
		}
	}
}

// TestSendDeliversAndReordersBothSides walks the full path: a send is
// validated, stored, echoed to the sender and pushed to the receiver, and
// both local views move the counterpart to the top of their chat lists.
func TestSendDeliversAndReordersBothSides(t *testing.T) {
	alice, err := domain.NewUser("Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := domain.NewUser("Bob", "bob@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	carol, err := domain.NewUser("Carol", "carol@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	users := &memUserRepo{users: map[uuid.UUID]*domain.User{alice.ID: alice, bob.ID: bob, carol.ID: carol}}
	msgs := &memMessageRepo{now: time.Date(2024, 5, 1, 12, 0, 10, 0, time.UTC)}

	registry := hub.NewRegistry(zap.NewNop())
	router := hub.NewRouter(registry, zap.NewNop())
	svc := service.NewMessageService(msgs, users, router, silentNotifier{}, zap.NewNop())

	bobSession := &hub.Session{ID: uuid.New(), UserID: bob.ID, Send: make(chan []byte, 64)}
	registry.Register(bobSession)

	// Both sides start with Carol at the top.
	older := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	aliceState := NewState(alice.ID)
	aliceState.LoadChatList([]domain.ChatPartnerEntry{
		{User: *carol, LastActivityAt: older},
		{User: *bob, LastActivityAt: older.Add(-time.Hour)},
	})
	bobState := NewState(bob.ID)
	bobState.LoadChatList([]domain.ChatPartnerEntry{
		{User: *carol, LastActivityAt: older},
		{User: *alice, LastActivityAt: older.Add(-time.Hour)},
	})
	epoch := bobState.SelectPartner(*alice)
	bobState.ApplyHistory(epoch, nil)

	stored, err := svc.Send(context.Background(), alice.ID, bob.ID, domain.SendMessageRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if stored.Status != domain.StatusSent || !stored.CreatedAt.Equal(msgs.now) {
		t.Fatalf("stored record = %+v, want status sent at the store's clock", stored)
	}

	// Bob's connected session received the identical record.
	var got *domain.Message
	for _, evt := range decodeEvents(t, bobSession) {
		bobState.Apply(evt)
		if e, ok := evt.(NewMessageEvent); ok {
			got = &e.Message
		}
	}
	if got == nil {
		t.Fatal("no new-message push reached Bob")
	}
	if got.ID != stored.ID || got.Text != "hi" || got.Status != domain.StatusSent {
		t.Errorf("pushed record differs from stored: %+v vs %+v", got, stored)
	}

	// Bob's chat list moved Alice to index 0 and his open conversation
	// gained the message.
	if list := bobState.ChatList(); list[0].User.ID != alice.ID {
		t.Errorf("Bob's list front = %s, want Alice", list[0].User.FullName)
	}
	if m := bobState.Messages(); len(m) != 1 || m[0].Text != "hi" {
		t.Errorf("Bob's open conversation = %v, want the pushed message", m)
	}

	// Alice's own view reorders from the synchronous send response.
	aliceState.ApplySendResult(*stored)
	if list := aliceState.ChatList(); list[0].User.ID != bob.ID {
		t.Errorf("Alice's list front = %s, want Bob", list[0].User.FullName)
	}
}
