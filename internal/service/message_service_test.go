package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) UpdateUser(u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

type fakeMessageRepo struct {
	messages  []*domain.Message
	insertErr error
	now       time.Time
}

func (r *fakeMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	m.ID = primitive.NewObjectID()
	m.Status = domain.StatusSent
	if r.now.IsZero() {
		m.CreatedAt = time.Now()
	} else {
		m.CreatedAt = r.now
	}
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeMessageRepo) Between(_ context.Context, a, b string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Involving(_ context.Context, userID string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) UpdateStatus(context.Context, string, domain.Status) error {
	return nil
}

type fakeDeliverer struct {
	delivered []*domain.Message
}

func (d *fakeDeliverer) Deliver(m *domain.Message) {
	d.delivered = append(d.delivered, m)
}

type fakeNotifier struct {
	newMessage chan *domain.Message
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{newMessage: make(chan *domain.Message, 4)}
}

func (n *fakeNotifier) SendWelcomeEmail(context.Context, *domain.User) error { return nil }

func (n *fakeNotifier) SendNewMessageEmail(_ context.Context, _, _ *domain.User, m *domain.Message) error {
	n.newMessage <- m
	return nil
}

func testUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, "secret1")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	return u
}

func newTestMessageService(t *testing.T, users ...*domain.User) (*MessageService, *fakeMessageRepo, *fakeDeliverer, *fakeNotifier) {
	t.Helper()
	msgRepo := &fakeMessageRepo{}
	deliverer := &fakeDeliverer{}
	notifier := newFakeNotifier()
	svc := NewMessageService(msgRepo, newFakeUserRepo(users...), deliverer, notifier, zap.NewNop())
	return svc, msgRepo, deliverer, notifier
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	bob := testUser(t, "Bob", "bob@example.com")
	svc, msgRepo, deliverer, _ := newTestMessageService(t, alice, bob)

	_, err := svc.Send(context.Background(), alice.ID, bob.ID, domain.SendMessageRequest{})
	if !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("Send empty: got %v, want ErrEmptyMessage", err)
	}
	if len(msgRepo.messages) != 0 {
		t.Error("validation failure must not persist anything")
	}
	if len(deliverer.delivered) != 0 {
		t.Error("validation failure must not broadcast anything")
	}
}

func TestSendRejectsSelfMessage(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	svc, _, _, _ := newTestMessageService(t, alice)

	_, err := svc.Send(context.Background(), alice.ID, alice.ID, domain.SendMessageRequest{Text: "hi me"})
	if !errors.Is(err, domain.ErrSelfMessage) {
		t.Fatalf("self send: got %v, want ErrSelfMessage", err)
	}
}

func TestSendRejectsUnknownReceiver(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	svc, msgRepo, _, _ := newTestMessageService(t, alice)

	_, err := svc.Send(context.Background(), alice.ID, uuid.New(), domain.SendMessageRequest{Text: "hi"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("unknown receiver: got %v, want ErrUserNotFound", err)
	}
	if len(msgRepo.messages) != 0 {
		t.Error("unknown receiver must not persist anything")
	}
}

func TestSendPersistFailureSkipsBroadcast(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	bob := testUser(t, "Bob", "bob@example.com")
	svc, msgRepo, deliverer, _ := newTestMessageService(t, alice, bob)
	msgRepo.insertErr = errors.New("mongo down")

	_, err := svc.Send(context.Background(), alice.ID, bob.ID, domain.SendMessageRequest{Text: "hi"})
	if err == nil {
		t.Fatal("Send should surface the persistence failure")
	}
	if len(deliverer.delivered) != 0 {
		t.Error("no broadcast may happen without a durable write")
	}
}

func TestSendPersistsThenBroadcasts(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	bob := testUser(t, "Bob", "bob@example.com")
	svc, msgRepo, deliverer, notifier := newTestMessageService(t, alice, bob)

	msg, err := svc.Send(context.Background(), alice.ID, bob.ID, domain.SendMessageRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Status != domain.StatusSent {
		t.Errorf("status = %q, want sent", msg.Status)
	}
	if msg.ID.IsZero() || msg.CreatedAt.IsZero() {
		t.Error("insert must assign id and creation time")
	}
	if len(msgRepo.messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(msgRepo.messages))
	}
	if len(deliverer.delivered) != 1 || deliverer.delivered[0] != msg {
		t.Error("the stored record must be broadcast exactly once")
	}

	select {
	case notified := <-notifier.newMessage:
		if notified != msg {
			t.Error("notification carries a different message record")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for the notification dispatch")
	}
}

func TestHistoryUnknownPartner(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	svc, _, _, _ := newTestMessageService(t, alice)

	_, err := svc.History(context.Background(), alice.ID, uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("history with unknown partner: got %v, want ErrUserNotFound", err)
	}
}

func TestChatPartnersDecoratesRanking(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	bob := testUser(t, "Bob", "bob@example.com")
	carol := testUser(t, "Carol", "carol@example.com")
	svc, msgRepo, _, _ := newTestMessageService(t, alice, bob, carol)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msgRepo.now = base
	if _, err := svc.Send(context.Background(), alice.ID, bob.ID, domain.SendMessageRequest{Text: "to bob"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgRepo.now = base.Add(time.Minute)
	if _, err := svc.Send(context.Background(), alice.ID, carol.ID, domain.SendMessageRequest{Text: "to carol"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	entries, err := svc.ChatPartners(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ChatPartners: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].User.ID != carol.ID || entries[1].User.ID != bob.ID {
		t.Errorf("order = [%s %s], want [Carol Bob]", entries[0].User.FullName, entries[1].User.FullName)
	}
	if entries[0].User.FullName != "Carol" {
		t.Error("entries must carry the resolved profile")
	}
}

func TestChatPartnersPassesDeletedUsersThrough(t *testing.T) {
	alice := testUser(t, "Alice", "alice@example.com")
	ghostID := uuid.New()
	svc, msgRepo, _, _ := newTestMessageService(t, alice)

	msgRepo.messages = append(msgRepo.messages, &domain.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   ghostID.String(),
		ReceiverID: alice.ID.String(),
		Text:       "boo",
		Status:     domain.StatusSent,
		CreatedAt:  time.Now(),
	})

	entries, err := svc.ChatPartners(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ChatPartners: %v", err)
	}
	if len(entries) != 1 || entries[0].User.ID != ghostID {
		t.Fatalf("deleted partner must pass through as an opaque identity: %+v", entries)
	}
	if entries[0].User.FullName != "" {
		t.Error("no profile data may be fabricated for an unknown identity")
	}
}
