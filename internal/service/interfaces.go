package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// --- Service Interfaces ---

// IUserService defines the interface for user-related business logic.
type IUserService interface {
	Signup(fullName, email, password string) (*domain.User, error)
	Login(email, password string) (*domain.User, error)
	GetUserByID(id uuid.UUID) (*domain.User, error)
	UpdateProfile(id uuid.UUID, update domain.UpdateProfileRequest) (*domain.User, error)
}

// IMessageService defines the interface for messaging business logic.
type IMessageService interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, req domain.SendMessageRequest) (*domain.Message, error)
	History(ctx context.Context, viewerID, partnerID uuid.UUID) ([]*domain.Message, error)
	ChatPartners(ctx context.Context, viewerID uuid.UUID) ([]domain.ChatPartnerEntry, error)
}

// --- Repository Interfaces ---

// IUserRepository defines the interface for user persistence.
type IUserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByEmail(email string) (*domain.User, error)
	GetUserByID(id uuid.UUID) (*domain.User, error)
	UpdateUser(user *domain.User) error
}

// IMessageRepository defines the interface for message persistence. Insert
// assigns the message ID, creation time and the initial "sent" status.
type IMessageRepository interface {
	Insert(ctx context.Context, message *domain.Message) error
	// Between returns both directions of the pair, ordered by creation time
	// ascending.
	Between(ctx context.Context, userA, userB string) ([]*domain.Message, error)
	// Involving returns every message the user sent or received, ordered by
	// creation time ascending.
	Involving(ctx context.Context, userID string) ([]*domain.Message, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// --- Collaborator Interfaces ---

// IDeliverer pushes a stored message to the live connections of both parties.
type IDeliverer interface {
	Deliver(message *domain.Message)
}

// INotifier dispatches outbound email notifications. Implementations are
// called after the primary operation commits; their failures are logged and
// never rolled back into the primary result.
type INotifier interface {
	SendWelcomeEmail(ctx context.Context, to *domain.User) error
	SendNewMessageEmail(ctx context.Context, sender, receiver *domain.User, message *domain.Message) error
}
