package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

const notifyTimeout = 10 * time.Second

// MessageService provides messaging business logic: validated sends with
// persist-then-broadcast ordering, pair history and the ranked partner list.
type MessageService struct {
	messageRepo IMessageRepository
	userRepo    IUserRepository
	deliverer   IDeliverer
	notifier    INotifier
	logger      *zap.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo IMessageRepository, userRepo IUserRepository, deliverer IDeliverer, notifier INotifier, logger *zap.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		deliverer:   deliverer,
		notifier:    notifier,
		logger:      logger,
	}
}

// Send validates, persists and fans out a message. The durable write always
// comes first; the broadcast runs only after it succeeded, so a crash in
// between loses at most a live push, never produces a phantom or duplicate
// message. Broadcast and notification failures never fail the send.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, req domain.SendMessageRequest) (*domain.Message, error) {
	if req.Text == "" && req.Image == "" {
		return nil, domain.ErrEmptyMessage
	}
	if senderID == receiverID {
		return nil, domain.ErrSelfMessage
	}

	receiver, err := s.userRepo.GetUserByID(receiverID)
	if err != nil {
		return nil, fmt.Errorf("resolving receiver: %w", err)
	}
	if receiver == nil {
		return nil, domain.ErrUserNotFound
	}

	message := &domain.Message{
		SenderID:   senderID.String(),
		ReceiverID: receiverID.String(),
		Text:       req.Text,
		Image:      req.Image,
	}
	if err := s.messageRepo.Insert(ctx, message); err != nil {
		return nil, fmt.Errorf("storing message: %w", err)
	}

	s.deliverer.Deliver(message)
	s.dispatchNewMessageEmail(senderID, receiver, message)

	return message, nil
}

// History returns the full two-way message history between the viewer and
// the partner, oldest first.
func (s *MessageService) History(ctx context.Context, viewerID, partnerID uuid.UUID) ([]*domain.Message, error) {
	partner, err := s.userRepo.GetUserByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.messageRepo.Between(ctx, viewerID.String(), partnerID.String())
}

// ChatPartners returns the viewer's counterparts ordered by most recent
// activity, decorated with their resolved profiles. The ranking is recomputed
// from the full message history on every call; profile data never influences
// the order.
func (s *MessageService) ChatPartners(ctx context.Context, viewerID uuid.UUID) ([]domain.ChatPartnerEntry, error) {
	messages, err := s.messageRepo.Involving(ctx, viewerID.String())
	if err != nil {
		return nil, fmt.Errorf("loading message history: %w", err)
	}

	ranked := rankPartners(viewerID.String(), messages)
	entries := make([]domain.ChatPartnerEntry, 0, len(ranked))
	for _, p := range ranked {
		partnerID, err := uuid.Parse(p.PartnerID)
		if err != nil {
			s.logger.Warn("skipping malformed partner id", zap.String("partner", p.PartnerID))
			continue
		}
		user, err := s.userRepo.GetUserByID(partnerID)
		if err != nil {
			return nil, fmt.Errorf("resolving partner %s: %w", partnerID, err)
		}
		if user == nil {
			// Deleted accounts pass through as opaque identities.
			user = &domain.User{ID: partnerID}
		}
		entries = append(entries, domain.ChatPartnerEntry{User: *user, LastActivityAt: p.LastActivityAt})
	}
	return entries, nil
}

// dispatchNewMessageEmail fires the notification email without blocking the
// send. The message is already durable; a failed email is logged and
// forgotten.
func (s *MessageService) dispatchNewMessageEmail(senderID uuid.UUID, receiver *domain.User, message *domain.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		sender, err := s.userRepo.GetUserByID(senderID)
		if err != nil || sender == nil {
			s.logger.Warn("new message email skipped, sender lookup failed",
				zap.String("sender", senderID.String()), zap.Error(err))
			return
		}
		if err := s.notifier.SendNewMessageEmail(ctx, sender, receiver, message); err != nil {
			s.logger.Warn("new message email failed",
				zap.String("receiver", receiver.Email), zap.Error(err))
		}
	}()
}
