package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

const messageCollection = "messages"

// MessageRepository handles database operations for chat messages. It is the
// sole owner of the durable message records; everything else only ever holds
// transient copies for delivery.
type MessageRepository struct {
	DB *mongo.Database
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Insert stores a new message, assigning its ID, creation time and the
// initial "sent" status. These fields are immutable afterwards.
func (r *MessageRepository) Insert(ctx context.Context, message *domain.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()
	message.Status = domain.StatusSent

	collection := r.DB.Collection(messageCollection)
	if _, err := collection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// Between returns all messages exchanged between the two users, in both
// directions, ordered by creation time ascending.
func (r *MessageRepository) Between(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userA, "receiver_id": userB},
		bson.M{"sender_id": userB, "receiver_id": userA},
	}}
	return r.find(ctx, filter)
}

// Involving returns every message the user sent or received, ordered by
// creation time ascending.
func (r *MessageRepository) Involving(ctx context.Context, userID string) ([]*domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}
	return r.find(ctx, filter)
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M) ([]*domain.Message, error) {
	collection := r.DB.Collection(messageCollection)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*domain.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decoding messages: %w", err)
	}
	return messages, nil
}

// UpdateStatus advances a message's delivery status. Backward transitions
// are rejected; the conditional filter keeps a concurrent advance from being
// overwritten by a stale one.
func (r *MessageRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("malformed message id %q: %w", id, err)
	}
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	collection := r.DB.Collection(messageCollection)

	var current domain.Message
	if err := collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&current); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrMessageNotFound
		}
		return fmt.Errorf("loading message: %w", err)
	}
	if !current.Status.CanTransitionTo(status) {
		return domain.ErrStatusRegression
	}

	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": current.Status},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}
