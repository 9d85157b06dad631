package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hireloop/internal/model"
)

// MessageRepo persists the append-only interview transcript.
type MessageRepo interface {
	Create(ctx context.Context, message *model.TranscriptMessage) error
	ListByInterview(ctx context.Context, interviewID string, limit, offset int) ([]*model.TranscriptMessage, error)
	Recent(ctx context.Context, interviewID string, limit int) ([]*model.TranscriptMessage, error)
}

type messageRepo struct {
	collection *mongo.Collection
}

// NewMessageRepo creates a new transcript message repository.
func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepo{
		collection: db.Collection("interview_messages"),
	}
}

func (r *messageRepo) Create(ctx context.Context, message *model.TranscriptMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid.Hex()
	}

	return nil
}

func (r *messageRepo) ListByInterview(ctx context.Context, interviewID string, limit, offset int) ([]*model.TranscriptMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"interviewId": interviewID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*model.TranscriptMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// Recent returns the last limit messages in chronological order, for history
// replay when a connection joins a room.
func (r *messageRepo) Recent(ctx context.Context, interviewID string, limit int) ([]*model.TranscriptMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"interviewId": interviewID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*model.TranscriptMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	// Newest-first from the query, oldest-first for replay.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
