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

// SummaryRepo persists final interview evaluations.
type SummaryRepo interface {
	Create(ctx context.Context, summary *model.Summary) error
	ListByInterviewIDs(ctx context.Context, interviewIDs []string) ([]*model.Summary, error)
}

type summaryRepo struct {
	collection *mongo.Collection
}

// NewSummaryRepo creates a new summary repository.
func NewSummaryRepo(db *mongo.Database) SummaryRepo {
	return &summaryRepo{
		collection: db.Collection("summaries"),
	}
}

func (r *summaryRepo) Create(ctx context.Context, summary *model.Summary) error {
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, summary)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		summary.ID = oid.Hex()
	}

	return nil
}

func (r *summaryRepo) ListByInterviewIDs(ctx context.Context, interviewIDs []string) ([]*model.Summary, error) {
	if len(interviewIDs) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"interviewId": bson.M{"$in": interviewIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []*model.Summary
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}

	return summaries, nil
}
