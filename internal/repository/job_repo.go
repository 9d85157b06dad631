package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hireloop/internal/model"
)

// JobRepo reads job postings for interview context and ownership checks.
type JobRepo interface {
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ListByHR(ctx context.Context, hrID string) ([]*model.Job, error)
}

type jobRepo struct {
	collection *mongo.Collection
}

// NewJobRepo creates a new job repository.
func NewJobRepo(db *mongo.Database) JobRepo {
	return &jobRepo{
		collection: db.Collection("jobs"),
	}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var job model.Job
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) ListByHR(ctx context.Context, hrID string) ([]*model.Job, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hrId": hrID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []*model.Job
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}

	return jobs, nil
}
