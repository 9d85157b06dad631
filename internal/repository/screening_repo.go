package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hireloop/internal/model"
)

// ScreeningRepo reads CV-screening results produced by the screening pipeline.
type ScreeningRepo interface {
	GetLatestByApplication(ctx context.Context, applicationID string) (*model.Screening, error)
}

type screeningRepo struct {
	collection *mongo.Collection
}

// NewScreeningRepo creates a new screening repository.
func NewScreeningRepo(db *mongo.Database) ScreeningRepo {
	return &screeningRepo{
		collection: db.Collection("screenings"),
	}
}

func (r *screeningRepo) GetLatestByApplication(ctx context.Context, applicationID string) (*model.Screening, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var screening model.Screening
	err := r.collection.FindOne(ctx, bson.M{"applicationId": applicationID}, opts).Decode(&screening)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &screening, nil
}
