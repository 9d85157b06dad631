package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hireloop/internal/model"
)

// InterviewRepo reads scheduled interviews and flips them to completed.
// Creation and deletion belong to the scheduling workflow, not this service.
type InterviewRepo interface {
	GetByRoomCode(ctx context.Context, roomCode string) (*model.Interview, error)
	UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error
	ListCompletedByJobIDs(ctx context.Context, jobIDs []string) ([]*model.Interview, error)
}

type interviewRepo struct {
	collection *mongo.Collection
}

// NewInterviewRepo creates a new interview repository.
func NewInterviewRepo(db *mongo.Database) InterviewRepo {
	return &interviewRepo{
		collection: db.Collection("interviews"),
	}
}

func (r *interviewRepo) GetByRoomCode(ctx context.Context, roomCode string) (*model.Interview, error) {
	var interview model.Interview
	err := r.collection.FindOne(ctx, bson.M{"roomCode": roomCode}).Decode(&interview)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *interviewRepo) ListCompletedByJobIDs(ctx context.Context, jobIDs []string) ([]*model.Interview, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"jobId":  bson.M{"$in": jobIDs},
		"status": model.InterviewCompleted,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var interviews []*model.Interview
	if err = cursor.All(ctx, &interviews); err != nil {
		return nil, err
	}

	return interviews, nil
}
