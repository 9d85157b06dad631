package model

import "time"

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
)

// Interview is the durable record for a scheduled interview. It is created by
// the scheduling workflow; this service only transitions Status to completed.
type Interview struct {
	ID                string          `json:"id" bson:"_id,omitempty"`
	RoomCode          string          `json:"roomCode" bson:"roomCode"`
	CandidateID       string          `json:"candidateId" bson:"candidateId"`
	JobID             string          `json:"jobId" bson:"jobId"`
	ApplicationID     string          `json:"applicationId" bson:"applicationId"`
	StartAt           time.Time       `json:"startAt" bson:"startAt"`
	EndAt             time.Time       `json:"endAt" bson:"endAt"`
	NumberOfQuestions int             `json:"numberOfQuestions" bson:"numberOfQuestions"`
	Status            InterviewStatus `json:"status" bson:"status"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
}

// InterviewMeta is the cached slice of an interview used on hot paths
// (websocket auth, session lookups) to avoid repeated joins.
type InterviewMeta struct {
	InterviewID string          `json:"interviewId"`
	RoomCode    string          `json:"roomCode"`
	CandidateID string          `json:"candidateId"`
	JobID       string          `json:"jobId"`
	HRID        string          `json:"hrId"`
	Status      InterviewStatus `json:"status"`
}
