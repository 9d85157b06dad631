package model

import "time"

type Sender string

const (
	SenderCandidate Sender = "candidate"
	SenderHR        Sender = "hr"
	SenderAgent     Sender = "agent"
	SenderSystem    Sender = "system"
)

// TranscriptMessage is one persisted chat message in an interview room.
// The transcript is append-only and independent of the session's answer log.
type TranscriptMessage struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	InterviewID string    `json:"interviewId" bson:"interviewId"`
	Sender      Sender    `json:"sender" bson:"sender"`
	Content     string    `json:"content" bson:"content"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}
