package model

import "time"

// FallbackOverallSummary is stored when the agent finishes an interview
// without supplying a final evaluation.
const FallbackOverallSummary = "Interview completed without final evaluation"

// Summary is the durable final evaluation for a completed interview. Exactly
// one row is written per completed interview.
type Summary struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	InterviewID    string    `json:"interviewId" bson:"interviewId"`
	Score          *float64  `json:"score" bson:"score"`
	Rating         *string   `json:"rating" bson:"rating"`
	OverallSummary *string   `json:"overallSummary" bson:"overallSummary"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// SummaryView joins a summary with its interview context for HR listings.
type SummaryView struct {
	ID             string    `json:"id"`
	InterviewID    string    `json:"interview_id"`
	CandidateID    string    `json:"candidate_id"`
	JobID          string    `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	CompletedAt    time.Time `json:"completed_at"`
	Score          *float64  `json:"score"`
	Rating         *string   `json:"rating"`
	OverallSummary *string   `json:"overall_summary"`
}
