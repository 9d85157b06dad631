package model

import "time"

// Job is the posting an interview belongs to. Owned by the job-board CRUD;
// read here for interview context and HR ownership checks.
type Job struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	HRID        string    `json:"hrId" bson:"hrId"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Screening is the narrative produced by the CV-screening pipeline for an
// application, consumed as context when initializing an interview.
type Screening struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	ApplicationID string    `json:"applicationId" bson:"applicationId"`
	Summary       string    `json:"summary" bson:"summary"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
