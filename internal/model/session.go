package model

import (
	"encoding/json"
	"strings"
	"time"
)

// StatusInterviewComplete is the agent-defined sentinel marking that the
// interview has no more questions. The agent is compared case-insensitively
// against it because the remote service is not consistent about casing.
const StatusInterviewComplete = "interview_complete"

// IsCompleteStatus reports whether an agent-supplied status string denotes a
// finished interview.
func IsCompleteStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusInterviewComplete)
}

// AnswerEntry is one accepted answer in a session transcript. Evaluation is
// filled in after the agent has scored the turn.
type AnswerEntry struct {
	QuestionNumber int       `json:"questionNumber"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Timestamp      time.Time `json:"timestamp"`
	Evaluation     string    `json:"evaluation,omitempty"`
}

// InterviewSession is the in-memory conversational state for one room. The
// external agent is stateless, so this struct is the source of truth for the
// conversation: AllQuestions is the opaque question set returned at
// initialization and must be passed back on every turn.
type InterviewSession struct {
	InterviewID           string          `json:"interviewId"`
	CandidateID           string          `json:"candidateId"`
	JobID                 string          `json:"jobId"`
	AllQuestions          json.RawMessage `json:"allQuestions"`
	CurrentQuestion       string          `json:"currentQuestion"`
	CurrentQuestionNumber int             `json:"currentQuestionNumber"`
	Status                string          `json:"status"`
	Answers               []AnswerEntry   `json:"answers"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// Completed reports whether the session has reached its terminal state.
func (s *InterviewSession) Completed() bool {
	return IsCompleteStatus(s.Status)
}
