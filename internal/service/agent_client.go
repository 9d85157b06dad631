package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireloop/internal/config"
)

// AgentClient talks to the external interview agent. The agent is stateless:
// the full question set and the full prior-answer history are resent on every
// continuation call.
type AgentClient interface {
	InitializeInterview(ctx context.Context, req *InitializeAgentRequest) (*InitializeAgentResponse, error)
	ContinueInterview(ctx context.Context, req *ContinueAgentRequest) (*ContinueAgentResponse, error)
}

// InitializeAgentRequest is the context the agent needs to build a question set.
type InitializeAgentRequest struct {
	JobTitle                 string `json:"job_title"`
	JobDescription           string `json:"job_description"`
	NumberOfQuestions        int    `json:"number_of_questions"`
	CandidateResumeScreening string `json:"candidate_resume_screening"`
}

// InitializeAgentResponse carries the opaque question set the caller must
// hold on to and resend every turn.
type InitializeAgentResponse struct {
	FirstQuestion string          `json:"first_question"`
	AllQuestions  json.RawMessage `json:"all_questions"`
	Status        string          `json:"interview_status"`
}

// QAPair is one prior question/answer turn sent back as conversation history.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ContinueAgentRequest carries one answer plus the full conversation so far.
type ContinueAgentRequest struct {
	CandidateAnswer       string          `json:"candidate_answer"`
	CurrentQuestionNumber int             `json:"current_question_number"`
	AllQuestions          json.RawMessage `json:"all_questions"`
	PreviousAnswers       []QAPair        `json:"previous_answers"`
}

// ContinueAgentResponse is the agent's verdict on a turn. Score, Rating and
// OverallSummary are only present when the interview is finished.
type ContinueAgentResponse struct {
	NextResponse     string   `json:"next_response"`
	Status           string   `json:"interview_status"`
	AnswerEvaluation string   `json:"answer_evaluation"`
	Score            *float64 `json:"score,omitempty"`
	Rating           *string  `json:"rating,omitempty"`
	OverallSummary   *string  `json:"overall_summary,omitempty"`
}

type agentClient struct {
	cfg    *config.AgentConfig
	client *http.Client
	logger *zap.Logger
}

// NewAgentClient creates an HTTP client for the external interview agent.
func NewAgentClient(cfg *config.AgentConfig, logger *zap.Logger) AgentClient {
	return &agentClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// InitializeInterview asks the agent to generate the question set and the
// first question for an interview.
func (c *agentClient) InitializeInterview(ctx context.Context, req *InitializeAgentRequest) (*InitializeAgentResponse, error) {
	var resp InitializeAgentResponse
	if err := c.post(ctx, "/api/initialize_interview", req, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.FirstQuestion) == "" {
		return nil, fmt.Errorf("%w: agent returned no first question", ErrAgent)
	}
	return &resp, nil
}

// ContinueInterview submits an answer and the conversation so far, returning
// either the next question or the final evaluation.
func (c *agentClient) ContinueInterview(ctx context.Context, req *ContinueAgentRequest) (*ContinueAgentResponse, error) {
	var resp ContinueAgentResponse
	if err := c.post(ctx, "/api/continue_interview", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *agentClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrAgent, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := c.cfg.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrAgent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("agent call timed out",
				zap.String("path", path),
				zap.Duration("elapsed", time.Since(start)))
			return fmt.Errorf("%w: %s", ErrAgentTimeout, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrAgent, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrAgent, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("agent returned non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)))
		return fmt.Errorf("%w: %s: status %d", ErrAgent, path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrAgent, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
