package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireloop/internal/cache"
	"hireloop/internal/model"
	"hireloop/internal/repository"
	"hireloop/internal/store"
)

// InterviewService orchestrates the per-room interview session state machine:
// initialize, answer turns, status, and the terminal write-back of results.
type InterviewService struct {
	interviewRepo  repository.InterviewRepo
	jobRepo        repository.JobRepo
	screeningRepo  repository.ScreeningRepo
	summaryRepo    repository.SummaryRepo
	messageRepo    repository.MessageRepo
	sessions       *store.SessionStore
	agent          AgentClient
	interviewCache cache.InterviewCache
	logger         *zap.Logger
}

// NewInterviewService creates a new interview service.
func NewInterviewService(
	interviewRepo repository.InterviewRepo,
	jobRepo repository.JobRepo,
	screeningRepo repository.ScreeningRepo,
	summaryRepo repository.SummaryRepo,
	messageRepo repository.MessageRepo,
	sessions *store.SessionStore,
	agent AgentClient,
	interviewCache cache.InterviewCache,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		interviewRepo:  interviewRepo,
		jobRepo:        jobRepo,
		screeningRepo:  screeningRepo,
		summaryRepo:    summaryRepo,
		messageRepo:    messageRepo,
		sessions:       sessions,
		agent:          agent,
		interviewCache: interviewCache,
		logger:         logger,
	}
}

// InitializeResult is returned from Initialize.
type InitializeResult struct {
	FirstQuestion  string
	Status         string
	QuestionNumber int
}

// AnswerResult is returned from SubmitAnswer. NextQuestion is set only while
// the interview continues; Score/Rating/OverallSummary only on completion.
type AnswerResult struct {
	Status           string
	AnswerEvaluation string
	QuestionNumber   int
	NextQuestion     string
	Completed        bool
	TotalQuestions   int
	Score            *float64
	Rating           *string
	OverallSummary   *string
}

// StatusResult is returned from GetStatus. Initialized false is the expected
// state before the candidate starts, not an error.
type StatusResult struct {
	Initialized     bool
	Status          string
	CurrentQuestion string
	QuestionNumber  int
	TotalAnswers    int
}

// InterviewDetails is the durable interview joined with its job for the
// details endpoint.
type InterviewDetails struct {
	Interview *model.Interview
	Job       *model.Job
	IsActive  bool
	UserRole  model.Role
}

// Initialize starts the in-memory session for a room. Calling it again for an
// existing session replays the current question without contacting the agent.
func (s *InterviewService) Initialize(ctx context.Context, roomCode, requesterID string) (*InitializeResult, error) {
	unlock := s.sessions.Lock(roomCode)
	defer unlock()

	interview, err := s.interviewRepo.GetByRoomCode(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("fetch interview: %w", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}
	if interview.CandidateID != requesterID {
		return nil, ErrNotAuthorized
	}

	// Idempotent replay for an already-initialized room.
	if session := s.sessions.Get(roomCode); session != nil {
		return &InitializeResult{
			FirstQuestion:  session.CurrentQuestion,
			Status:         session.Status,
			QuestionNumber: session.CurrentQuestionNumber,
		}, nil
	}

	job, err := s.jobRepo.GetByID(ctx, interview.JobID)
	if err != nil {
		return nil, fmt.Errorf("fetch job: %w", err)
	}
	if job == nil {
		return nil, ErrInterviewNotFound
	}

	description := job.Description
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("Job Title: %s. No detailed description available.", job.Title)
	}

	screeningSummary := "No screening summary available"
	screening, err := s.screeningRepo.GetLatestByApplication(ctx, interview.ApplicationID)
	if err != nil {
		s.logger.Warn("screening lookup failed",
			zap.String("roomCode", roomCode),
			zap.Error(err))
	} else if screening != nil && strings.TrimSpace(screening.Summary) != "" {
		screeningSummary = screening.Summary
	}

	resp, err := s.agent.InitializeInterview(ctx, &InitializeAgentRequest{
		JobTitle:                 job.Title,
		JobDescription:           description,
		NumberOfQuestions:        interview.NumberOfQuestions,
		CandidateResumeScreening: screeningSummary,
	})
	if err != nil {
		return nil, err
	}

	session := &model.InterviewSession{
		InterviewID:           interview.ID,
		CandidateID:           interview.CandidateID,
		JobID:                 interview.JobID,
		AllQuestions:          resp.AllQuestions,
		CurrentQuestion:       resp.FirstQuestion,
		CurrentQuestionNumber: 1,
		Status:                resp.Status,
		Answers:               []model.AnswerEntry{},
		CreatedAt:             time.Now(),
	}
	s.sessions.Put(roomCode, session)

	s.logger.Info("interview session initialized",
		zap.String("roomCode", roomCode),
		zap.String("interviewId", interview.ID),
		zap.Int("numberOfQuestions", interview.NumberOfQuestions))

	return &InitializeResult{
		FirstQuestion:  resp.FirstQuestion,
		Status:         resp.Status,
		QuestionNumber: 1,
	}, nil
}

// SubmitAnswer records one answer turn, forwards the conversation to the
// agent, and advances or completes the session.
//
// Completion is recognized two ways: the agent's status equals the sentinel,
// or the agent returns no next-question text at all. Both paths behave
// identically so an agent that forgets the status string cannot desynchronize
// the session from the stored record.
func (s *InterviewService) SubmitAnswer(ctx context.Context, roomCode, requesterID, answerText string) (*AnswerResult, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, ErrEmptyAnswer
	}

	unlock := s.sessions.Lock(roomCode)
	defer unlock()

	session := s.sessions.Get(roomCode)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.CandidateID != requesterID {
		return nil, ErrNotAuthorized
	}
	if session.Completed() {
		return nil, ErrInterviewComplete
	}

	// The agent is stateless: every turn resends the question set and the
	// whole history of earlier turns. The current answer travels in its own
	// field; evaluations stay out of the payload.
	history := make([]QAPair, 0, len(session.Answers))
	for _, entry := range session.Answers {
		history = append(history, QAPair{Question: entry.Question, Answer: entry.Answer})
	}

	session.Answers = append(session.Answers, model.AnswerEntry{
		QuestionNumber: session.CurrentQuestionNumber,
		Question:       session.CurrentQuestion,
		Answer:         answerText,
		Timestamp:      time.Now(),
	})

	resp, err := s.agent.ContinueInterview(ctx, &ContinueAgentRequest{
		CandidateAnswer:       answerText,
		CurrentQuestionNumber: session.CurrentQuestionNumber,
		AllQuestions:          session.AllQuestions,
		PreviousAnswers:       history,
	})
	if err != nil {
		return nil, err
	}

	session.Answers[len(session.Answers)-1].Evaluation = resp.AnswerEvaluation

	result := &AnswerResult{
		Status:           resp.Status,
		AnswerEvaluation: resp.AnswerEvaluation,
		QuestionNumber:   session.CurrentQuestionNumber,
	}

	if isCompletion(resp.Status, resp.NextResponse) {
		session.Status = model.StatusInterviewComplete

		result.Status = model.StatusInterviewComplete
		result.Completed = true
		result.TotalQuestions = session.CurrentQuestionNumber
		result.Score = resp.Score
		result.Rating = resp.Rating
		result.OverallSummary = resp.OverallSummary

		s.persistCompletion(ctx, session, resp)

		s.logger.Info("interview completed",
			zap.String("roomCode", roomCode),
			zap.String("interviewId", session.InterviewID),
			zap.Int("totalQuestions", session.CurrentQuestionNumber))
	} else {
		session.CurrentQuestionNumber++
		session.CurrentQuestion = resp.NextResponse

		result.NextQuestion = resp.NextResponse
		result.QuestionNumber = session.CurrentQuestionNumber
	}

	return result, nil
}

// isCompletion is the completion policy: either the agent says so explicitly,
// or it stops supplying questions.
func isCompletion(status, nextQuestion string) bool {
	return model.IsCompleteStatus(status) || strings.TrimSpace(nextQuestion) == ""
}

// persistCompletion writes the terminal state to durable storage. The
// in-memory completion decision has already been made; storage failures are
// logged and never surfaced, so a storage hiccup cannot block the candidate's
// "interview complete" response.
func (s *InterviewService) persistCompletion(ctx context.Context, session *model.InterviewSession, resp *ContinueAgentResponse) {
	if err := s.interviewRepo.UpdateStatus(ctx, session.InterviewID, model.InterviewCompleted); err != nil {
		s.logger.Error("failed to mark interview completed",
			zap.String("interviewId", session.InterviewID),
			zap.Error(err))
	}

	overall := resp.OverallSummary
	if overall == nil || strings.TrimSpace(*overall) == "" {
		fallback := model.FallbackOverallSummary
		overall = &fallback
	}

	summary := &model.Summary{
		InterviewID:    session.InterviewID,
		Score:          resp.Score,
		Rating:         resp.Rating,
		OverallSummary: overall,
		CreatedAt:      time.Now(),
	}
	if err := s.summaryRepo.Create(ctx, summary); err != nil {
		s.logger.Error("failed to store interview summary",
			zap.String("interviewId", session.InterviewID),
			zap.Error(err))
	}
}

// GetStatus reports the session state for a room. A missing session is the
// normal pre-start state.
func (s *InterviewService) GetStatus(ctx context.Context, roomCode, requesterID string) (*StatusResult, error) {
	unlock := s.sessions.Lock(roomCode)
	defer unlock()

	session := s.sessions.Get(roomCode)
	if session == nil {
		return &StatusResult{Initialized: false}, nil
	}
	if session.CandidateID != requesterID {
		return nil, ErrNotAuthorized
	}

	return &StatusResult{
		Initialized:     true,
		Status:          session.Status,
		CurrentQuestion: session.CurrentQuestion,
		QuestionNumber:  session.CurrentQuestionNumber,
		TotalAnswers:    len(session.Answers),
	}, nil
}

// GetInterview returns the durable interview with job context for the details
// endpoint. Both the candidate and the owning HR may read it.
func (s *InterviewService) GetInterview(ctx context.Context, roomCode, requesterID string) (*InterviewDetails, error) {
	interview, err := s.interviewRepo.GetByRoomCode(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("fetch interview: %w", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}

	job, err := s.jobRepo.GetByID(ctx, interview.JobID)
	if err != nil {
		return nil, fmt.Errorf("fetch job: %w", err)
	}
	if job == nil {
		return nil, ErrInterviewNotFound
	}

	var role model.Role
	switch requesterID {
	case interview.CandidateID:
		role = model.RoleCandidate
	case job.HRID:
		role = model.RoleHR
	default:
		return nil, ErrNotAuthorized
	}

	now := time.Now()
	return &InterviewDetails{
		Interview: interview,
		Job:       job,
		IsActive:  !now.Before(interview.StartAt) && !now.After(interview.EndAt),
		UserRole:  role,
	}, nil
}

// ResolveRoom authorizes a user against an interview room and returns its
// cached metadata. Used by the websocket channel and the transcript endpoint.
func (s *InterviewService) ResolveRoom(ctx context.Context, roomCode, userID string) (*model.InterviewMeta, model.Role, error) {
	meta, err := s.interviewCache.GetMeta(ctx, roomCode)
	if err != nil {
		s.logger.Warn("interview cache lookup failed",
			zap.String("roomCode", roomCode),
			zap.Error(err))
		meta = nil
	}

	if meta == nil {
		interview, err := s.interviewRepo.GetByRoomCode(ctx, roomCode)
		if err != nil {
			return nil, "", fmt.Errorf("fetch interview: %w", err)
		}
		if interview == nil {
			return nil, "", ErrInterviewNotFound
		}

		job, err := s.jobRepo.GetByID(ctx, interview.JobID)
		if err != nil {
			return nil, "", fmt.Errorf("fetch job: %w", err)
		}
		if job == nil {
			return nil, "", ErrInterviewNotFound
		}

		meta = &model.InterviewMeta{
			InterviewID: interview.ID,
			RoomCode:    interview.RoomCode,
			CandidateID: interview.CandidateID,
			JobID:       interview.JobID,
			HRID:        job.HRID,
			Status:      interview.Status,
		}
		if err := s.interviewCache.SetMeta(ctx, roomCode, meta); err != nil {
			s.logger.Warn("interview cache store failed",
				zap.String("roomCode", roomCode),
				zap.Error(err))
		}
	}

	switch userID {
	case meta.CandidateID:
		return meta, model.RoleCandidate, nil
	case meta.HRID:
		return meta, model.RoleHR, nil
	default:
		return nil, "", ErrNotAuthorized
	}
}

// ListMessages returns a transcript page for the candidate or the owning HR.
func (s *InterviewService) ListMessages(ctx context.Context, roomCode, requesterID string, limit, offset int) ([]*model.TranscriptMessage, error) {
	meta, _, err := s.ResolveRoom(ctx, roomCode, requesterID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.ListByInterview(ctx, meta.InterviewID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	if messages == nil {
		messages = []*model.TranscriptMessage{}
	}
	return messages, nil
}

// ListHRSummaries returns the final evaluations for every completed interview
// on jobs owned by the given HR user, newest first.
func (s *InterviewService) ListHRSummaries(ctx context.Context, hrID string) ([]model.SummaryView, error) {
	jobs, err := s.jobRepo.ListByHR(ctx, hrID)
	if err != nil {
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}
	if len(jobs) == 0 {
		return []model.SummaryView{}, nil
	}

	jobIDs := make([]string, 0, len(jobs))
	jobsByID := make(map[string]*model.Job, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
		jobsByID[job.ID] = job
	}

	interviews, err := s.interviewRepo.ListCompletedByJobIDs(ctx, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch interviews: %w", err)
	}
	if len(interviews) == 0 {
		return []model.SummaryView{}, nil
	}

	interviewIDs := make([]string, 0, len(interviews))
	interviewsByID := make(map[string]*model.Interview, len(interviews))
	for _, interview := range interviews {
		interviewIDs = append(interviewIDs, interview.ID)
		interviewsByID[interview.ID] = interview
	}

	summaries, err := s.summaryRepo.ListByInterviewIDs(ctx, interviewIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch summaries: %w", err)
	}

	views := make([]model.SummaryView, 0, len(summaries))
	for _, summary := range summaries {
		interview, ok := interviewsByID[summary.InterviewID]
		if !ok {
			continue
		}
		job := jobsByID[interview.JobID]
		if job == nil {
			continue
		}
		views = append(views, model.SummaryView{
			ID:             summary.ID,
			InterviewID:    summary.InterviewID,
			CandidateID:    interview.CandidateID,
			JobID:          job.ID,
			JobTitle:       job.Title,
			ScheduledAt:    interview.StartAt,
			CompletedAt:    summary.CreatedAt,
			Score:          summary.Score,
			Rating:         summary.Rating,
			OverallSummary: summary.OverallSummary,
		})
	}

	return views, nil
}
