package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"hireloop/internal/model"
	"hireloop/internal/service"
	"hireloop/internal/transport/rest/middleware"
)

// InterviewHandler handles interview session endpoints.
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler.
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewSvc: interviewSvc,
	}
}

// InitializeResponse is the body for a successful initialize call.
type InitializeResponse struct {
	FirstQuestion         string `json:"first_question"`
	InterviewStatus       string `json:"interview_status"`
	CurrentQuestionNumber int    `json:"current_question_number"`
}

// Initialize handles POST /v1/interviews/{roomCode}/initialize
func (h *InterviewHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	userID := middleware.GetUserID(r.Context())

	result, err := h.interviewSvc.Initialize(r.Context(), roomCode, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, InitializeResponse{
		FirstQuestion:         result.FirstQuestion,
		InterviewStatus:       result.Status,
		CurrentQuestionNumber: result.QuestionNumber,
	})
}

// AnswerRequest is the request body for submitting an answer.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse is the body for a processed answer. NextQuestion appears only
// while the interview continues; the score fields only on completion.
type AnswerResponse struct {
	InterviewStatus       string   `json:"interview_status"`
	AnswerEvaluation      string   `json:"answer_evaluation"`
	CurrentQuestionNumber int      `json:"current_question_number"`
	NextQuestion          string   `json:"next_question,omitempty"`
	Completed             bool     `json:"completed,omitempty"`
	TotalQuestions        int      `json:"total_questions,omitempty"`
	Score                 *float64 `json:"score,omitempty"`
	Rating                *string  `json:"rating,omitempty"`
	OverallSummary        *string  `json:"overall_summary,omitempty"`
}

// SubmitAnswer handles POST /v1/interviews/{roomCode}/answer
func (h *InterviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	userID := middleware.GetUserID(r.Context())

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.interviewSvc.SubmitAnswer(r.Context(), roomCode, userID, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{
		InterviewStatus:       result.Status,
		AnswerEvaluation:      result.AnswerEvaluation,
		CurrentQuestionNumber: result.QuestionNumber,
		NextQuestion:          result.NextQuestion,
		Completed:             result.Completed,
		TotalQuestions:        result.TotalQuestions,
		Score:                 result.Score,
		Rating:                result.Rating,
		OverallSummary:        result.OverallSummary,
	})
}

// StatusResponse is the body for the session status endpoint.
type StatusResponse struct {
	Initialized           bool   `json:"initialized"`
	Status                string `json:"status,omitempty"`
	CurrentQuestion       string `json:"current_question,omitempty"`
	CurrentQuestionNumber int    `json:"current_question_number,omitempty"`
	TotalAnswers          int    `json:"total_answers"`
}

// GetStatus handles GET /v1/interviews/{roomCode}/status
func (h *InterviewHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	userID := middleware.GetUserID(r.Context())

	result, err := h.interviewSvc.GetStatus(r.Context(), roomCode, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !result.Initialized {
		writeJSON(w, http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Initialized:           true,
		Status:                result.Status,
		CurrentQuestion:       result.CurrentQuestion,
		CurrentQuestionNumber: result.QuestionNumber,
		TotalAnswers:          result.TotalAnswers,
	})
}

// InterviewView is the details payload for one interview.
type InterviewView struct {
	ID                string     `json:"id"`
	RoomCode          string     `json:"room_code"`
	StartAt           time.Time  `json:"start_at"`
	EndAt             time.Time  `json:"end_at"`
	Status            string     `json:"status"`
	NumberOfQuestions int        `json:"number_of_questions"`
	Job               JobView    `json:"job"`
	IsActive          bool       `json:"is_active"`
	UserRole          model.Role `json:"user_role"`
}

// JobView is the job context embedded in interview details.
type JobView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Get handles GET /v1/interviews/{roomCode}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	userID := middleware.GetUserID(r.Context())

	details, err := h.interviewSvc.GetInterview(r.Context(), roomCode, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"interview": InterviewView{
			ID:                details.Interview.ID,
			RoomCode:          details.Interview.RoomCode,
			StartAt:           details.Interview.StartAt,
			EndAt:             details.Interview.EndAt,
			Status:            string(details.Interview.Status),
			NumberOfQuestions: details.Interview.NumberOfQuestions,
			Job: JobView{
				ID:          details.Job.ID,
				Title:       details.Job.Title,
				Description: details.Job.Description,
			},
			IsActive: details.IsActive,
			UserRole: details.UserRole,
		},
	})
}

// GetMessages handles GET /v1/interviews/{roomCode}/messages
func (h *InterviewHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.interviewSvc.ListMessages(r.Context(), roomCode, userID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// GetHRSummaries handles GET /v1/interviews/hr/summaries
func (h *InterviewHandler) GetHRSummaries(w http.ResponseWriter, r *http.Request) {
	if middleware.GetRole(r.Context()) != model.RoleHR {
		writeError(w, http.StatusForbidden, "hr access required")
		return
	}
	hrID := middleware.GetUserID(r.Context())

	summaries, err := h.interviewSvc.ListHRSummaries(r.Context(), hrID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"total":     len(summaries),
	})
}
