package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hireloop/internal/cache"
	"hireloop/internal/model"
	"hireloop/internal/service"
	"hireloop/internal/store"
	"hireloop/internal/transport/ws"
)

// ---- fakes ----

type stubInterviewRepo struct {
	byRoomCode map[string]*model.Interview
}

func (r *stubInterviewRepo) GetByRoomCode(ctx context.Context, roomCode string) (*model.Interview, error) {
	return r.byRoomCode[roomCode], nil
}

func (r *stubInterviewRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	return nil
}

func (r *stubInterviewRepo) ListCompletedByJobIDs(ctx context.Context, jobIDs []string) ([]*model.Interview, error) {
	return nil, nil
}

type stubJobRepo struct {
	byID map[string]*model.Job
}

func (r *stubJobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return r.byID[id], nil
}

func (r *stubJobRepo) ListByHR(ctx context.Context, hrID string) ([]*model.Job, error) {
	return nil, nil
}

type stubScreeningRepo struct{}

func (r *stubScreeningRepo) GetLatestByApplication(ctx context.Context, applicationID string) (*model.Screening, error) {
	return nil, nil
}

type stubSummaryRepo struct{}

func (r *stubSummaryRepo) Create(ctx context.Context, summary *model.Summary) error { return nil }

func (r *stubSummaryRepo) ListByInterviewIDs(ctx context.Context, interviewIDs []string) ([]*model.Summary, error) {
	return nil, nil
}

type stubMessageRepo struct{}

func (r *stubMessageRepo) Create(ctx context.Context, message *model.TranscriptMessage) error {
	return nil
}

func (r *stubMessageRepo) ListByInterview(ctx context.Context, interviewID string, limit, offset int) ([]*model.TranscriptMessage, error) {
	return nil, nil
}

func (r *stubMessageRepo) Recent(ctx context.Context, interviewID string, limit int) ([]*model.TranscriptMessage, error) {
	return nil, nil
}

type stubAgent struct{}

func (a *stubAgent) InitializeInterview(ctx context.Context, req *service.InitializeAgentRequest) (*service.InitializeAgentResponse, error) {
	return &service.InitializeAgentResponse{
		FirstQuestion: "Tell me about yourself.",
		AllQuestions:  json.RawMessage(`{"questions":["a","b"]}`),
		Status:        "in_progress",
	}, nil
}

func (a *stubAgent) ContinueInterview(ctx context.Context, req *service.ContinueAgentRequest) (*service.ContinueAgentResponse, error) {
	return &service.ContinueAgentResponse{
		NextResponse:     "And a follow-up?",
		Status:           "in_progress",
		AnswerEvaluation: "Fine.",
	}, nil
}

// ---- setup ----

func newTestRouter(t *testing.T) http.Handler {
	t.Setenv("JWT_SECRET", "router-test-secret")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	interviewRepo := &stubInterviewRepo{byRoomCode: map[string]*model.Interview{
		"ROOM1": {
			ID:                "int-1",
			RoomCode:          "ROOM1",
			CandidateID:       "cand-1",
			JobID:             "job-1",
			ApplicationID:     "app-1",
			StartAt:           time.Now().Add(-time.Hour),
			EndAt:             time.Now().Add(time.Hour),
			NumberOfQuestions: 3,
			Status:            model.InterviewScheduled,
		},
	}}
	jobRepo := &stubJobRepo{byID: map[string]*model.Job{
		"job-1": {ID: "job-1", Title: "Backend Engineer", Description: "Build services.", HRID: "hr-1"},
	}}

	logger := zap.NewNop()
	messageRepo := &stubMessageRepo{}
	interviewSvc := service.NewInterviewService(
		interviewRepo, jobRepo, &stubScreeningRepo{}, &stubSummaryRepo{}, messageRepo,
		store.NewSessionStore(), &stubAgent{}, cache.NewInterviewCache(client), logger)
	authSvc := service.NewAuthService()

	hub := ws.NewHub(logger)
	wsHandler := ws.NewHandler(hub, authSvc, interviewSvc, messageRepo, logger)

	return NewRouter(&Container{
		AuthService:      authSvc,
		InterviewService: interviewSvc,
		WSHandler:        wsHandler,
	})
}

func bearerToken(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("router-test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(router http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestInterviewRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/interviews/ROOM1/initialize"},
		{http.MethodPost, "/v1/interviews/ROOM1/answer"},
		{http.MethodGet, "/v1/interviews/ROOM1/status"},
		{http.MethodGet, "/v1/interviews/ROOM1/messages"},
		{http.MethodGet, "/v1/interviews/ROOM1"},
		{http.MethodGet, "/v1/interviews/hr/summaries"},
	} {
		rec := doRequest(router, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestInitializeEndpoint(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/initialize", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Tell me about yourself.", body["first_question"])
	assert.Equal(t, "in_progress", body["interview_status"])
	assert.Equal(t, float64(1), body["current_question_number"])
}

func TestInitializeEndpointWrongUser(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "someone-else", model.RoleCandidate)

	rec := doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/initialize", auth, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInitializeEndpointUnknownRoom(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodPost, "/v1/interviews/NOPE/initialize", auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswerEndpoint(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/initialize", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/answer", auth,
		map[string]string{"answer": "I have 5 years of experience."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "And a follow-up?", body["next_question"])
	assert.Equal(t, float64(2), body["current_question_number"])
}

func TestAnswerEndpointEmptyAnswer(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/initialize", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/answer", auth,
		map[string]string{"answer": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnswerEndpointNoSession(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodPost, "/v1/interviews/ROOM1/answer", auth,
		map[string]string{"answer": "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpointUninitialized(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodGet, "/v1/interviews/ROOM1/status", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["initialized"])
}

func TestGetInterviewEndpoint(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "hr-1", model.RoleHR)

	rec := doRequest(router, http.MethodGet, "/v1/interviews/ROOM1", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Interview struct {
			RoomCode string `json:"room_code"`
			UserRole string `json:"user_role"`
			IsActive bool   `json:"is_active"`
			Job      struct {
				Title string `json:"title"`
			} `json:"job"`
		} `json:"interview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ROOM1", body.Interview.RoomCode)
	assert.Equal(t, "hr", body.Interview.UserRole)
	assert.True(t, body.Interview.IsActive)
	assert.Equal(t, "Backend Engineer", body.Interview.Job.Title)
}

func TestMessagesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "cand-1", model.RoleCandidate)

	rec := doRequest(router, http.MethodGet, "/v1/interviews/ROOM1/messages?limit=10", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "messages")
}

func TestHRSummariesRoleGate(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/v1/interviews/hr/summaries",
		bearerToken(t, "cand-1", model.RoleCandidate), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodGet, "/v1/interviews/hr/summaries",
		bearerToken(t, "hr-1", model.RoleHR), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["total"])
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/interviews/ROOM1/initialize", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
