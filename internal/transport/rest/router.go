package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"hireloop/internal/service"
	"hireloop/internal/transport/rest/handler"
	"hireloop/internal/transport/rest/middleware"
	"hireloop/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	AuthService      *service.AuthService
	InterviewService *service.InterviewService
	WSHandler        *ws.Handler
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket transcript channel (auth happens in-band via the first frame)
	v1.HandleFunc("/ws/interviews", c.WSHandler.ServeWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Interview routes (require a valid user token)
	interviews := v1.NewRoute().Subrouter()
	interviews.Use(authMW.RequireUser)

	// The literal hr path must register before the {roomCode} variable route.
	interviews.HandleFunc("/interviews/hr/summaries", interviewHandler.GetHRSummaries).Methods("GET", "OPTIONS")
	interviews.HandleFunc("/interviews/{roomCode}", interviewHandler.Get).Methods("GET", "OPTIONS")
	interviews.HandleFunc("/interviews/{roomCode}/initialize", interviewHandler.Initialize).Methods("POST", "OPTIONS")
	interviews.HandleFunc("/interviews/{roomCode}/answer", interviewHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	interviews.HandleFunc("/interviews/{roomCode}/status", interviewHandler.GetStatus).Methods("GET", "OPTIONS")
	interviews.HandleFunc("/interviews/{roomCode}/messages", interviewHandler.GetMessages).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
