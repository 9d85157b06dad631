package service

import "errors"

var (
	// ErrInterviewNotFound means no durable interview exists for the room code.
	ErrInterviewNotFound = errors.New("interview not found")

	// ErrSessionNotFound means no in-memory session exists for the room code.
	// Sessions do not survive a restart, so the client is told to refresh.
	ErrSessionNotFound = errors.New("interview session not found, please refresh and try again")

	// ErrNotAuthorized means the caller is neither the candidate nor the owning HR.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrEmptyAnswer means the submitted answer was empty or whitespace.
	ErrEmptyAnswer = errors.New("answer is required")

	// ErrInterviewComplete means the session already reached its terminal state.
	ErrInterviewComplete = errors.New("interview has already been completed")

	// ErrAgentTimeout means the external agent call exceeded its deadline.
	// The caller may retry; this service never retries on its own.
	ErrAgentTimeout = errors.New("interview agent timed out")

	// ErrAgent means the external agent failed or returned an unusable response.
	ErrAgent = errors.New("interview agent error")

	// ErrInvalidToken means the presented credential failed validation.
	ErrInvalidToken = errors.New("invalid or expired token")
)
