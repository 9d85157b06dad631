package store

import (
	"sync"

	"hireloop/internal/model"
)

// SessionStore is the process-wide registry of in-memory interview sessions,
// keyed by room code. Sessions are created once per room and live until the
// process exits; a restart loses in-flight sessions and candidates are asked
// to refresh.
//
// In addition to the shared map lock it hands out one mutex per room so that
// callers can serialize initialize/answer turns for a single room without
// blocking other rooms.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.InterviewSession

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*model.InterviewSession),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Lock acquires the per-room mutex and returns its unlock function.
// Room mutexes are never removed; the room space is small and bounded by
// scheduled interviews.
func (s *SessionStore) Lock(roomCode string) func() {
	s.lockMu.Lock()
	m, ok := s.locks[roomCode]
	if !ok {
		m = &sync.Mutex{}
		s.locks[roomCode] = m
	}
	s.lockMu.Unlock()

	m.Lock()
	return m.Unlock
}

// Get returns the session for a room, or nil if none exists.
func (s *SessionStore) Get(roomCode string) *model.InterviewSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[roomCode]
}

// Put stores the session for a room.
func (s *SessionStore) Put(roomCode string, session *model.InterviewSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[roomCode] = session
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
