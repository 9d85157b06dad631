package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireloop/internal/model"
)

func TestSessionStorePutGet(t *testing.T) {
	s := NewSessionStore()

	assert.Nil(t, s.Get("ROOM1"))
	assert.Equal(t, 0, s.Len())

	session := &model.InterviewSession{
		InterviewID:           "int-1",
		CandidateID:           "cand-1",
		CurrentQuestionNumber: 1,
	}
	s.Put("ROOM1", session)

	got := s.Get("ROOM1")
	require.NotNil(t, got)
	assert.Same(t, session, got)
	assert.Equal(t, 1, s.Len())

	assert.Nil(t, s.Get("ROOM2"))
}

func TestSessionStoreLockSerializesPerRoom(t *testing.T) {
	s := NewSessionStore()
	s.Put("ROOM1", &model.InterviewSession{})

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock("ROOM1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestSessionStoreLockIndependentRooms(t *testing.T) {
	s := NewSessionStore()

	unlock1 := s.Lock("ROOM1")
	defer unlock1()

	// A different room must not be blocked by ROOM1's lock.
	done := make(chan struct{})
	go func() {
		unlock2 := s.Lock("ROOM2")
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on ROOM2 blocked by ROOM1")
	}
}
