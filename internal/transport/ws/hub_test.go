package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hireloop/internal/model"
)

func newTestConn(roomCode, userID string, role model.Role, buffer int) *Connection {
	return &Connection{
		RoomCode: roomCode,
		UserID:   userID,
		Role:     role,
		Send:     make(chan []byte, buffer),
	}
}

func recv(t *testing.T, conn *Connection) []byte {
	t.Helper()
	select {
	case data := <-conn.Send:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHubBroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())

	candidate := newTestConn("ROOM1", "cand-1", model.RoleCandidate, 8)
	hr := newTestConn("ROOM1", "hr-1", model.RoleHR, 8)
	other := newTestConn("ROOM2", "cand-2", model.RoleCandidate, 8)

	hub.Register(candidate)
	hub.Register(hr)
	hub.Register(other)

	hub.BroadcastMessage("ROOM1", &MessagePayload{
		Sender:    model.SenderCandidate,
		Content:   "hello",
		CreatedAt: time.Now().Format(time.RFC3339),
	})

	for _, conn := range []*Connection{candidate, hr} {
		var frame struct {
			Type    string         `json:"type"`
			Message MessagePayload `json:"message"`
		}
		require.NoError(t, json.Unmarshal(recv(t, conn), &frame))
		assert.Equal(t, FrameMessage, frame.Type)
		assert.Equal(t, model.SenderCandidate, frame.Message.Sender)
		assert.Equal(t, "hello", frame.Message.Content)
	}

	// The other room hears nothing.
	select {
	case data := <-other.Send:
		t.Fatalf("unexpected message in other room: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(zap.NewNop())

	conn := newTestConn("ROOM1", "cand-1", model.RoleCandidate, 8)
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, open := <-conn.Send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}

	// A broadcast after departure must not panic or block.
	hub.BroadcastMessage("ROOM1", &MessagePayload{Sender: model.SenderHR, Content: "late"})
}

func TestHubSlowConsumerDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())

	slow := newTestConn("ROOM1", "cand-1", model.RoleCandidate, 1)
	healthy := newTestConn("ROOM1", "hr-1", model.RoleHR, 8)
	hub.Register(slow)
	hub.Register(healthy)

	// The slow member's buffer holds one message; the rest are dropped for it
	// while the healthy member keeps receiving.
	for i := 0; i < 5; i++ {
		hub.BroadcastMessage("ROOM1", &MessagePayload{Sender: model.SenderAgent, Content: "q"})
	}

	for i := 0; i < 5; i++ {
		recv(t, healthy)
	}
	recv(t, slow)
	assert.Empty(t, slow.Send)
}
