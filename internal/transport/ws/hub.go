package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"hireloop/internal/model"
)

// Frame types exchanged over the transcript channel.
const (
	// client -> server
	FrameAuth              = "auth"
	FrameMessage           = "message"
	FrameInterviewQuestion = "interview_question"

	// server -> client
	FrameAuthSuccess    = "auth_success"
	FrameMessageHistory = "message_history"
	FrameError          = "error"
)

// Frame is the JSON envelope for both directions. Unused fields stay empty.
type Frame struct {
	Type     string `json:"type"`
	Token    string `json:"token,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
	Content  string `json:"content,omitempty"`
	Question string `json:"question,omitempty"`
}

// MessagePayload is the server->client body for a single transcript message.
type MessagePayload struct {
	Sender    model.Sender `json:"sender"`
	Content   string       `json:"content"`
	CreatedAt string       `json:"created_at"`
}

// Hub manages transcript-channel connections per interview room. Broadcasts
// are best-effort: a slow or dead consumer is skipped, never awaited.
type Hub struct {
	rooms map[string]map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *roomMessage

	logger *zap.Logger
}

// Connection is one authenticated transcript-channel member. ID is assigned
// at upgrade time and only used to correlate log lines.
type Connection struct {
	ID          string
	RoomCode    string
	InterviewID string
	UserID      string
	Role        model.Role
	Send        chan []byte
}

type roomMessage struct {
	roomCode string
	data     []byte
}

// NewHub creates the hub and starts its coordination loop.
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		rooms:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *roomMessage, 256),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			if h.rooms[conn.RoomCode] == nil {
				h.rooms[conn.RoomCode] = make(map[*Connection]bool)
			}
			h.rooms[conn.RoomCode][conn] = true
			h.logger.Info("transcript channel joined",
				zap.String("connId", conn.ID),
				zap.String("roomCode", conn.RoomCode),
				zap.String("userId", conn.UserID),
				zap.String("role", string(conn.Role)))

		case conn := <-h.unregister:
			if members, ok := h.rooms[conn.RoomCode]; ok {
				if members[conn] {
					delete(members, conn)
					close(conn.Send)
					if len(members) == 0 {
						delete(h.rooms, conn.RoomCode)
					}
					h.logger.Info("transcript channel left",
						zap.String("connId", conn.ID),
						zap.String("roomCode", conn.RoomCode),
						zap.String("userId", conn.UserID))
				}
			}

		case msg := <-h.broadcast:
			for conn := range h.rooms[msg.roomCode] {
				select {
				case conn.Send <- msg.data:
				default:
					// Drop for this member if its buffer is full
				}
			}
		}
	}
}

// Register adds an authenticated connection to its room.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from its room.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastMessage sends a transcript message to every member of a room.
func (h *Hub) BroadcastMessage(roomCode string, payload *MessagePayload) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    FrameMessage,
		"message": payload,
	})
	if err != nil {
		return
	}
	h.broadcast <- &roomMessage{roomCode: roomCode, data: data}
}
