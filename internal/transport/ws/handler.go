package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hireloop/internal/model"
	"hireloop/internal/repository"
	"hireloop/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	historyLimit = 50

	persistTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades transcript-channel connections and runs the frame
// protocol: an auth frame first, then chat message frames. Bad frames get an
// error frame back and the connection stays open.
type Handler struct {
	hub          *Hub
	authSvc      *service.AuthService
	interviewSvc *service.InterviewService
	messageRepo  repository.MessageRepo
	logger       *zap.Logger
}

// NewHandler creates a new transcript channel handler.
func NewHandler(hub *Hub, authSvc *service.AuthService, interviewSvc *service.InterviewService, messageRepo repository.MessageRepo, logger *zap.Logger) *Handler {
	return &Handler{
		hub:          hub,
		authSvc:      authSvc,
		interviewSvc: interviewSvc,
		messageRepo:  messageRepo,
		logger:       logger,
	}
}

// ServeWS handles GET /v1/ws/interviews. Authentication happens in-band via
// the first auth frame, not at upgrade time.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 256),
	}

	go h.writePump(wsConn, conn)
	h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	authenticated := false

	defer func() {
		if authenticated {
			h.hub.Unregister(conn)
		} else {
			close(conn.Send)
		}
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.sendError(conn, "invalid message format")
			continue
		}

		switch frame.Type {
		case FrameAuth:
			if authenticated {
				h.sendError(conn, "already authenticated")
				continue
			}
			if h.handleAuth(conn, &frame) {
				authenticated = true
			}

		case FrameMessage:
			if !authenticated {
				h.sendError(conn, "not authenticated")
				continue
			}
			h.handleMessage(conn, &frame)

		case FrameInterviewQuestion:
			if !authenticated {
				h.sendError(conn, "not authenticated")
				continue
			}
			h.handleInterviewQuestion(conn, &frame)

		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

// handleAuth validates the credential, authorizes the caller against the
// room, registers the connection, and replays recent history.
func (h *Handler) handleAuth(conn *Connection, frame *Frame) bool {
	claims, err := h.authSvc.ValidateToken(frame.Token)
	if err != nil {
		h.sendError(conn, "authentication failed")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	meta, role, err := h.interviewSvc.ResolveRoom(ctx, frame.RoomCode, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInterviewNotFound):
			h.sendError(conn, "interview not found")
		case errors.Is(err, service.ErrNotAuthorized):
			h.sendError(conn, "not authorized to access this interview")
		default:
			h.logger.Error("room resolution failed",
				zap.String("roomCode", frame.RoomCode),
				zap.Error(err))
			h.sendError(conn, "authentication failed")
		}
		return false
	}

	conn.RoomCode = frame.RoomCode
	conn.InterviewID = meta.InterviewID
	conn.UserID = claims.UserID
	conn.Role = role

	h.hub.Register(conn)

	h.send(conn, map[string]interface{}{
		"type":      FrameAuthSuccess,
		"user_role": role,
	})

	messages, err := h.messageRepo.Recent(ctx, meta.InterviewID, historyLimit)
	if err != nil {
		h.logger.Warn("history replay failed",
			zap.String("roomCode", frame.RoomCode),
			zap.Error(err))
		messages = nil
	}
	if messages == nil {
		messages = []*model.TranscriptMessage{}
	}
	h.send(conn, map[string]interface{}{
		"type":     FrameMessageHistory,
		"messages": messages,
	})

	return true
}

// handleMessage persists a candidate chat message and broadcasts it to the
// room. HR connections are observers; their message frames are rejected.
func (h *Handler) handleMessage(conn *Connection, frame *Frame) {
	if conn.Role != model.RoleCandidate {
		h.sendError(conn, "observers cannot send messages")
		return
	}
	if frame.Content == "" {
		h.sendError(conn, "message content is required")
		return
	}

	msg := &model.TranscriptMessage{
		InterviewID: conn.InterviewID,
		Sender:      model.SenderCandidate,
		Content:     frame.Content,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := h.messageRepo.Create(ctx, msg); err != nil {
		h.logger.Error("failed to store transcript message",
			zap.String("roomCode", conn.RoomCode),
			zap.Error(err))
		h.sendError(conn, "failed to send message")
		return
	}

	h.hub.BroadcastMessage(conn.RoomCode, &MessagePayload{
		Sender:    model.SenderCandidate,
		Content:   frame.Content,
		CreatedAt: msg.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// handleInterviewQuestion relays an agent question into the room so HR
// observers see it in the live transcript.
func (h *Handler) handleInterviewQuestion(conn *Connection, frame *Frame) {
	if frame.Question == "" {
		return
	}
	h.hub.BroadcastMessage(conn.RoomCode, &MessagePayload{
		Sender:    model.SenderAgent,
		Content:   frame.Question,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) send(conn *Connection, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case conn.Send <- data:
	default:
	}
}

func (h *Handler) sendError(conn *Connection, message string) {
	h.send(conn, map[string]string{
		"type":    FrameError,
		"message": message,
	})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
