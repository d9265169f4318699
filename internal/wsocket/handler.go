package wsocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/services"

	"github.com/gorilla/websocket"
)

type Handler struct {
	assistantService     *services.AssistantService
	sessionService       *services.SessionService
	upgrader             websocket.Upgrader
	sessionCheckInterval time.Duration
}

type Message struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	SessionID string `json:"sessionId"`
}

func NewHandler(
	assistantService *services.AssistantService,
	sessionService *services.SessionService,
	upgrader websocket.Upgrader,
	sessionCheckInterval time.Duration,
) *Handler {
	return &Handler{
		assistantService:     assistantService,
		sessionService:       sessionService,
		upgrader:             upgrader,
		sessionCheckInterval: sessionCheckInterval,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "No sessionId provided", http.StatusBadRequest)
		return
	}
	if _, err := h.sessionService.GetSession(sessionID); err != nil {
		http.Error(w, "Session expired or invalid", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.watchSession(ctx, conn, sessionID, cancel)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		switch msg.Type {
		case "message":
			h.handleChatMessage(ctx, conn, sessionID, msg)
		default:
			log.Printf("Unknown message type: %s", msg.Type)
		}
	}
}

// watchSession pings the client with the session status and announces expiry
// once, then tears the connection down.
func (h *Handler) watchSession(ctx context.Context, conn *websocket.Conn, sessionID string, cancel context.CancelFunc) {
	ticker := time.NewTicker(h.sessionCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			session, err := h.sessionService.GetSession(sessionID)
			if err != nil {
				if err := conn.WriteJSON(Message{
					Type:      "expired",
					Content:   "Your session has expired.",
					SessionID: sessionID,
				}); err != nil {
					log.Printf("Error sending expiration message: %v", err)
				}
				cancel()
				conn.Close()
				return
			}
			remaining := time.Until(session.ExpiresAt)
			if err := conn.WriteJSON(Message{
				Type:      "session_status",
				Content:   fmt.Sprintf(`{"remainingSeconds": %.0f}`, remaining.Seconds()),
				SessionID: sessionID,
			}); err != nil {
				log.Printf("Error sending session status: %v", err)
				return
			}
		}
	}
}

func (h *Handler) handleChatMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg Message) {
	reply, err := h.assistantService.Ask(ctx, sessionID, msg.Content)
	if err != nil {
		msgType := "error"
		if apperrors.IsType(err, apperrors.ErrorTypeRateLimited) {
			msgType = "rate_limited"
		}
		if err := conn.WriteJSON(Message{
			Type:      msgType,
			Content:   err.Error(),
			SessionID: sessionID,
		}); err != nil {
			log.Printf("Error sending error message: %v", err)
		}
		return
	}

	if err := conn.WriteJSON(Message{
		Type:      "assistant",
		Content:   reply,
		SessionID: sessionID,
	}); err != nil {
		log.Printf("Error sending assistant reply: %v", err)
	}
}
