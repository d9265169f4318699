package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message in a session's conversation with the assistant.
type ChatTurn struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	SessionID string    `gorm:"type:uuid;index" json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
