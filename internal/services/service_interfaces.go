package services

import (
	"context"
	"time"

	"printcost_go_backend/internal/models"
)

type SessionStoreDB interface {
	CreateSessionDB(session *models.Session) error
	GetSessionDB(sessionID string) (*models.Session, error)
	DeleteExpiredSessionsDB(now time.Time) (int64, error)
}

type LedgerStoreDB interface {
	CreateCalculationDB(calc *models.Calculation) error
	RecentCalculationsDB(sessionID string, limit int) ([]models.Calculation, error)
	AllCalculationsDB(sessionID string) ([]models.Calculation, error)
	DeleteExpiredCalculationsDB(now time.Time) (int64, error)
}

type ChatStoreDB interface {
	SaveChatTurnDB(turn *models.ChatTurn) error
	RecentChatTurnsDB(sessionID string, limit int) ([]models.ChatTurn, error)
	DeleteExpiredChatTurnsDB(now time.Time) (int64, error)
}

// SessionValidator is the gate every ledger and chat operation passes through.
type SessionValidator interface {
	ValidateSession(sessionID string) (bool, error)
}

// TextGenerator abstracts the generative-text backend used by the assistant.
type TextGenerator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

// Limiter admits or rejects a call. When a call is rejected the returned
// duration is how long the caller must wait before retrying.
type Limiter interface {
	Allow() (time.Duration, bool)
}
