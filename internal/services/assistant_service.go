package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/models"
)

const (
	// Context bounds for the assistant prompt.
	assistantCalcContext = 10
	assistantTurnContext = 5

	// DefaultHistoryLimit caps chat-history reads when no count is given.
	DefaultHistoryLimit = 50
)

// AssistantService answers natural-language questions about a session's
// stored calculations. It reads the ledger and conversation but never mutates
// calculation records; its only writes are the two chat turns per exchange.
type AssistantService struct {
	generator    TextGenerator
	ledger       LedgerStoreDB
	chat         ChatStoreDB
	sessions     SessionValidator
	limiter      Limiter
	turnLifetime time.Duration
	now          func() time.Time
}

func NewAssistantService(
	generator TextGenerator,
	ledger LedgerStoreDB,
	chat ChatStoreDB,
	sessions SessionValidator,
	limiter Limiter,
	turnLifetime time.Duration,
) *AssistantService {
	return &AssistantService{
		generator:    generator,
		ledger:       ledger,
		chat:         chat,
		sessions:     sessions,
		limiter:      limiter,
		turnLifetime: turnLifetime,
		now:          time.Now,
	}
}

// SetNowFunc overrides the clock, for deterministic tests.
func (s *AssistantService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Ask runs one exchange: gate on the session, pass the rate limiter, build
// the bounded context, call the model, persist both turns. A rate-limit
// rejection fails fast with the wait duration; nothing is queued.
func (s *AssistantService) Ask(ctx context.Context, sessionID, message string) (string, error) {
	if sessionID == "" {
		return "", apperrors.NewInvalidRequestError("session_id is required")
	}
	if strings.TrimSpace(message) == "" {
		return "", apperrors.NewInvalidRequestError("message is required")
	}
	valid, err := s.sessions.ValidateSession(sessionID)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", apperrors.NewSessionExpiredError()
	}
	if wait, ok := s.limiter.Allow(); !ok {
		return "", apperrors.NewRateLimitedError(wait)
	}

	calcs, err := s.ledger.RecentCalculationsDB(sessionID, assistantCalcContext)
	if err != nil {
		return "", apperrors.NewStorageFailureError(err)
	}
	turns, err := s.chat.RecentChatTurnsDB(sessionID, assistantTurnContext)
	if err != nil {
		return "", apperrors.NewStorageFailureError(err)
	}

	if err := s.saveTurn(sessionID, models.RoleUser, message); err != nil {
		return "", err
	}

	reply, err := s.generator.GenerateReply(ctx, s.buildPrompt(calcs, turns, message))
	if err != nil {
		return "", apperrors.NewUpstreamFailureError(err)
	}

	if err := s.saveTurn(sessionID, models.RoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the newest chat turns for a session, newest first.
func (s *AssistantService) History(sessionID string, limit int) ([]models.ChatTurn, error) {
	if sessionID == "" {
		return nil, apperrors.NewInvalidRequestError("session_id is required")
	}
	valid, err := s.sessions.ValidateSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, apperrors.NewSessionExpiredError()
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	turns, err := s.chat.RecentChatTurnsDB(sessionID, limit)
	if err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	return turns, nil
}

func (s *AssistantService) saveTurn(sessionID, role, message string) error {
	now := s.now()
	turn := &models.ChatTurn{
		SessionID: sessionID,
		Role:      role,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.turnLifetime),
	}
	if err := s.chat.SaveChatTurnDB(turn); err != nil {
		return apperrors.NewStorageFailureError(err)
	}
	return nil
}

// buildPrompt assembles the bounded context the model answers from. Stored
// totals already include markup, and the prompt says so explicitly so the
// model never re-applies it.
func (s *AssistantService) buildPrompt(calcs []models.Calculation, turns []models.ChatTurn, message string) string {
	var b strings.Builder
	b.WriteString("You are a helpful 3D printing cost assistant for small Filipino business owners.\n")
	b.WriteString("All costs are in Philippine pesos and already include the markup; never re-apply markup when quoting figures.\n")

	if len(calcs) > 0 {
		b.WriteString("\nRecent calculations (newest first):\n")
		for i, c := range calcs {
			fmt.Fprintf(&b, "#%d: Material=%s, Product=%s, Weight=%.0fg, Time=%.2fh, Cost=₱%.2f\n",
				i+1, c.Material, c.Product, c.WeightGrams,
				c.PrintHours+c.PrintMinutes/60, c.TotalCost)
		}
	}

	if len(turns) > 0 {
		b.WriteString("\nRecent conversation:\n")
		// Turns arrive newest first; replay them in spoken order.
		for i := len(turns) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "%s: %s\n", turns[i].Role, turns[i].Message)
		}
	}

	fmt.Fprintf(&b, "\nUser asks: %s", message)
	return b.String()
}
