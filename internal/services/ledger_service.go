package services

import (
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/models"
)

// DefaultRecentLimit is how many records a history query returns when the
// caller does not ask for a specific count.
const DefaultRecentLimit = 10

// LedgerService owns the append-only calculation history. Every operation,
// read or write, gates on session validity. A session can expire between the
// validity check and the write; that race is accepted, the orphaned record is
// unreachable through the same gate.
type LedgerService struct {
	store    LedgerStoreDB
	sessions SessionValidator
	lifetime time.Duration
	now      func() time.Time
}

func NewLedgerService(store LedgerStoreDB, sessions SessionValidator, lifetime time.Duration) *LedgerService {
	return &LedgerService{
		store:    store,
		sessions: sessions,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// SetNowFunc overrides the clock, for deterministic tests.
func (s *LedgerService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// AppendCalculation computes the total cost from the raw inputs and persists
// the record. The returned record carries the server-computed total.
func (s *LedgerService) AppendCalculation(sessionID string, inputs CostInputs) (*models.Calculation, error) {
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

	now := s.now()
	calc := &models.Calculation{
		SessionID:       sessionID,
		Material:        inputs.Material,
		Product:         inputs.Product,
		PricePerSpool:   float64(inputs.PricePerSpool),
		WeightGrams:     float64(inputs.WeightGrams),
		PrintHours:      float64(inputs.PrintHours),
		PrintMinutes:    float64(inputs.PrintMinutes),
		ElectricityCost: float64(inputs.ElectricityCost),
		MarkupPercent:   float64(inputs.MarkupPercent),
		TotalCost:       ComputeTotalCost(inputs),
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.lifetime),
	}
	if err := s.store.CreateCalculationDB(calc); err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	return calc, nil
}

// RecentCalculations returns the newest records for a session, newest first.
// An empty history is an empty slice, not an error.
func (s *LedgerService) RecentCalculations(sessionID string, limit int) ([]models.Calculation, error) {
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
		limit = DefaultRecentLimit
	}
	calcs, err := s.store.RecentCalculationsDB(sessionID, limit)
	if err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	return calcs, nil
}
