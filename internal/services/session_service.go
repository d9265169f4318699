package services

import (
	"errors"
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService mints and validates the anonymous session handles that scope
// all calculation and chat data. Expiry is enforced lazily on every lookup;
// the reaper only reclaims storage.
type SessionService struct {
	store    SessionStoreDB
	lifetime time.Duration
	now      func() time.Time
}

func NewSessionService(store SessionStoreDB, lifetime time.Duration) *SessionService {
	return &SessionService{
		store:    store,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// SetNowFunc overrides the clock, for deterministic tests.
func (s *SessionService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// CreateSession allocates a fresh session with a fixed lifetime. Sessions are
// never extended or deleted early.
func (s *SessionService) CreateSession() (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := s.store.CreateSessionDB(session); err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	return session, nil
}

// ValidateSession reports whether the session exists and has not expired. An
// empty ID is invalid without a storage lookup; an unknown ID is invalid, not
// an error. Only storage unavailability surfaces as an error.
func (s *SessionService) ValidateSession(sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	session, err := s.store.GetSessionDB(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.NewStorageFailureError(err)
	}
	return !session.Expired(s.now()), nil
}

// GetSession returns the session record when it is still valid, and the
// SessionExpired condition otherwise.
func (s *SessionService) GetSession(sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, apperrors.NewInvalidRequestError("session_id is required")
	}
	session, err := s.store.GetSessionDB(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewSessionExpiredError()
		}
		return nil, apperrors.NewStorageFailureError(err)
	}
	if session.Expired(s.now()) {
		return nil, apperrors.NewSessionExpiredError()
	}
	return session, nil
}
