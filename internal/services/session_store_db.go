package services

import (
	"time"

	"printcost_go_backend/internal/models"

	"gorm.io/gorm"
)

type DefaultSessionStore struct {
	db *gorm.DB
}

func NewSessionStoreDB(db *gorm.DB) SessionStoreDB {
	return &DefaultSessionStore{db: db}
}

func (s *DefaultSessionStore) CreateSessionDB(session *models.Session) error {
	return s.db.Create(session).Error
}

func (s *DefaultSessionStore) GetSessionDB(sessionID string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *DefaultSessionStore) DeleteExpiredSessionsDB(now time.Time) (int64, error) {
	result := s.db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
