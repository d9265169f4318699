package services

import (
	"time"

	"printcost_go_backend/internal/models"

	"gorm.io/gorm"
)

type DefaultChatStore struct {
	db *gorm.DB
}

func NewChatStoreDB(db *gorm.DB) ChatStoreDB {
	return &DefaultChatStore{db: db}
}

func (s *DefaultChatStore) SaveChatTurnDB(turn *models.ChatTurn) error {
	return s.db.Create(turn).Error
}

// RecentChatTurnsDB returns up to limit turns for one session, newest first.
func (s *DefaultChatStore) RecentChatTurnsDB(sessionID string, limit int) ([]models.ChatTurn, error) {
	var turns []models.ChatTurn
	result := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&turns)
	if result.Error != nil {
		return nil, result.Error
	}
	return turns, nil
}

func (s *DefaultChatStore) DeleteExpiredChatTurnsDB(now time.Time) (int64, error) {
	result := s.db.Where("expires_at <= ?", now).Delete(&models.ChatTurn{})
	return result.RowsAffected, result.Error
}
