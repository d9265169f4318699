package services

import (
	"time"

	"printcost_go_backend/internal/models"

	"gorm.io/gorm"
)

type DefaultLedgerStore struct {
	db *gorm.DB
}

func NewLedgerStoreDB(db *gorm.DB) LedgerStoreDB {
	return &DefaultLedgerStore{db: db}
}

func (s *DefaultLedgerStore) CreateCalculationDB(calc *models.Calculation) error {
	return s.db.Create(calc).Error
}

// RecentCalculationsDB returns up to limit records for one session, newest
// first. ID breaks ties between records created in the same instant.
func (s *DefaultLedgerStore) RecentCalculationsDB(sessionID string, limit int) ([]models.Calculation, error) {
	var calcs []models.Calculation
	result := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&calcs)
	if result.Error != nil {
		return nil, result.Error
	}
	return calcs, nil
}

// AllCalculationsDB returns a session's full retained history, oldest first,
// the order export renders it in.
func (s *DefaultLedgerStore) AllCalculationsDB(sessionID string) ([]models.Calculation, error) {
	var calcs []models.Calculation
	result := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&calcs)
	if result.Error != nil {
		return nil, result.Error
	}
	return calcs, nil
}

func (s *DefaultLedgerStore) DeleteExpiredCalculationsDB(now time.Time) (int64, error) {
	result := s.db.Where("expires_at <= ?", now).Delete(&models.Calculation{})
	return result.RowsAffected, result.Error
}
