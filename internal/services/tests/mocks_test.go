package services_test

import (
	"context"
	"time"

	"printcost_go_backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockSessionStoreDB struct {
	mock.Mock
}

func (m *MockSessionStoreDB) CreateSessionDB(session *models.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionStoreDB) GetSessionDB(sessionID string) (*models.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStoreDB) DeleteExpiredSessionsDB(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type MockLedgerStoreDB struct {
	mock.Mock
}

func (m *MockLedgerStoreDB) CreateCalculationDB(calc *models.Calculation) error {
	args := m.Called(calc)
	return args.Error(0)
}

func (m *MockLedgerStoreDB) RecentCalculationsDB(sessionID string, limit int) ([]models.Calculation, error) {
	args := m.Called(sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Calculation), args.Error(1)
}

func (m *MockLedgerStoreDB) AllCalculationsDB(sessionID string) ([]models.Calculation, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Calculation), args.Error(1)
}

func (m *MockLedgerStoreDB) DeleteExpiredCalculationsDB(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type MockChatStoreDB struct {
	mock.Mock
}

func (m *MockChatStoreDB) SaveChatTurnDB(turn *models.ChatTurn) error {
	args := m.Called(turn)
	return args.Error(0)
}

func (m *MockChatStoreDB) RecentChatTurnsDB(sessionID string, limit int) ([]models.ChatTurn, error) {
	args := m.Called(sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatTurn), args.Error(1)
}

func (m *MockChatStoreDB) DeleteExpiredChatTurnsDB(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type MockSessionValidator struct {
	mock.Mock
}

func (m *MockSessionValidator) ValidateSession(sessionID string) (bool, error) {
	args := m.Called(sessionID)
	return args.Bool(0), args.Error(1)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateReply(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow() (time.Duration, bool) {
	args := m.Called()
	return args.Get(0).(time.Duration), args.Bool(1)
}
