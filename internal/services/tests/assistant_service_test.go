package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/models"
	"printcost_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	turnLifetime := 24 * time.Hour
	sessionID := uuid.New().String()
	ctx := context.Background()

	newService := func(
		generator *MockTextGenerator,
		ledger *MockLedgerStoreDB,
		chat *MockChatStoreDB,
		validator *MockSessionValidator,
		limiter services.Limiter,
	) *services.AssistantService {
		return services.NewAssistantService(generator, ledger, chat, validator, limiter, turnLifetime)
	}

	alwaysAllow := func() *MockLimiter {
		limiter := new(MockLimiter)
		limiter.On("Allow").Return(time.Duration(0), true)
		return limiter
	}

	t.Run("Successful Exchange Saves Both Turns", func(t *testing.T) {
		mockGenerator := new(MockTextGenerator)
		mockLedger := new(MockLedgerStoreDB)
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)
		assistantService := newService(mockGenerator, mockLedger, mockChat, mockValidator, alwaysAllow())

		mockValidator.On("ValidateSession", sessionID).Return(true, nil).Once()
		mockLedger.On("RecentCalculationsDB", sessionID, 10).Return([]models.Calculation{
			{SessionID: sessionID, Material: "PLA", Product: "Coaster", WeightGrams: 100, PrintHours: 1, TotalCost: 153},
		}, nil).Once()
		mockChat.On("RecentChatTurnsDB", sessionID, 5).Return([]models.ChatTurn{}, nil).Once()
		mockGenerator.On("GenerateReply", mock.Anything, mock.AnythingOfType("string")).
			Return("Your coaster costs around 153 pesos.", nil).Once()

		var savedRoles []string
		mockChat.On("SaveChatTurnDB", mock.AnythingOfType("*models.ChatTurn")).
			Run(func(args mock.Arguments) {
				savedRoles = append(savedRoles, args.Get(0).(*models.ChatTurn).Role)
			}).Return(nil).Twice()

		reply, err := assistantService.Ask(ctx, sessionID, "How much was my last print?")

		require.NoError(t, err)
		assert.Equal(t, "Your coaster costs around 153 pesos.", reply)
		assert.Equal(t, []string{models.RoleUser, models.RoleAssistant}, savedRoles)
		mockGenerator.AssertExpectations(t)
		mockChat.AssertExpectations(t)
	})

	t.Run("Prompt Contains Bounded Context", func(t *testing.T) {
		mockGenerator := new(MockTextGenerator)
		mockLedger := new(MockLedgerStoreDB)
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)
		assistantService := newService(mockGenerator, mockLedger, mockChat, mockValidator, alwaysAllow())

		mockValidator.On("ValidateSession", sessionID).Return(true, nil).Once()
		mockLedger.On("RecentCalculationsDB", sessionID, 10).Return([]models.Calculation{
			{Material: "PLA", Product: "Keychain", WeightGrams: 15, PrintHours: 0, PrintMinutes: 45, TotalCost: 75.5},
		}, nil).Once()
		mockChat.On("RecentChatTurnsDB", sessionID, 5).Return([]models.ChatTurn{
			{Role: models.RoleAssistant, Message: "Hello!"},
			{Role: models.RoleUser, Message: "Hi"},
		}, nil).Once()
		mockChat.On("SaveChatTurnDB", mock.Anything).Return(nil).Twice()

		var prompt string
		mockGenerator.On("GenerateReply", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				prompt = args.String(1)
			}).Return("ok", nil).Once()

		_, err := assistantService.Ask(ctx, sessionID, "What did the keychain cost?")

		require.NoError(t, err)
		assert.Contains(t, prompt, "3D printing cost assistant")
		assert.Contains(t, prompt, "Material=PLA")
		assert.Contains(t, prompt, "Cost=₱75.50")
		assert.Contains(t, prompt, "User asks: What did the keychain cost?")
		// Conversation replays in spoken order
		assert.Less(t, strings.Index(prompt, "user: Hi"), strings.Index(prompt, "assistant: Hello!"))
		// The markup-inclusive contract is stated, never re-derived
		assert.Contains(t, prompt, "never re-apply markup")
	})

	t.Run("Rate Limited Fails Fast With Wait", func(t *testing.T) {
		mockGenerator := new(MockTextGenerator)
		mockLedger := new(MockLedgerStoreDB)
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)

		limiter := services.NewIntervalLimiter(2 * time.Second)
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		current := base
		limiter.SetNowFunc(func() time.Time { return current })

		assistantService := newService(mockGenerator, mockLedger, mockChat, mockValidator, limiter)

		mockValidator.On("ValidateSession", sessionID).Return(true, nil)
		mockLedger.On("RecentCalculationsDB", sessionID, 10).Return([]models.Calculation{}, nil)
		mockChat.On("RecentChatTurnsDB", sessionID, 5).Return([]models.ChatTurn{}, nil)
		mockChat.On("SaveChatTurnDB", mock.Anything).Return(nil)
		mockGenerator.On("GenerateReply", mock.Anything, mock.Anything).Return("ok", nil)

		_, err := assistantService.Ask(ctx, sessionID, "first")
		require.NoError(t, err)

		current = base.Add(500 * time.Millisecond)
		_, err = assistantService.Ask(ctx, sessionID, "second")

		require.Error(t, err)
		customErr := err.(*apperrors.CustomError)
		assert.Equal(t, apperrors.ErrorTypeRateLimited, customErr.Type)
		assert.Equal(t, 1500*time.Millisecond, customErr.RetryAfter)

		// After the interval elapses the next call succeeds
		current = base.Add(2 * time.Second)
		_, err = assistantService.Ask(ctx, sessionID, "third")
		assert.NoError(t, err)
	})

	t.Run("Expired Session Never Reaches The Model", func(t *testing.T) {
		mockGenerator := new(MockTextGenerator)
		mockLedger := new(MockLedgerStoreDB)
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)
		limiter := new(MockLimiter)
		assistantService := newService(mockGenerator, mockLedger, mockChat, mockValidator, limiter)

		mockValidator.On("ValidateSession", sessionID).Return(false, nil).Once()

		_, err := assistantService.Ask(ctx, sessionID, "hello")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSessionExpired))
		limiter.AssertNotCalled(t, "Allow")
		mockGenerator.AssertNotCalled(t, "GenerateReply", mock.Anything, mock.Anything)
		mockChat.AssertNotCalled(t, "SaveChatTurnDB", mock.Anything)
	})

	t.Run("Empty Message Is InvalidRequest", func(t *testing.T) {
		mockValidator := new(MockSessionValidator)
		assistantService := newService(new(MockTextGenerator), new(MockLedgerStoreDB), new(MockChatStoreDB), mockValidator, new(MockLimiter))

		_, err := assistantService.Ask(ctx, sessionID, "   ")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest))
		mockValidator.AssertNotCalled(t, "ValidateSession", mock.Anything)
	})

	t.Run("Generator Failure Is UpstreamFailure", func(t *testing.T) {
		mockGenerator := new(MockTextGenerator)
		mockLedger := new(MockLedgerStoreDB)
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)
		assistantService := newService(mockGenerator, mockLedger, mockChat, mockValidator, alwaysAllow())

		mockValidator.On("ValidateSession", sessionID).Return(true, nil).Once()
		mockLedger.On("RecentCalculationsDB", sessionID, 10).Return([]models.Calculation{}, nil).Once()
		mockChat.On("RecentChatTurnsDB", sessionID, 5).Return([]models.ChatTurn{}, nil).Once()
		mockChat.On("SaveChatTurnDB", mock.Anything).Return(nil).Once()
		mockGenerator.On("GenerateReply", mock.Anything, mock.Anything).Return("", assert.AnError).Once()

		_, err := assistantService.Ask(ctx, sessionID, "hello")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstreamFailure))
		// Only the user turn was persisted
		mockChat.AssertNumberOfCalls(t, "SaveChatTurnDB", 1)
	})
}

func TestChatHistory(t *testing.T) {
	sessionID := uuid.New().String()

	t.Run("Gates On Session Validity", func(t *testing.T) {
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)
		assistantService := services.NewAssistantService(
			new(MockTextGenerator), new(MockLedgerStoreDB), mockChat, mockValidator, new(MockLimiter), time.Hour)

		mockValidator.On("ValidateSession", sessionID).Return(false, nil).Once()

		turns, err := assistantService.History(sessionID, 0)

		assert.Nil(t, turns)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSessionExpired))
		mockChat.AssertNotCalled(t, "RecentChatTurnsDB", mock.Anything, mock.Anything)
	})

	t.Run("Defaults The Limit", func(t *testing.T) {
		mockChat := new(MockChatStoreDB)
		mockValidator := new(MockSessionValidator)
		assistantService := services.NewAssistantService(
			new(MockTextGenerator), new(MockLedgerStoreDB), mockChat, mockValidator, new(MockLimiter), time.Hour)

		mockValidator.On("ValidateSession", sessionID).Return(true, nil).Once()
		mockChat.On("RecentChatTurnsDB", sessionID, services.DefaultHistoryLimit).
			Return([]models.ChatTurn{}, nil).Once()

		turns, err := assistantService.History(sessionID, 0)

		require.NoError(t, err)
		assert.Empty(t, turns)
		mockChat.AssertExpectations(t)
	})
}
