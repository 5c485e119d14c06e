package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"travelbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockRepo) SetSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockRepo) ClearSession(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *mockRepo) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, chatID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverStateRepository(t *testing.T) {
	primary := new(mockRepo)
	fallback := new(mockRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverStateRepository(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		session := models.NewSession(1)
		primary.On("GetSession", ctx, int64(1)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		session := models.NewSession(2)
		primary.On("GetSession", ctx, int64(2)).Return(nil, errors.New("fail")).Once()
		fallback.On("GetSession", ctx, int64(2)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("NoRecoveryBeforeInterval", func(t *testing.T) {
		fallback.On("GetSession", ctx, int64(22)).Return(nil, nil).Once()

		_, err := repo.GetSession(ctx, 22)
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		session := models.NewSession(3)
		primary.On("GetSession", ctx, int64(3)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 3)
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("GetSession", ctx, int64(33)).Return(nil, errors.New("still fail")).Once()
		fallback.On("GetSession", ctx, int64(33)).Return(nil, nil).Once()

		_, err := repo.GetSession(ctx, 33)
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetSessionSuccess", func(t *testing.T) {
		repo.isDown.Store(false)
		session := models.NewSession(77)
		primary.On("SetSession", ctx, session).Return(nil).Once()

		assert.NoError(t, repo.SetSession(ctx, session))
		primary.AssertExpectations(t)
	})

	t.Run("ClearSessionSuccess", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("ClearSession", ctx, int64(88)).Return(nil).Once()

		assert.NoError(t, repo.ClearSession(ctx, 88))
		primary.AssertExpectations(t)
	})

	t.Run("CheckRateLimitSuccess", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, int64(99), 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, 99, 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertExpectations(t)
	})

	t.Run("SetSessionFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		session := models.NewSession(4)
		primary.On("SetSession", ctx, session).Return(errors.New("fail")).Once()
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		assert.NoError(t, repo.SetSession(ctx, session))
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("ClearSession", ctx, int64(5)).Return(errors.New("fail")).Once()
		fallback.On("ClearSession", ctx, int64(5)).Return(nil).Once()

		assert.NoError(t, repo.ClearSession(ctx, 5))
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("CheckRateLimitFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, int64(6), 10, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, int64(6), 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, 6, 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("AlreadyDownSkipsPrimary", func(t *testing.T) {
		repo.isDown.Store(true)
		session := models.NewSession(44)
		fallback.On("SetSession", ctx, session).Return(nil).Once()
		fallback.On("ClearSession", ctx, int64(55)).Return(nil).Once()
		fallback.On("CheckRateLimit", ctx, int64(66), 10, time.Minute).Return(true, nil).Once()

		assert.NoError(t, repo.SetSession(ctx, session))
		assert.NoError(t, repo.ClearSession(ctx, 55))
		allowed, err := repo.CheckRateLimit(ctx, 66, 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		fallback.AssertExpectations(t)
		primary.AssertExpectations(t)
	})
}
