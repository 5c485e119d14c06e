package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverStateRepository sends calls to primary until it fails, then to
// fallback. The primary is retried on reads once recoveryInterval has passed.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverStateRepository) recoveryDue() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > recoveryInterval
}

func (r *FailoverStateRepository) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	} else if r.recoveryDue() {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			r.isDown.Store(false)
			r.logger.Info().Msg("Primary state repository recovered")
			return session, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetSession(ctx, chatID)
}

func (r *FailoverStateRepository) SetSession(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverStateRepository) ClearSession(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, chatID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearSession(ctx, chatID)
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, chatID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, chatID, limit, window)
}
