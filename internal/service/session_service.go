package service

import (
	"context"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

// SessionService loads and stores the per-chat Session.
type SessionService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewSessionService(stateRepo domain.StateRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		stateRepo: stateRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// GetSession returns the stored session or a fresh Anonymous one.
func (s *SessionService) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	session, err := s.stateRepo.GetSession(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to get session")
		return nil, err
	}
	if session == nil {
		session = models.NewSession(chatID)
	}
	return session, nil
}

func (s *SessionService) SaveSession(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrNilSession
	}
	session.UpdatedAt = s.now()
	return s.stateRepo.SetSession(ctx, session)
}

// ResetSession drops whatever the chat had and stores a new Anonymous session.
func (s *SessionService) ResetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if err := s.stateRepo.ClearSession(ctx, chatID); err != nil {
		s.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to clear session")
	}
	session := models.NewSession(chatID)
	if err := s.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, chatID, limit, window)
}
