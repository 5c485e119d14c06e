package service

import (
	"crypto/subtle"

	"travelbook/internal/config"
	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

// StaticCredentials accepts exactly one configured pair.
type StaticCredentials struct {
	Username string
	Password string
}

func NewStaticCredentials(cfg config.AuthConfig) StaticCredentials {
	return StaticCredentials{Username: cfg.Username, Password: cfg.Password}
}

func (c StaticCredentials) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}

// SessionGateService moves a session from Anonymous to Authenticated. There
// is no reverse transition; a new session starts Anonymous.
type SessionGateService struct {
	credentials domain.CredentialChecker
	eventBus    domain.EventPublisher
	logger      *zerolog.Logger
}

func NewSessionGateService(credentials domain.CredentialChecker, eventBus domain.EventPublisher, logger *zerolog.Logger) *SessionGateService {
	return &SessionGateService{
		credentials: credentials,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Login authenticates the session when the pair matches. On mismatch the
// session is left untouched.
func (g *SessionGateService) Login(session *models.Session, username, password string) error {
	if session == nil {
		return ErrNilSession
	}
	if g.credentials == nil || !g.credentials.Check(username, password) {
		g.logger.Info().Int64("chat_id", session.ChatID).Msg("login rejected")
		return ErrInvalidCredentials
	}

	g.authenticate(session, username, "login")
	return nil
}

// Register authenticates the session whenever password equals confirm.
// Nothing is stored and usernames are not checked for uniqueness.
func (g *SessionGateService) Register(session *models.Session, username, password, confirm string) error {
	if session == nil {
		return ErrNilSession
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	g.authenticate(session, username, "register")
	return nil
}

func (g *SessionGateService) authenticate(session *models.Session, username, method string) {
	session.Authenticated = true
	session.Username = username
	session.ClearPending()

	g.logger.Info().Int64("chat_id", session.ChatID).Str("method", method).Msg("session authenticated")

	if g.eventBus == nil {
		return
	}
	payload := events.SessionEventPayload{ChatID: session.ChatID, Username: username, Method: method}
	if err := g.eventBus.PublishJSON(events.EventSessionLoggedIn, payload); err != nil {
		g.logger.Error().Err(err).Msg("publish session event error")
	}
}
