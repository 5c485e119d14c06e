package domain

import (
	"context"
	"time"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BookingStore is the relational sink plus the read-only reference tables.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	CountBookings(ctx context.Context) (int, error)
	ListCities(ctx context.Context) ([]models.City, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
}

// FileSink is the flat-file mirror of the bookings table.
type FileSink interface {
	Append(booking *models.Booking) error
}

type StateRepository interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// CredentialChecker decides whether a login pair is accepted.
type CredentialChecker interface {
	Check(username, password string) bool
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, name string, data []byte, caption string) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// SaveResult reports the outcome of each sink separately.
type SaveResult struct {
	BookingID int64
	DBErr     error
	FileErr   error
}

type BookingService interface {
	Save(ctx context.Context, booking *models.Booking) (SaveResult, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	CountBookings(ctx context.Context) (int, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListCities(ctx context.Context) ([]models.City, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	StoreAvailable() bool
}

type SessionManager interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ResetSession(ctx context.Context, chatID int64) (*models.Session, error)
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type SessionGate interface {
	Login(session *models.Session, username, password string) error
	Register(session *models.Session, username, password, confirm string) error
}
