package bot

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/export"
	"travelbook/internal/models"
	"travelbook/internal/repository"
	"travelbook/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type sentDocument struct {
	chatID int64
	name   string
	data   []byte
}

type mockTelegramService struct {
	domain.TelegramService
	mu          sync.Mutex
	updatesChan chan tgbotapi.Update
	texts       []string
	deleted     int
	documents   []sentDocument
}

func (m *mockTelegramService) record(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
}

func (m *mockTelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockTelegramService) StopReceivingUpdates() {}

func (m *mockTelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.record(msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if _, ok := c.(tgbotapi.DeleteMessageConfig); ok {
		m.mu.Lock()
		m.deleted++
		m.mu.Unlock()
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockTelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	m.record(text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	m.record(text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	m.record(text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	m.record(text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendDocument(chatID int64, name string, data []byte, caption string) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, sentDocument{chatID: chatID, name: name, data: data})
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) AnswerCallback(callbackID, text string) error {
	return nil
}

func (m *mockTelegramService) allTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

func (m *mockTelegramService) lastText() string {
	texts := m.allTexts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (m *mockTelegramService) sawText(substr string) bool {
	for _, text := range m.allTexts() {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func (m *mockTelegramService) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = nil
}

type testMocks struct {
	tg       *mockTelegramService
	db       *database.DB
	csvPath  string
	sessions *service.SessionService
}

type testOption func(cfg *config.Config, withDB *bool)

func withAdminAuth() testOption {
	return func(cfg *config.Config, _ *bool) { cfg.Bot.AdminRequiresAuth = true }
}

func withoutDB() testOption {
	return func(_ *config.Config, withDB *bool) { *withDB = false }
}

func setupTestBot(t *testing.T, opts ...testOption) (*Bot, *testMocks) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	dir := t.TempDir()

	cfg := &config.Config{
		Telegram: config.TelegramConfig{BotToken: "test"},
		Auth:     config.AuthConfig{Username: "user", Password: "password"},
		Exports:  config.ExportConfig{Path: filepath.Join(dir, "exports")},
		Bot: config.BotConfig{
			PaginationSize:    2,
			RateLimitMessages: 1000,
			RateLimitWindow:   60,
		},
	}
	withDB := true
	for _, opt := range opts {
		opt(cfg, &withDB)
	}

	mocks := &testMocks{
		tg:      &mockTelegramService{updatesChan: make(chan tgbotapi.Update, 1)},
		csvPath: filepath.Join(dir, "bookings.csv"),
	}

	var store domain.BookingStore
	if withDB {
		db, err := database.NewDB(":memory:", &logger)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		mocks.db = db
		store = db
	}

	bookingService := service.NewBookingService(store, export.NewFileSink(mocks.csvPath), nil, &logger)
	mocks.sessions = service.NewSessionService(repository.NewMemoryStateRepository(time.Hour), &logger)
	gate := service.NewSessionGateService(service.NewStaticCredentials(cfg.Auth), nil, &logger)

	b, err := NewBot(mocks.tg, cfg, mocks.sessions, gate, bookingService, nil, &logger)
	require.NoError(t, err)
	b.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return b, mocks
}

const testChatID = int64(555)

var nextMessageID = 1

func textUpdate(text string) tgbotapi.Update {
	nextMessageID++
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: nextMessageID,
			From:      &tgbotapi.User{ID: testChatID, UserName: "traveller"},
			Chat:      &tgbotapi.Chat{ID: testChatID},
			Text:      text,
		},
	}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: testChatID},
			Message: &tgbotapi.Message{
				MessageID: 1,
				Chat:      &tgbotapi.Chat{ID: testChatID},
			},
			Data: data,
		},
	}
}

func (b *Bot) feed(updates ...tgbotapi.Update) {
	for _, u := range updates {
		b.processUpdate(context.Background(), u)
	}
}

func (m *testMocks) session(t *testing.T) *models.Session {
	t.Helper()
	s, err := m.sessions.GetSession(context.Background(), testChatID)
	require.NoError(t, err)
	return s
}

func login(b *Bot) {
	b.feed(
		textUpdate("/start"),
		textUpdate(string(models.MenuAuth)),
		callbackUpdate(cbAuthLogin),
		textUpdate("user"),
		textUpdate("password"),
	)
}
