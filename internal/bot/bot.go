package bot

import (
	"context"
	"os"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/domain"
	"travelbook/internal/metrics"
	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

type Bot struct {
	tgService      domain.TelegramService
	config         *config.Config
	sessions       domain.SessionManager
	gate           domain.SessionGate
	bookingService domain.BookingService
	metrics        *metrics.Metrics
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	sessions domain.SessionManager,
	gate domain.SessionGate,
	bookingService domain.BookingService,
	metrics *metrics.Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:      tgService,
		config:         config,
		sessions:       sessions,
		gate:           gate,
		bookingService: bookingService,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}, nil
}

func (b *Bot) routeOptions() RouteOptions {
	return RouteOptions{AdminRequiresAuth: b.config.Bot.AdminRequiresAuth}
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			b.tgService.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		b.metrics.ObserveUpdate(time.Since(start))
	}()

	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		chatID := updateChatID(update)
		if chatID == 0 {
			return
		}

		allowed, err := b.sessions.CheckRateLimit(updateCtx, chatID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
		if err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Rate limit check failed")
		} else if !allowed {
			l.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
			if update.Message != nil {
				b.sendMessage(chatID, msgRateLimited)
			}
			return
		}

		session, err := b.sessions.GetSession(updateCtx, chatID)
		if err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to load session, starting anonymous")
			session = models.NewSession(chatID)
		}

		switch {
		case update.CallbackQuery != nil:
			session = b.handleCallbackQuery(updateCtx, update.CallbackQuery, session)
		case update.Message != nil:
			session = b.handleMessage(updateCtx, update.Message, session)
		default:
			return
		}

		if session == nil {
			return
		}
		if err := b.sessions.SaveSession(updateCtx, session); err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to save session")
		}
	})
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendInline(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendMenu(chatID int64, text string) {
	if _, err := b.tgService.SendWithKeyboard(chatID, text, mainMenuKeyboard()); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send menu")
	}
}
