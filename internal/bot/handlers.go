package bot

import (
	"context"
	"strings"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleMessage processes a text message and returns the session to store.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message, session *models.Session) *models.Session {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	l := zerolog.Ctx(ctx)

	l.Debug().
		Int64("chat_id", chatID).
		Str("step", session.Step).
		Msg("Handling message")

	switch strings.ToLower(text) {
	case "/start", "/reset", "reset":
		return b.handleStart(ctx, chatID)
	case "/menu", "/help":
		b.sendMenu(chatID, msgChooseOption)
		return session
	}

	if choice, ok := ParseMenuChoice(text); ok {
		return b.handleMenuChoice(ctx, chatID, session, choice)
	}

	switch session.Step {
	case models.StepLoginUsername, models.StepLoginPassword,
		models.StepRegisterUser, models.StepRegisterPass, models.StepRegisterConfirm:
		return b.handleAuthInput(ctx, message, session, text)
	case models.StepBookingType, models.StepDeparture, models.StepArrival,
		models.StepTravelDate, models.StepPassengers, models.StepFullName,
		models.StepEmail, models.StepPayment, models.StepSummary:
		return b.handleFormInput(ctx, chatID, session, text)
	}

	b.sendMenu(chatID, msgChooseOption)
	return session
}

// handleStart begins a new anonymous session for the chat.
func (b *Bot) handleStart(ctx context.Context, chatID int64) *models.Session {
	session, err := b.sessions.ResetSession(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to reset session")
		session = models.NewSession(chatID)
	}

	b.sendMenu(chatID, msgWelcome)
	if !b.bookingService.StoreAvailable() {
		b.sendMessage(chatID, msgNoPersistence)
	}
	return session
}

func (b *Bot) handleMenuChoice(ctx context.Context, chatID int64, session *models.Session, choice models.MenuChoice) *models.Session {
	session.Menu = choice
	session.Step = models.StepNone
	session.ClearPending()
	b.render(ctx, chatID, session)
	return session
}

// render shows the view selected by Route for the session's current menu.
func (b *Bot) render(ctx context.Context, chatID int64, session *models.Session) {
	view := Route(session.Menu, session, b.routeOptions())
	zerolog.Ctx(ctx).Debug().Int64("chat_id", chatID).Str("view", view.String()).Msg("Rendering view")

	switch view {
	case ViewAuth:
		b.sendInline(chatID, msgAuthPrompt, authKeyboard())
	case ViewCatalog:
		b.showCatalog(ctx, chatID)
	case ViewBookingForm:
		b.openBookingForm(ctx, chatID, session)
	case ViewLocked:
		if session.Menu == models.MenuAdmin {
			b.sendMessage(chatID, msgAdminLocked)
		} else {
			b.sendMessage(chatID, msgBookingLocked)
		}
	case ViewAdmin:
		b.showAdminPage(ctx, chatID, 0, 0)
	}
}

func (b *Bot) showCatalog(ctx context.Context, chatID int64) {
	var sb strings.Builder
	sb.WriteString(msgAlreadyLoggedIn)

	cities, err := b.bookingService.ListCities(ctx)
	if err != nil {
		b.sendMessage(chatID, sb.String()+"\n\n"+b.getErrorMessage(err))
		return
	}
	hotels, err := b.bookingService.ListHotels(ctx)
	if err != nil {
		b.sendMessage(chatID, sb.String()+"\n\n"+b.getErrorMessage(err))
		return
	}

	sb.WriteString("\n\n" + msgAvailableCities + "\n")
	for _, c := range cities {
		sb.WriteString("• " + c.Name + "\n")
	}
	sb.WriteString("\n" + msgAvailableHotels + "\n")
	for _, h := range hotels {
		sb.WriteString("• " + h.Name + " (" + h.City + ")\n")
	}

	b.sendMessage(chatID, sb.String())
}
