package bot

import (
	"context"
	"strconv"
	"strings"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery, session *models.Session) *models.Session {
	data := callback.Data
	chatID := callback.Message.Chat.ID

	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Failed to answer callback")
	}

	switch {
	case data == cbAuthLogin || data == cbAuthRegister:
		if Route(models.MenuAuth, session, b.routeOptions()) != ViewAuth {
			b.render(ctx, chatID, session)
			return session
		}
		if data == cbAuthLogin {
			b.startLogin(chatID, session)
		} else {
			b.startRegister(chatID, session)
		}

	case strings.HasPrefix(data, cbAdminPage):
		if Route(models.MenuAdmin, session, b.routeOptions()) != ViewAdmin {
			b.sendMessage(chatID, msgAdminLocked)
			return session
		}
		page, _ := strconv.Atoi(strings.TrimPrefix(data, cbAdminPage))
		b.showAdminPage(ctx, chatID, callback.Message.MessageID, page)

	case data == cbAdminExport:
		if Route(models.MenuAdmin, session, b.routeOptions()) != ViewAdmin {
			b.sendMessage(chatID, msgAdminLocked)
			return session
		}
		b.exportBookings(ctx, chatID)

	default:
		return b.handleFormCallback(ctx, chatID, session, data)
	}

	return session
}

// handleFormCallback applies a booking form button press.
func (b *Bot) handleFormCallback(ctx context.Context, chatID int64, session *models.Session, data string) *models.Session {
	if !b.formAllowed(chatID, session) {
		return session
	}
	draft := &session.Draft

	switch {
	case strings.HasPrefix(data, cbType):
		t, err := models.ParseBookingType(strings.TrimPrefix(data, cbType))
		if err != nil {
			b.sendInline(chatID, msgInvalidType, bookingTypeKeyboard())
			return session
		}
		draft.Type = t
		b.promptStep(ctx, chatID, session, nextStep(session, models.StepBookingType))

	case strings.HasPrefix(data, cbCity):
		city := strings.TrimPrefix(data, cbCity)
		step := session.Step
		switch step {
		case models.StepDeparture:
			draft.Departure = city
		case models.StepArrival:
			draft.Arrival = city
		default:
			b.sendMessage(chatID, msgSessionExpired)
			return session
		}
		b.promptStep(ctx, chatID, session, nextStep(session, step))

	case data == cbSkipArrival:
		if session.Step != models.StepArrival {
			b.sendMessage(chatID, msgSessionExpired)
			return session
		}
		draft.Arrival = ""
		b.promptStep(ctx, chatID, session, nextStep(session, models.StepArrival))

	case data == cbDateToday:
		draft.TravelDate = b.now().Format(models.DateLayout)
		b.promptStep(ctx, chatID, session, nextStep(session, models.StepTravelDate))

	case strings.HasPrefix(data, cbPassengers):
		n, err := strconv.Atoi(strings.TrimPrefix(data, cbPassengers))
		if err != nil || n < models.MinPassengers || n > models.MaxPassengers {
			b.sendInline(chatID, msgPassengers, passengersKeyboard())
			return session
		}
		draft.Passengers = n
		b.promptStep(ctx, chatID, session, nextStep(session, models.StepPassengers))

	case strings.HasPrefix(data, cbPayment):
		p, err := models.ParsePaymentStatus(strings.TrimPrefix(data, cbPayment))
		if err != nil {
			b.sendInline(chatID, msgInvalidPayment, paymentKeyboard())
			return session
		}
		draft.PaymentStatus = p
		b.promptStep(ctx, chatID, session, nextStep(session, models.StepPayment))

	case strings.HasPrefix(data, cbEdit):
		step := strings.TrimPrefix(data, cbEdit)
		if !isEditableStep(step) {
			b.sendMessage(chatID, msgSessionExpired)
			return session
		}
		draft.Editing = true
		b.promptStep(ctx, chatID, session, step)

	case data == cbBook:
		b.submitBooking(ctx, chatID, session)

	default:
		zerolog.Ctx(ctx).Warn().Str("data", data).Msg("Unknown callback")
		b.sendMessage(chatID, msgSessionExpired)
	}

	return session
}
