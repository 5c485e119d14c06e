package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travelbook/internal/models"
	"travelbook/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// openBookingForm resumes a draft at its summary or starts at the type
// selector.
func (b *Bot) openBookingForm(ctx context.Context, chatID int64, session *models.Session) {
	if !b.bookingService.StoreAvailable() {
		b.sendMessage(chatID, msgNoPersistence)
	}
	if session.Draft.Type != "" {
		session.Step = models.StepSummary
		b.showSummary(chatID, session)
		return
	}
	session.Draft = models.BookingDraft{}
	b.promptStep(ctx, chatID, session, models.StepBookingType)
}

// promptStep moves the form to step and asks for its value.
func (b *Bot) promptStep(ctx context.Context, chatID int64, session *models.Session, step string) {
	session.Step = step

	switch step {
	case models.StepBookingType:
		b.sendInline(chatID, msgChooseType, bookingTypeKeyboard())
	case models.StepDeparture:
		b.promptLocation(ctx, chatID, msgFrom, false)
	case models.StepArrival:
		b.promptLocation(ctx, chatID, arrivalPrompt(session.Draft.Type), session.Draft.Type == models.BookingHotel)
	case models.StepTravelDate:
		b.sendInline(chatID, msgTravelDate, dateKeyboard())
	case models.StepPassengers:
		b.sendInline(chatID, msgPassengers, passengersKeyboard())
	case models.StepFullName:
		b.sendMessage(chatID, msgFullName)
	case models.StepEmail:
		b.sendMessage(chatID, msgEmail)
	case models.StepPayment:
		b.sendInline(chatID, msgPayment, paymentKeyboard())
	case models.StepSummary:
		b.showSummary(chatID, session)
	}
}

// promptLocation offers the seeded cities as shortcuts; free text is
// accepted as well.
func (b *Bot) promptLocation(ctx context.Context, chatID int64, prompt string, skippable bool) {
	keyboard := cityKeyboard(nil)
	if cities, err := b.bookingService.ListCities(ctx); err == nil {
		keyboard = cityKeyboard(cities)
	}
	if skippable {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Skip", cbSkipArrival),
		})
	}
	if len(keyboard.InlineKeyboard) == 0 {
		b.sendMessage(chatID, prompt)
		return
	}
	b.sendInline(chatID, prompt, keyboard)
}

var formSteps = []string{
	models.StepBookingType, models.StepDeparture, models.StepArrival,
	models.StepTravelDate, models.StepPassengers, models.StepFullName,
	models.StepEmail, models.StepPayment, models.StepSummary,
}

func isEditableStep(step string) bool {
	for _, s := range formSteps[:len(formSteps)-1] {
		if s == step {
			return true
		}
	}
	return false
}

// nextStep is the step after current, or the summary when a single field
// was being edited.
func nextStep(session *models.Session, current string) string {
	if session.Draft.Editing {
		return models.StepSummary
	}
	for i, s := range formSteps[:len(formSteps)-1] {
		if s == current {
			return formSteps[i+1]
		}
	}
	return models.StepSummary
}

// formAllowed re-checks the route so a stale keyboard cannot bypass the gate.
func (b *Bot) formAllowed(chatID int64, session *models.Session) bool {
	if Route(models.MenuBooking, session, b.routeOptions()) == ViewBookingForm {
		return true
	}
	session.Step = models.StepNone
	b.sendMessage(chatID, msgBookingLocked)
	return false
}

// handleFormInput stores a typed value for the current form step.
func (b *Bot) handleFormInput(ctx context.Context, chatID int64, session *models.Session, text string) *models.Session {
	if !b.formAllowed(chatID, session) {
		return session
	}

	draft := &session.Draft
	step := session.Step

	switch step {
	case models.StepBookingType:
		t, err := models.ParseBookingType(text)
		if err != nil {
			b.sendInline(chatID, msgInvalidType, bookingTypeKeyboard())
			return session
		}
		draft.Type = t
	case models.StepDeparture:
		draft.Departure = text
	case models.StepArrival:
		draft.Arrival = text
	case models.StepTravelDate:
		if _, err := time.Parse(models.DateLayout, text); err != nil {
			b.sendInline(chatID, msgInvalidDate, dateKeyboard())
			return session
		}
		draft.TravelDate = text
	case models.StepPassengers:
		n, err := strconv.Atoi(text)
		if err != nil || n < models.MinPassengers || n > models.MaxPassengers {
			b.sendInline(chatID, b.getErrorMessage(service.ErrPassengersRange), passengersKeyboard())
			return session
		}
		draft.Passengers = n
	case models.StepFullName:
		draft.FullName = text
	case models.StepEmail:
		draft.Email = text
	case models.StepPayment:
		p, err := models.ParsePaymentStatus(text)
		if err != nil {
			b.sendInline(chatID, msgInvalidPayment, paymentKeyboard())
			return session
		}
		draft.PaymentStatus = p
	case models.StepSummary:
		b.showSummary(chatID, session)
		return session
	}

	b.promptStep(ctx, chatID, session, nextStep(session, step))
	return session
}

func (b *Bot) showSummary(chatID int64, session *models.Session) {
	session.Draft.Editing = false
	b.sendInline(chatID, formatSummary(&session.Draft), summaryKeyboard(session.Draft.Type))
}

func formatSummary(d *models.BookingDraft) string {
	orDash := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "—"
		}
		return s
	}
	passengers := d.Passengers
	if passengers == 0 {
		passengers = models.MinPassengers
	}
	payment := d.PaymentStatus
	if payment == "" {
		payment = models.PaymentPending
	}

	var sb strings.Builder
	sb.WriteString(msgBookingSummary + "\n\n")
	fmt.Fprintf(&sb, "Type: %s\n", orDash(string(d.Type)))
	fmt.Fprintf(&sb, "From: %s\n", orDash(d.Departure))
	fmt.Fprintf(&sb, "%s: %s\n", d.Type.ArrivalLabel(), orDash(d.Arrival))
	fmt.Fprintf(&sb, "Travel Date: %s\n", orDash(d.TravelDate))
	fmt.Fprintf(&sb, "Passengers: %d\n", passengers)
	fmt.Fprintf(&sb, "Full Name: %s\n", orDash(d.FullName))
	fmt.Fprintf(&sb, "Email: %s\n", orDash(d.Email))
	fmt.Fprintf(&sb, "Payment Status: %s\n", payment)
	return sb.String()
}

// submitBooking validates the draft and hands it to both sinks. The draft is
// kept on validation failure and when nothing was persisted.
func (b *Bot) submitBooking(ctx context.Context, chatID int64, session *models.Session) {
	l := zerolog.Ctx(ctx)
	booking := session.Draft.Booking()

	result, err := b.bookingService.Save(ctx, booking)
	if err != nil {
		l.Info().Err(err).Int64("chat_id", chatID).Msg("Booking rejected by validation")
		b.sendMessage(chatID, b.getErrorMessage(err)+"\n"+msgFixAndResubmit)
		b.showSummary(chatID, session)
		return
	}

	if result.DBErr != nil {
		b.sendMessage(chatID, b.getSinkErrorMessage(service.SinkDatabase, result.DBErr))
	}
	if result.FileErr != nil {
		b.sendMessage(chatID, b.getSinkErrorMessage(service.SinkCSV, result.FileErr))
	}

	if !result.Persisted() {
		b.sendMessage(chatID, msgResubmitAfterFail)
		b.showSummary(chatID, session)
		return
	}

	session.Draft = models.BookingDraft{}
	session.Step = models.StepNone
	b.sendMenu(chatID, "🎉 "+booking.Confirmation())
}
