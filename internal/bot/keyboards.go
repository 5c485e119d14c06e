package bot

import (
	"fmt"
	"strconv"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes.
const (
	cbAuthLogin    = "auth:login"
	cbAuthRegister = "auth:register"
	cbType         = "type:"
	cbCity         = "city:"
	cbSkipArrival  = "arrival:skip"
	cbDateToday    = "date:today"
	cbPassengers   = "pax:"
	cbPayment      = "pay:"
	cbBook         = "book"
	cbEdit         = "edit:"
	cbAdminPage    = "admin_page:"
	cbAdminExport  = "admin_export"
)

func menuButtonText(choice models.MenuChoice) string {
	switch choice {
	case models.MenuAuth:
		return "🔑 " + string(choice)
	case models.MenuBooking:
		return "🧳 " + string(choice)
	case models.MenuAdmin:
		return "🛠 " + string(choice)
	}
	return string(choice)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for _, choice := range models.MenuChoices {
		row = append(row, tgbotapi.NewKeyboardButton(menuButtonText(choice)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(row)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func authKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Login", cbAuthLogin),
		tgbotapi.NewInlineKeyboardButtonData("Register", cbAuthRegister),
	))
}

func bookingTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range models.BookingTypes {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(t), cbType+string(t)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// cityKeyboard offers the seeded cities two per row.
func cityKeyboard(cities []models.City) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range cities {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Name, cbCity+c.Name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func dateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📅 Today", cbDateToday),
	))
}

func passengersKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for n := models.MinPassengers; n <= models.MaxPassengers; n++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(n), fmt.Sprintf("%s%d", cbPassengers, n)))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func paymentKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, p := range models.PaymentStatuses {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(p), cbPayment+string(p)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func summaryKeyboard(t models.BookingType) tgbotapi.InlineKeyboardMarkup {
	edit := func(label, step string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData("✏️ "+label, cbEdit+step)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Book Now", cbBook)),
		tgbotapi.NewInlineKeyboardRow(edit("Type", models.StepBookingType), edit("From", models.StepDeparture), edit(t.ArrivalLabel(), models.StepArrival)),
		tgbotapi.NewInlineKeyboardRow(edit("Date", models.StepTravelDate), edit("Passengers", models.StepPassengers)),
		tgbotapi.NewInlineKeyboardRow(edit("Name", models.StepFullName), edit("Email", models.StepEmail), edit("Payment", models.StepPayment)),
	)
}
