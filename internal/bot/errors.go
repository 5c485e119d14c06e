package bot

import (
	"errors"

	"travelbook/internal/service"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrMissingFields):
		return "⚠️ Please fill in all required fields."
	case errors.Is(err, service.ErrInvalidEmail):
		return "⚠️ Invalid email address."
	case errors.Is(err, service.ErrInvalidDate):
		return "⚠️ Please choose a travel date."
	case errors.Is(err, service.ErrPassengersRange):
		return "⚠️ Passengers must be between 1 and 10."
	case errors.Is(err, service.ErrUnknownBookingType):
		return "⚠️ Please choose a booking type."
	case errors.Is(err, service.ErrUnknownPaymentStatus):
		return "⚠️ Please choose a payment status."
	case errors.Is(err, service.ErrInvalidCredentials):
		return "❌ Invalid username or password."
	case errors.Is(err, service.ErrPasswordMismatch):
		return "❌ Passwords do not match."
	case errors.Is(err, service.ErrStoreUnavailable):
		return msgNoPersistence
	}

	return "❌ Something went wrong while processing your request. Please try again later."
}

// getSinkErrorMessage reports a failed write for one sink.
func (b *Bot) getSinkErrorMessage(sink string, err error) string {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		return "⚠️ Booking was not saved to the database: no persistence available."
	case errors.Is(err, service.ErrFileSinkUnavailable):
		return "⚠️ Booking was not saved to the CSV file: no file configured."
	}
	switch sink {
	case service.SinkDatabase:
		return "❌ Failed to save booking to the database: " + cause(err)
	case service.SinkCSV:
		return "❌ Failed to save booking to the CSV file: " + cause(err)
	}
	return b.getErrorMessage(err)
}

// cause drops the sink sentinel from a "sentinel: cause" error.
func cause(err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 1 {
			return errs[len(errs)-1].Error()
		}
	}
	return err.Error()
}
