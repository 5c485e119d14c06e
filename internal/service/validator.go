package service

import (
	"regexp"
	"strings"

	"travelbook/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// IsValidEmail checks the shape local@domain.tld only; no deliverability.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateBooking checks a booking before it reaches any sink. Departure,
// full name and email are always required; arrival is required unless the
// booking is a Hotel.
func ValidateBooking(b *models.Booking) error {
	if b == nil {
		return ErrMissingFields
	}
	if blank(b.Departure) || blank(b.FullName) || blank(b.Email) {
		return ErrMissingFields
	}
	if blank(b.Arrival) && b.Type != models.BookingHotel {
		return ErrMissingFields
	}
	if !IsValidEmail(b.Email) {
		return ErrInvalidEmail
	}
	if b.TravelDate.IsZero() {
		return ErrInvalidDate
	}
	if b.Passengers < models.MinPassengers || b.Passengers > models.MaxPassengers {
		return ErrPassengersRange
	}
	if !b.Type.Valid() {
		return ErrUnknownBookingType
	}
	if !b.PaymentStatus.Valid() {
		return ErrUnknownPaymentStatus
	}
	return nil
}
