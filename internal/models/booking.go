package models

import (
	"fmt"
	"strings"
	"time"
)

type BookingType string

const (
	BookingTrain  BookingType = "Train"
	BookingBus    BookingType = "Bus"
	BookingHotel  BookingType = "Hotel"
	BookingFlight BookingType = "Flight"
)

// BookingTypes lists the selectable types in menu order.
var BookingTypes = []BookingType{BookingTrain, BookingBus, BookingHotel, BookingFlight}

func (t BookingType) Valid() bool {
	switch t {
	case BookingTrain, BookingBus, BookingHotel, BookingFlight:
		return true
	}
	return false
}

// ArrivalLabel is the caption of the second location field. Hotels have a
// single location instead of a destination.
func (t BookingType) ArrivalLabel() string {
	if t == BookingHotel {
		return "Location"
	}
	return "To"
}

// ParseBookingType accepts any casing of a known type name.
func ParseBookingType(s string) (BookingType, error) {
	for _, t := range BookingTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown booking type %q", s)
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentCompleted}

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentCompleted
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, p := range PaymentStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Booking is append-only: rows are inserted once and never updated.
type Booking struct {
	ID            int64         `json:"id"`
	Type          BookingType   `json:"booking_type"`
	Departure     string        `json:"departure"`
	Arrival       string        `json:"arrival"`
	TravelDate    time.Time     `json:"travel_date"`
	Passengers    int           `json:"passengers"`
	FullName      string        `json:"full_name"`
	Email         string        `json:"email"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// Confirmation is the message shown after a booking has been submitted.
func (b *Booking) Confirmation() string {
	return fmt.Sprintf("Your %s booking from %s to %s is confirmed!", b.Type, b.Departure, b.Arrival)
}
