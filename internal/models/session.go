package models

import "time"

// MenuChoice is one of the top-level menu entries.
type MenuChoice string

const (
	MenuAuth    MenuChoice = "Login/Register"
	MenuBooking MenuChoice = "Search & Book"
	MenuAdmin   MenuChoice = "Admin Panel"
)

var MenuChoices = []MenuChoice{MenuAuth, MenuBooking, MenuAdmin}

// Form and auth sub-flow steps.
const (
	StepNone            = ""
	StepLoginUsername   = "login_username"
	StepLoginPassword   = "login_password"
	StepRegisterUser    = "register_username"
	StepRegisterPass    = "register_password"
	StepRegisterConfirm = "register_confirm"
	StepBookingType     = "booking_type"
	StepDeparture       = "departure"
	StepArrival         = "arrival"
	StepTravelDate      = "travel_date"
	StepPassengers      = "passengers"
	StepFullName        = "full_name"
	StepEmail           = "email"
	StepPayment         = "payment"
	StepSummary         = "summary"
)

// BookingDraft holds the booking form while it is being filled in. It
// survives a failed submission so the user can correct a single field.
type BookingDraft struct {
	Type          BookingType   `json:"type,omitempty"`
	Departure     string        `json:"departure,omitempty"`
	Arrival       string        `json:"arrival,omitempty"`
	TravelDate    string        `json:"travel_date,omitempty"`
	Passengers    int           `json:"passengers,omitempty"`
	FullName      string        `json:"full_name,omitempty"`
	Email         string        `json:"email,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
	// Editing is set when a single field is re-entered from the summary.
	Editing bool `json:"editing,omitempty"`
}

// Booking converts the draft into a booking. An unparsable date becomes the
// zero time and is rejected later by validation.
func (d *BookingDraft) Booking() *Booking {
	date, _ := time.Parse(DateLayout, d.TravelDate)
	passengers := d.Passengers
	if passengers == 0 {
		passengers = MinPassengers
	}
	payment := d.PaymentStatus
	if payment == "" {
		payment = PaymentPending
	}
	return &Booking{
		Type:          d.Type,
		Departure:     d.Departure,
		Arrival:       d.Arrival,
		TravelDate:    date,
		Passengers:    passengers,
		FullName:      d.FullName,
		Email:         d.Email,
		PaymentStatus: payment,
	}
}

// Session is the state of one interactive session (one chat). It is created
// Anonymous when the session starts and is never shared between chats.
type Session struct {
	ChatID        int64        `json:"chat_id"`
	Authenticated bool         `json:"authenticated"`
	Username      string       `json:"username,omitempty"`
	Menu          MenuChoice   `json:"menu,omitempty"`
	Step          string       `json:"step,omitempty"`
	Draft         BookingDraft `json:"draft"`
	// PendingUser and PendingPassword buffer the auth sub-flow between messages.
	PendingUser     string    `json:"pending_user,omitempty"`
	PendingPassword string    `json:"pending_password,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID, UpdatedAt: time.Now()}
}

// ClearPending drops buffered credentials once the auth sub-flow ends.
func (s *Session) ClearPending() {
	s.PendingUser = ""
	s.PendingPassword = ""
}
