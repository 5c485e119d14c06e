package service

import "errors"

var (
	ErrMissingFields        = errors.New("please fill in all required fields")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidDate          = errors.New("invalid travel date")
	ErrPassengersRange      = errors.New("passengers must be between 1 and 10")
	ErrUnknownBookingType   = errors.New("unknown booking type")
	ErrUnknownPaymentStatus = errors.New("unknown payment status")

	ErrStoreUnavailable    = errors.New("no persistence available")
	ErrFileSinkUnavailable = errors.New("file sink not configured")
	ErrDBWrite             = errors.New("database write failed")
	ErrFileWrite           = errors.New("file write failed")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNilSession         = errors.New("session is nil")
)

// IsValidationError reports whether err rejects the booking before any write.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrPassengersRange) ||
		errors.Is(err, ErrUnknownBookingType) ||
		errors.Is(err, ErrUnknownPaymentStatus)
}
