package domain

import "errors"

// Err joins the sink errors; nil only when both sinks succeeded.
func (r SaveResult) Err() error {
	return errors.Join(r.DBErr, r.FileErr)
}

// Persisted reports whether at least one sink accepted the booking.
func (r SaveResult) Persisted() bool {
	return r.DBErr == nil || r.FileErr == nil
}
