package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

// CreateBooking inserts the row and commits immediately. The assigned id is
// written back into booking.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO Bookings (
				booking_type, departure, arrival, travel_date,
				passengers, full_name, email, payment_status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		string(booking.Type),
		booking.Departure,
		booking.Arrival,
		booking.TravelDate.Format(models.DateLayout),
		booking.Passengers,
		booking.FullName,
		booking.Email,
		string(booking.PaymentStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

const bookingColumns = `id, booking_type, departure, arrival, travel_date,
	                 passengers, full_name, email, payment_status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b       models.Booking
		bt, ps  string
		dateStr string
	)
	if err := row.Scan(&b.ID, &bt, &b.Departure, &b.Arrival, &dateStr,
		&b.Passengers, &b.FullName, &b.Email, &ps); err != nil {
		return nil, err
	}
	b.Type = models.BookingType(bt)
	b.PaymentStatus = models.PaymentStatus(ps)

	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
	}
	b.TravelDate = date
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM Bookings WHERE id = ?`
	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListBookings returns every stored booking ordered by id.
func (db *DB) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM Bookings ORDER BY id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (db *DB) CountBookings(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Bookings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
