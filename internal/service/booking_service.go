package service

import (
	"context"
	"fmt"

	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

const (
	SinkDatabase = "database"
	SinkCSV      = "csv"
)

// BookingService writes each booking to the relational store and to the
// flat file. The two writes are independent: a failure of one never skips
// the other and nothing is rolled back.
type BookingService struct {
	store    domain.BookingStore
	files    domain.FileSink
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.BookingStore, files domain.FileSink, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	// a typed nil handle means initialisation failed
	if db, ok := store.(*database.DB); ok && db == nil {
		store = nil
	}
	return &BookingService{
		store:    store,
		files:    files,
		eventBus: eventBus,
		logger:   logger,
	}
}

// StoreAvailable is false when the process runs without a database.
func (s *BookingService) StoreAvailable() bool {
	return s.store != nil
}

// Save validates the booking and then attempts both sinks in order. The
// returned error is set only for validation failures; sink failures are
// reported per sink in the result.
func (s *BookingService) Save(ctx context.Context, booking *models.Booking) (domain.SaveResult, error) {
	if err := ValidateBooking(booking); err != nil {
		return domain.SaveResult{}, err
	}

	var result domain.SaveResult

	switch {
	case s.store == nil:
		result.DBErr = ErrStoreUnavailable
	default:
		if err := s.store.CreateBooking(ctx, booking); err != nil {
			result.DBErr = fmt.Errorf("%w: %w", ErrDBWrite, err)
		} else {
			result.BookingID = booking.ID
		}
	}

	switch {
	case s.files == nil:
		result.FileErr = ErrFileSinkUnavailable
	default:
		if err := s.files.Append(booking); err != nil {
			result.FileErr = fmt.Errorf("%w: %w", ErrFileWrite, err)
		}
	}

	s.report(ctx, booking, result)
	return result, nil
}

func (s *BookingService) report(ctx context.Context, booking *models.Booking, result domain.SaveResult) {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = s.logger
	}

	payload := events.BookingEventPayload{
		BookingID:     result.BookingID,
		Type:          string(booking.Type),
		Departure:     booking.Departure,
		Arrival:       booking.Arrival,
		TravelDate:    booking.TravelDate,
		Passengers:    booking.Passengers,
		PaymentStatus: string(booking.PaymentStatus),
	}

	sinks := []struct {
		name string
		err  error
	}{{SinkDatabase, result.DBErr}, {SinkCSV, result.FileErr}}

	for _, sink := range sinks {
		if sink.err == nil {
			continue
		}
		logger.Error().Err(sink.err).Str("sink", sink.name).Str("booking_type", payload.Type).Msg("booking sink failed")
		failed := payload
		failed.Sink = sink.name
		failed.Error = sink.err.Error()
		s.publish(events.EventBookingSinkFailed, failed)
	}

	if !result.Persisted() {
		return
	}
	logger.Info().Int64("booking_id", result.BookingID).Str("booking_type", payload.Type).Msg("booking saved")
	s.publish(events.EventBookingCreated, payload)
}

func (s *BookingService) publish(eventType string, payload events.BookingEventPayload) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.ListBookings(ctx)
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) CountBookings(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, ErrStoreUnavailable
	}
	return s.store.CountBookings(ctx)
}

func (s *BookingService) ListCities(ctx context.Context) ([]models.City, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.ListCities(ctx)
}

func (s *BookingService) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.ListHotels(ctx)
}
