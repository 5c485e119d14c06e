package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"travelbook/internal/database"
	"travelbook/internal/export"
	"travelbook/internal/models"
	"travelbook/internal/service"

	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type bookingRequest struct {
	Type          string `json:"booking_type"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	TravelDate    string `json:"travel_date"`
	Passengers    int    `json:"passengers"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	PaymentStatus string `json:"payment_status"`
}

// booking maps the request onto a model. Unknown enum values and bad dates
// are passed through so validation reports them.
func (req bookingRequest) booking() *models.Booking {
	b := &models.Booking{
		Type:          models.BookingType(req.Type),
		Departure:     req.Departure,
		Arrival:       req.Arrival,
		Passengers:    req.Passengers,
		FullName:      req.FullName,
		Email:         req.Email,
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
	}
	if t, err := models.ParseBookingType(req.Type); err == nil {
		b.Type = t
	}
	if p, err := models.ParsePaymentStatus(req.PaymentStatus); err == nil {
		b.PaymentStatus = p
	} else if strings.TrimSpace(req.PaymentStatus) == "" {
		b.PaymentStatus = models.PaymentPending
	}
	if d, err := time.Parse(models.DateLayout, strings.TrimSpace(req.TravelDate)); err == nil {
		b.TravelDate = d
	}
	return b
}

type bookingResponse struct {
	ID            int64  `json:"id"`
	Type          string `json:"booking_type"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	TravelDate    string `json:"travel_date"`
	Passengers    int    `json:"passengers"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	PaymentStatus string `json:"payment_status"`
}

func toBookingResponse(b *models.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		Type:          string(b.Type),
		Departure:     b.Departure,
		Arrival:       b.Arrival,
		TravelDate:    b.TravelDate.Format(models.DateLayout),
		Passengers:    b.Passengers,
		FullName:      b.FullName,
		Email:         b.Email,
		PaymentStatus: string(b.PaymentStatus),
	}
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.bookings.CountBookings(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": out, "total": len(out)})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	b, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking := req.booking()
	result, err := s.bookings.Save(r.Context(), booking)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	sinkErrors := map[string]string{}
	if result.DBErr != nil {
		sinkErrors[service.SinkDatabase] = result.DBErr.Error()
	}
	if result.FileErr != nil {
		sinkErrors[service.SinkCSV] = result.FileErr.Error()
	}

	if !result.Persisted() {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":       "booking was not saved",
			"sink_errors": sinkErrors,
		})
		return
	}

	booking.ID = result.BookingID
	writeJSON(w, http.StatusCreated, map[string]any{
		"booking":      toBookingResponse(booking),
		"confirmation": booking.Confirmation(),
		"sink_errors":  sinkErrors,
	})
}

func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookingsXLSX(&buf, bookings); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	name := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *HTTPServer) handleCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.bookings.ListCities(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

func (s *HTTPServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := s.bookings.ListHotels(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case service.IsValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, database.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
