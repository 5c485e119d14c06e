package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/domain"
	"travelbook/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking store as a small JSON API alongside the bot.
type HTTPServer struct {
	cfg      *config.APIConfig
	bookings domain.BookingService
	metrics  *metrics.Metrics
	server   *http.Server
	auth     *HTTPAuth
	log      zerolog.Logger
}

func NewHTTPServer(cfg *config.APIConfig, bookings domain.BookingService, m *metrics.Metrics, logger *zerolog.Logger) *HTTPServer {
	serverLogger := zerolog.Nop()
	if logger != nil {
		serverLogger = logger.With().Str("component", "http").Logger()
	}

	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		metrics:  m,
		auth:     NewHTTPAuth(cfg, nil),
		log:      serverLogger,
	}

	mux := http.NewServeMux()
	srv.route(mux, "GET /healthz", "", false, srv.handleHealthz)
	srv.route(mux, "GET /readyz", "", false, srv.handleReadyz)
	srv.route(mux, "GET /api/v1/bookings", PermReadBookings, true, srv.handleListBookings)
	srv.route(mux, "POST /api/v1/bookings", PermWriteBookings, true, srv.handleCreateBooking)
	srv.route(mux, "GET /api/v1/bookings/export", PermReadBookings, true, srv.handleExportBookings)
	srv.route(mux, "GET /api/v1/bookings/{id}", PermReadBookings, true, srv.handleGetBooking)
	srv.route(mux, "GET /api/v1/cities", PermReadCatalog, true, srv.handleCities)
	srv.route(mux, "GET /api/v1/hotels", PermReadCatalog, true, srv.handleHotels)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// route registers h under pattern. Protected routes go through API-key auth
// and the per-client limiter; every route is logged and counted.
func (s *HTTPServer) route(mux *http.ServeMux, pattern, permission string, protected bool, h http.HandlerFunc) {
	var handler http.Handler = h
	if protected {
		handler = s.auth.Wrap(permission, handler)
	}
	mux.Handle(pattern, s.instrument(pattern, handler))
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HTTPAuth provides API-key auth and per-key rate limiting for HTTP endpoints.
type HTTPAuth struct {
	cfg     *config.APIConfig
	keys    *keyring
	limiter *rateLimiter
}

func NewHTTPAuth(cfg *config.APIConfig, limiter *rateLimiter) *HTTPAuth {
	if limiter == nil {
		limiter = newRateLimiter(cfg.RateLimit)
	}
	return &HTTPAuth{cfg: cfg, keys: newKeyring(cfg.Auth), limiter: limiter}
}

func (a *HTTPAuth) Wrap(permission string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r, permission); err != nil {
				statusCode := http.StatusUnauthorized
				if errors.Is(err, errPermissionDenied) {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if !a.limiter.allow(a.clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, errRateLimitExceeded.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request, permission string) error {
	client, err := a.keys.authenticate(
		strings.TrimSpace(r.Header.Get(a.keys.apiKeyHeader)),
		strings.TrimSpace(r.Header.Get(a.keys.extraHeader)),
	)
	if err != nil {
		return err
	}
	return authorize(client, permission)
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.keys.apiKeyHeader)); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return clientKeyUnknown
}

// instrument logs the request with a request id and counts it by route
// pattern rather than raw path.
func (s *HTTPServer) instrument(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDMetadataKey))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDMetadataKey, requestID)
		l := s.log.With().Str("request_id", requestID).Logger()

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(l.WithContext(r.Context())))

		s.metrics.IncHTTP(pattern, recorder.status)
		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
