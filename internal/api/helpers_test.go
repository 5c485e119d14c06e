package api

import (
	"io"
	"path/filepath"
	"testing"

	"travelbook/internal/config"
	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/export"
	"travelbook/internal/metrics"
	"travelbook/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testKey   = "test-key"
	testExtra = "test-extra"
)

type testEnv struct {
	bookings *service.BookingService
	metrics  *metrics.Metrics
	csvPath  string
	logger   zerolog.Logger
}

func newTestEnv(t *testing.T, withDB bool) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	csvPath := filepath.Join(t.TempDir(), "bookings.csv")

	var store domain.BookingStore
	if withDB {
		db, err := database.NewDB(":memory:", &logger)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		store = db
	}

	return &testEnv{
		bookings: service.NewBookingService(store, export.NewFileSink(csvPath), nil, &logger),
		metrics:  metrics.New(prometheus.NewRegistry()),
		csvPath:  csvPath,
		logger:   logger,
	}
}

func openConfig() *config.APIConfig {
	return &config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true},
		Auth:    config.APIAuthConfig{HeaderAPIKey: "x-api-key", HeaderExtra: "x-api-extra"},
	}
}

func authConfig(permissions ...string) *config.APIConfig {
	cfg := openConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []config.APIClientKey{
		{Key: testKey, Extra: testExtra, Name: "ops", Permissions: permissions},
	}
	return cfg
}
