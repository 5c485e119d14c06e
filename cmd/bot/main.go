package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbook/internal/api"
	"travelbook/internal/bot"
	"travelbook/internal/config"
	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/export"
	"travelbook/internal/logging"
	"travelbook/internal/metrics"
	"travelbook/internal/models"
	"travelbook/internal/repository"
	"travelbook/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := cfg.ValidateTelegram(); err != nil {
		logger.Error().Err(err).Msg("Set telegram.bot_token in config.yaml")
		return err
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Str("path", cfg.Exports.Path).Msg("Failed to create exports directory")
		return err
	}

	// A failed store does not stop the bot: bookings still reach the CSV file.
	db := initDatabase(cfg, logger)
	var store domain.BookingStore
	if db != nil {
		defer db.Close()
		store = db
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.NewRegistry())
	eventBus := events.NewEventBus()
	m.Subscribe(eventBus)
	eventLogger := logging.Component(logger, "events")
	for _, ev := range []string{events.EventBookingCreated, events.EventBookingSinkFailed, events.EventSessionLoggedIn} {
		eventBus.Subscribe(ev, events.LogHandler(eventLogger))
	}

	stateRepo, redisClient := repository.NewStateRepository(ctx, cfg.Redis, time.Duration(models.DefaultSessionTTL)*time.Second, logger)
	defer func() { _ = repository.Close(redisClient) }()

	sessions := service.NewSessionService(stateRepo, logger)
	gate := service.NewSessionGateService(service.NewStaticCredentials(cfg.Auth), eventBus, logger)
	bookingService := service.NewBookingService(store, export.NewFileSink(cfg.Storage.CSVPath), eventBus, logger)

	if cfg.API.Enabled {
		shutdown := startAPI(cfg, bookingService, m, logger)
		defer shutdown()
	}

	if cfg.Backup.Enabled && db != nil {
		go database.NewBackupService(db, cfg.Backup, logger).Start(ctx)
	}

	if cfg.Monitoring.PrometheusEnabled {
		go metrics.Serve(ctx, cfg.Monitoring.PrometheusPort, m.Handler(), logger)
	}

	return startBot(ctx, cfg, sessions, gate, bookingService, m, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logging.Component(baseLogger, "bot-main"), closer, nil
}

// initDatabase returns nil when the store cannot be opened; the caller runs
// without persistence.
func initDatabase(cfg *config.Config, logger *zerolog.Logger) *database.DB {
	seedsPath := os.Getenv("SEEDS_PATH")
	if seedsPath == "" {
		seedsPath = "configs/seeds.yaml"
	}
	seed, err := database.LoadSeedFile(seedsPath)
	if err != nil {
		logger.Warn().Err(err).Str("seeds_path", seedsPath).Msg("Invalid seeds file, using built-in reference data")
		seed = database.DefaultSeed()
	}

	db, err := database.NewDB(cfg.Database.Path, logger, database.WithSeed(seed))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("Database initialization failed: no persistence available")
		return nil
	}
	logger.Info().Str("db_path", cfg.Database.Path).Msg("Database ready")
	return db
}

// startAPI runs the HTTP and gRPC surfaces next to the bot and returns
// their shutdown function.
func startAPI(cfg *config.Config, bookings *service.BookingService, m *metrics.Metrics, logger *zerolog.Logger) func() {
	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		s, err := api.NewGRPCServer(&cfg.API, bookings, m, logger)
		if err != nil {
			logger.Error().Err(err).Msg("gRPC server disabled")
		} else {
			grpcServer = s
			go func() {
				if err := grpcServer.Serve(); err != nil {
					logger.Error().Err(err).Msg("grpc server stopped")
				}
			}()
		}
	}

	httpServer := api.NewHTTPServer(&cfg.API, bookings, m, logger)
	if cfg.API.HTTP.Enabled {
		go func() {
			if err := httpServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if grpcServer != nil {
			grpcServer.Shutdown(ctx)
		}
		_ = httpServer.Shutdown(ctx)
	}
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	sessions *service.SessionService,
	gate *service.SessionGateService,
	bookingService *service.BookingService,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := bot.NewTelegramAPI(cfg.Telegram)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Telegram")
		return err
	}
	tgService := service.NewTelegramService(botAPI)

	telegramBot, err := bot.NewBot(tgService, cfg, sessions, gate, bookingService, m, logging.Component(logger, "bot"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create bot")
		return err
	}

	logger.Info().Msg("Bot started")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
