package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"travelbook/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	path   string
	seed   Seed
	logger *zerolog.Logger
}

// Seed is the reference data inserted into empty Cities and Hotels tables.
type Seed struct {
	Cities []string       `yaml:"cities"`
	Hotels []models.Hotel `yaml:"hotels"`
}

func DefaultSeed() Seed {
	return Seed{Cities: models.DefaultCities, Hotels: models.DefaultHotels}
}

type Option func(*DB)

// WithSeed replaces the built-in reference data.
func WithSeed(seed Seed) Option {
	return func(db *DB) {
		db.seed = seed
	}
}

// NewDB opens or creates the store, ensures the schema and seeds reference
// data. It is safe to call on every startup.
func NewDB(path string, logger *zerolog.Logger, opts ...Option) (*DB, error) {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer; also keeps one shared connection for :memory:
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, path: path, seed: DefaultSeed(), logger: logger}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.createTables(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.SeedReferenceData(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return db, nil
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS Bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            booking_type TEXT,
            departure TEXT,
            arrival TEXT,
            travel_date TEXT,
            passengers INTEGER,
            full_name TEXT,
            email TEXT,
            payment_status TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS Cities (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            city_name TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS Hotels (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            hotel_name TEXT,
            city TEXT
        )`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// SeedReferenceData fills Cities and Hotels when they are empty. Each table
// is guarded by its own row count, so repeated calls insert nothing.
func (db *DB) SeedReferenceData(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var cities int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM Cities`).Scan(&cities); err != nil {
		return fmt.Errorf("failed to count cities: %w", err)
	}
	if cities == 0 {
		for _, name := range db.seed.Cities {
			if _, err := tx.ExecContext(ctx, `INSERT INTO Cities (city_name) VALUES (?)`, name); err != nil {
				return fmt.Errorf("failed to seed city %s: %w", name, err)
			}
		}
		db.logger.Info().Int("count", len(db.seed.Cities)).Msg("Seeded cities")
	}

	var hotels int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM Hotels`).Scan(&hotels); err != nil {
		return fmt.Errorf("failed to count hotels: %w", err)
	}
	if hotels == 0 {
		for _, h := range db.seed.Hotels {
			if _, err := tx.ExecContext(ctx, `INSERT INTO Hotels (hotel_name, city) VALUES (?, ?)`, h.Name, h.City); err != nil {
				return fmt.Errorf("failed to seed hotel %s: %w", h.Name, err)
			}
		}
		db.logger.Info().Int("count", len(db.seed.Hotels)).Msg("Seeded hotels")
	}

	return tx.Commit()
}
