package database

import (
	"context"
	"fmt"

	"travelbook/internal/models"
)

func (db *DB) ListCities(ctx context.Context) ([]models.City, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, city_name FROM Cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (db *DB) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, hotel_name, city FROM Hotels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		var h models.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City); err != nil {
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}
