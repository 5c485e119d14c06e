package database

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// LoadSeedFile reads reference data from a seeds.yaml file. A missing file
// yields the built-in seed.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSeed(), nil
	}
	if err != nil {
		return Seed{}, fmt.Errorf("read seeds %s: %w", path, err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seeds %s: %w", path, err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, fmt.Errorf("seeds %s: %w", path, err)
	}
	return seed, nil
}

func (s Seed) Validate() error {
	if len(s.Cities) == 0 {
		return errors.New("at least one city is required")
	}
	for _, c := range s.Cities {
		if strings.TrimSpace(c) == "" {
			return errors.New("city name is empty")
		}
	}
	for _, h := range s.Hotels {
		if strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.City) == "" {
			return fmt.Errorf("hotel %q needs a name and a city", h.Name)
		}
	}
	return nil
}
