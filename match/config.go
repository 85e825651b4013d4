package match

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config sets the time control of new games.
type Config struct {
	// StartTime is each player's initial clock.
	StartTime time.Duration
	// Increment is added to a player's clock after each of their moves.
	Increment time.Duration
	// BlockDelay is how old a request may be when it is executed.
	BlockDelay time.Duration
}

// DefaultConfig is fifteen minutes per side without increment.
func DefaultConfig() Config {
	return Config{
		StartTime:  15 * time.Minute,
		BlockDelay: 5 * time.Second,
	}
}

type fileConfig struct {
	StartTime  string `json:"start_time"`
	Increment  string `json:"increment"`
	BlockDelay string `json:"block_delay"`
}

// LoadConfig reads a JSON file with duration strings such as "10m" or
// "2s". Missing fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"start_time", fc.StartTime, &cfg.StartTime},
		{"increment", fc.Increment, &cfg.Increment},
		{"block_delay", fc.BlockDelay, &cfg.BlockDelay},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %s: %w", path, f.name, err)
		}
		*f.dst = d
	}
	return cfg, nil
}
