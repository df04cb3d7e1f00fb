package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const EnvPrefix = "OW_"

var ErrMissingBackendURL = errors.New("backend_url is required")

type Config struct {
	BaseURL        string    `json:"base_url"`
	BackendURL     string    `json:"backend_url"`
	Timeout        int       `json:"timeout"`
	RetryAttempts  int       `json:"retry_attempts"`
	RetryDelay     int       `json:"retry_delay"`
	RateLimitDelay []float64 `json:"rate_limit_delay"`

	Regions   []string `json:"regions"`
	Platforms []string `json:"platforms"`
	Gamemodes []string `json:"gamemodes"`
	Maps      []string `json:"maps"`
	Tiers     []string `json:"tiers"`

	LogLevel  string `json:"log_level"`
	DebugMode bool   `json:"debug_mode"`
	// accepted for compatibility, page dumps are not produced
	SaveHTML bool `json:"save_html"`
}

func Default() *Config {
	return &Config{
		BaseURL:        "https://overwatch.blizzard.com/en-us/rates/data/",
		BackendURL:     "http://localhost:3000",
		Timeout:        10,
		RetryAttempts:  3,
		RetryDelay:     2,
		RateLimitDelay: []float64{2, 5},
		Regions:        []string{"Americas", "Europe", "Asia"},
		Platforms:      []string{"PC", "Console"},
		Gamemodes:      []string{"Quick Play", "Competitive"},
		Maps: []string{
			"All",
			"Antarctic Peninsula",
			"Busan",
			"Ilios",
			"Lijiang Tower",
			"Nepal",
			"Oasis",
			"Samoa",
			"Circuit Royal",
			"Dorado",
			"Havana",
			"Junkertown",
			"Rialto",
			"Route 66",
			"Shambali Monastery",
			"Watchpoint: Gibraltar",
			"Aatlis",
			"New Junk City",
			"Suravasa",
			"Blizzard World",
			"Eichenwalde",
			"Hollywood",
			"King's Row",
			"Midtown",
			"Numbani",
			"Paraíso",
			"Colosseo",
			"Esperança",
			"New Queen Street",
			"Runasapi",
			"Hanaoka",
			"Temple of Anubis",
		},
		Tiers: []string{
			"All",
			"Bronze",
			"Silver",
			"Gold",
			"Platinum",
			"Diamond",
			"Master",
			"Grandmaster",
			"Champion",
		},
		LogLevel: "info",
	}
}

// Load resolves defaults, then the config file (and its .local override),
// then OW_ environment variables.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := Default()

	path := getEnv("OW_CONFIG_FILE", "config.json")
	switch err := readConfigFile(path, cfg); {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug().Str("path", path).Msg("config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		logger.Debug().Str("path", path).Msg("config file applied")
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	minDelay, maxDelay := cfg.RateLimitBounds()
	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("backend_url", cfg.BackendURL).
		Dur("timeout", cfg.TimeoutDuration()).
		Int("retry_attempts", cfg.RetryAttempts).
		Dur("retry_delay", cfg.RetryDelayDuration()).
		Dur("rate_limit_min", minDelay).
		Dur("rate_limit_max", maxDelay).
		Int("platforms", len(cfg.Platforms)).
		Int("regions", len(cfg.Regions)).
		Int("gamemodes", len(cfg.Gamemodes)).
		Int("maps", len(cfg.Maps)).
		Int("tiers", len(cfg.Tiers)).
		Str("log_level", cfg.LogLevel).
		Bool("debug_mode", cfg.DebugMode).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// RateLimitBounds returns the inter-configuration pause range. A single value
// is used as both bounds.
func (c *Config) RateLimitBounds() (time.Duration, time.Duration) {
	switch len(c.RateLimitDelay) {
	case 0:
		return 0, 0
	case 1:
		d := seconds(c.RateLimitDelay[0])
		return d, d
	default:
		return seconds(c.RateLimitDelay[0]), seconds(c.RateLimitDelay[1])
	}
}

func (c *Config) Level() zerolog.Level {
	if c.DebugMode {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
