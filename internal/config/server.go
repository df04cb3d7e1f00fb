package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type ServerConfig struct {
	DBPath     string
	ServerPort string
	LogLevel   string
}

func LoadServer(logger zerolog.Logger) (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &ServerConfig{
		DBPath:     getEnv("OW2STATS_DB_PATH", "ow2stats.db"),
		ServerPort: getEnv("OW2STATS_PORT", "3000"),
		LogLevel:   getEnv("OW2STATS_LOG_LEVEL", "info"),
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("server configuration loaded")

	return cfg, nil
}

func (c *ServerConfig) Level() zerolog.Level {
	return (&Config{LogLevel: c.LogLevel}).Level()
}
