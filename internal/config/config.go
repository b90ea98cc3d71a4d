package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"duel-tracker/internal/logger"
)

type Config struct {
	SnapshotPath   string
	DBPath         string
	JournalEnabled bool
	LogLevel       string
	Locale         string
	MessagesDir    string
	ChartDir       string
}

func Load(log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		SnapshotPath:   getEnv("SNAPSHOT_PATH", "game_data.json"),
		DBPath:         getEnv("DB_PATH", "duel.db"),
		JournalEnabled: getEnvBool("JOURNAL_ENABLED", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Locale:         getEnv("LOCALE", "ko"),
		MessagesDir:    getEnv("MESSAGES_DIR", ""),
		ChartDir:       getEnv("CHART_DIR", "charts"),
	}

	if err := logger.ApplyLevel(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Str("log_level", cfg.LogLevel).Msg("invalid log level, keeping default")
	}

	log.Info().
		Str("snapshot_path", cfg.SnapshotPath).
		Str("db_path", cfg.DBPath).
		Bool("journal_enabled", cfg.JournalEnabled).
		Str("log_level", cfg.LogLevel).
		Str("locale", cfg.Locale).
		Str("chart_dir", cfg.ChartDir).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

var Module = fx.Provide(Load)
