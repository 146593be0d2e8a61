package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tiksave-bot/infrastructure/config"
)

// New builds the process-wide logger from config. Pretty mode writes
// human-readable console lines, otherwise output is JSON.
func New(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
