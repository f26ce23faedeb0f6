package log

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process-wide logger from env configuration.
func NewLogger(cfg *Config) (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var logger zerolog.Logger
	switch cfg.Format {
	case FormatConsole:
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	default:
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.Level(level).With().Timestamp().Logger()

	return &logger, nil
}
