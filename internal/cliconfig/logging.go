package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Logger returns the CLI logger.
func Logger() zerolog.Logger {
	return logger
}

// SetLogLevel changes the CLI logger's level. Unknown levels are ignored;
// Config.Validate rejects them earlier.
func SetLogLevel(level string) {
	if l, err := zerolog.ParseLevel(level); err == nil {
		logger = logger.Level(l)
	}
}
