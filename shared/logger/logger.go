package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger tagged with the service name.
// All components receive this logger by injection; none build their own.
func New(service string) *zerolog.Logger {
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &logger
}
