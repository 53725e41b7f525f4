package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the event sink the engine logs progress through. Verbosity
// 0 shows progress events, 1 adds debug detail, 2 and above trace.
func Setup(verbosity int) zerolog.Logger {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.InfoLevel
	case 1:
		level = zerolog.DebugLevel
	default:
		level = zerolog.TraceLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
