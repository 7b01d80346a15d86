package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// serviceName tags every record so aggregated logs from the store fleet
// stay attributable to this engine.
const serviceName = "stock-ledger"

// Log is the global logger instance
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	Log = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()

	// The package-level zerolog/log logger used across middleware and
	// services shares the same output and fields.
	log.Logger = Log
}

// SetLevel sets the log level. The server's run mode is accepted
// directly: debug mode logs at debug, release at info.
func SetLevel(levelStr string) {
	var level zerolog.Level
	switch levelStr {
	case "debug":
		level = zerolog.DebugLevel
	case "release", "":
		level = zerolog.InfoLevel
	default:
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}

	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}
