// prtgcli/pkg/logging/logging.go

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// LogFile is where the "file" output writes.
const LogFile = "prtgcli.log"

var Logger zerolog.Logger

func init() {
	logLevel := zerolog.WarnLevel // Default log level
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if level, err := zerolog.ParseLevel(envLevel); err == nil {
			logLevel = level
		}
	}

	zerolog.SetGlobalLevel(logLevel)
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// ConfigureLogger sets the global level and replaces Logger with one writing
// to the requested output ("console", "json" or "file").
func ConfigureLogger(logLevel, logOutput string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	var out io.Writer
	switch logOutput {
	case "console":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "3:04PM"}
	case "json":
		out = os.Stderr
	case "file":
		file, err := os.OpenFile(LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	default:
		return fmt.Errorf("invalid log output option %q", logOutput)
	}

	zerolog.SetGlobalLevel(level)
	Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
