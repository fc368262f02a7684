package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nimbusio/nimbusctl/nimbusctl/flags"
	"github.com/spf13/viper"
)

// Base is a bare logger without attributes
var Base = slog.New(slog.DiscardHandler)

// logger is the command line logger with default attributes
var logger = Base

// Init configures the loggers from the viper settings. Logs are written to w, which
// should not be the standard output of commands printing data.
func Init(w io.Writer) error {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(viper.GetString(flags.LogLevel))); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	if viper.GetBool(flags.Verbose) && !viper.IsSet(flags.LogLevel) {
		logLevel = slog.LevelDebug
	}

	options := slog.HandlerOptions{
		AddSource: viper.GetBool(flags.LogSource),
		Level:     logLevel,
	}

	switch format := viper.GetString(flags.LogFormat); format {
	case "json":
		Base = slog.New(slog.NewJSONHandler(w, &options))
	case "text":
		Base = slog.New(slog.NewTextHandler(w, &options))
	default:
		return fmt.Errorf("unknown log format '%s'", format)
	}

	logger = Base.With("component", "nimbusctl")
	return nil
}

// Proxies for slog.Logger methods

func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}
