package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type LogOptions struct {
	// path to write to; "" or "-" means stderr
	LogPath string

	// text|json
	LogFormat string

	// debug|info|warn|error
	LogLevel string

	// Output overrides LogPath when set.
	Output io.Writer
}

func firstenv(env_var_names ...string) string {
	for _, env_var_name := range env_var_names {
		val := os.Getenv(env_var_name)
		if val != "" {
			return val
		}
	}
	return ""
}

// ParseLevel maps a level name to a slog level. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %#v", s)
	}
}

// SetupSlog integrates passed in options and env vars, and installs the
// result as the default logger.
//
// passing default cliutil.LogOptions{} is ok.
//
// APIGEN_LOG_LEVEL=info|debug|warn|error
//
// APIGEN_LOG_FMT=text|json
//
// APIGEN_LOG_FILE=path (or "-" or "" for stderr)
//
// Generated code goes to stdout or files, so logs default to stderr.
func SetupSlog(options LogOptions) (*slog.Logger, error) {
	if options.LogLevel == "" {
		options.LogLevel = firstenv("APIGEN_LOG_LEVEL")
	}
	level, err := ParseLevel(options.LogLevel)
	if err != nil {
		return nil, err
	}
	hopts := slog.HandlerOptions{Level: level}

	if options.LogFormat == "" {
		options.LogFormat = firstenv("APIGEN_LOG_FMT")
	}
	format := strings.ToLower(options.LogFormat)
	if format == "" {
		format = "text"
	}

	out := options.Output
	if out == nil {
		if options.LogPath == "" {
			options.LogPath = firstenv("APIGEN_LOG_FILE")
		}
		if options.LogPath == "" || options.LogPath == "-" {
			out = os.Stderr
		} else {
			f, err := os.OpenFile(options.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", options.LogPath, err)
			}
			out = f
		}
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(out, &hopts)
	case "json":
		handler = slog.NewJSONHandler(out, &hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", options.LogFormat)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
