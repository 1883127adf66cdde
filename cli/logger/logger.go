package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string `doc:"log from debug, info, warn or error"`
	File   string `doc:"append logs to file, stdout when empty or -, stderr for standard error"`
	Format string `doc:"format logs as text or json"                                            default:"text"`
}

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New returns the [slog.Logger] described by options. Invalid options are
// reset to their default and reported as a warning by the returned logger.
func New(options *Options) *slog.Logger {
	return newLogger(options, os.Stdout, os.Stderr)
}

func newLogger(options *Options, stdout, stderr io.Writer) *slog.Logger {
	level, ok := level(options.Level)
	if !ok {
		invalid := options.Level
		options.Level = ""
		logger := newLogger(options, stdout, stderr)
		logger.Warn("could not parse logger level", "level", invalid)
		return logger
	}
	opts := slog.HandlerOptions{Level: level}

	var output io.Writer
	switch options.File {
	case "", "-":
		output = stdout
	case "stderr":
		output = stderr
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		var err error
		output, err = os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			options.File = ""
			logger := newLogger(options, stdout, stderr)
			logger.Warn("could not open logger file", "err", err)
			return logger
		}
	}

	switch strings.ToLower(options.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(output, &opts))
	case "text", "":
		return slog.New(slog.NewTextHandler(output, &opts))
	default:
		invalid := options.Format
		options.Format = "text"
		logger := newLogger(options, stdout, stderr)
		logger.Warn("could not parse logger format", "format", invalid)
		return logger
	}
}
