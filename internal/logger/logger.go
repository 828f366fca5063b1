package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/polkiloo/digistore/internal/config"
)

const serviceName = "digistore"

// New creates a JSON slog.Logger on stdout at the configured level.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, ParseLevel(cfg.LogLevel))
}

// ParseLevel maps debug, info, warn and error onto slog levels. Anything
// else yields info.
func ParseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func newWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", serviceName))
}
