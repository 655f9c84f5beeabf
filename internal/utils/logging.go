package utils

import (
	"io"
	"log/slog"
	"strings"
)

// Structured log field names shared across packages
const (
	LogFieldRunID    = "run_id"
	LogFieldItemID   = "item_id"
	LogFieldMode     = "mode"
	LogFieldCategory = "category"
	LogFieldOrder    = "order"
	LogFieldState    = "state"
	LogFieldDeckSize = "deck_size"
	LogFieldSource   = "source"
	LogFieldStore    = "store"
)

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the application logger.
// format "json" selects the JSON handler, anything else the text handler.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
