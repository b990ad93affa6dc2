// Package logger builds the service logger and carries request-scoped
// loggers through contexts.
package logger

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/httplog/v2"
)

// New returns the service logger. Its embedded *slog.Logger is also what
// the request logging middleware writes through.
func New(service string, level string, json bool) (*httplog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return httplog.NewLogger(service, httplog.Options{
		LogLevel:         lvl,
		JSON:             json,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/healthz", "/metrics"},
	}), nil
}
