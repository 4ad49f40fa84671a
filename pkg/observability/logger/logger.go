// Package logger provides the structured logging contract used across the
// library, backed by zap.
package logger

import "context"

// Logger is the structured logging interface. All methods accept a message
// followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With creates a child logger whose entries carry the given key-value
	// pairs.
	With(args ...any) Logger

	// WithContext creates a child logger enriched with the tenant identity
	// carried by the context, when present.
	WithContext(ctx context.Context) Logger
}

// Nop returns a logger that discards everything. Useful as the default for
// components where logging is optional.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                 {}
func (nopLogger) Info(string, ...any)                  {}
func (nopLogger) Warn(string, ...any)                  {}
func (nopLogger) Error(string, ...any)                 {}
func (n nopLogger) With(...any) Logger                 { return n }
func (n nopLogger) WithContext(context.Context) Logger { return n }
