package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithRoute creates a child logger with a route field
func WithRoute(ctx context.Context, route string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("route", route).Logger()
	return WithContext(ctx, childLogger)
}

// WithSecretID creates a child logger with a secret_id field
func WithSecretID(ctx context.Context, secretID string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("secret_id", secretID).Logger()
	return WithContext(ctx, childLogger)
}
