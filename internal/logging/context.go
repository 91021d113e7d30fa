package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// Loggers travel in the context. Each layer tags the logger it hands down, so
// an engine line carries its tab, domain and session without the engine
// knowing about tabs.

// FromContext returns the logger carried by ctx, or a disabled one.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

func withField(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With().Str(key, value).Logger())
}

// WithComponent tags the logger with the subsystem name.
func WithComponent(ctx context.Context, component string) context.Context {
	return withField(ctx, "component", component)
}

// WithTabID tags the logger with a browser target id.
func WithTabID(ctx context.Context, tabID string) context.Context {
	return withField(ctx, "tab_id", tabID)
}

// WithDomain tags the logger with the normalized page domain.
func WithDomain(ctx context.Context, domain string) context.Context {
	return withField(ctx, "domain", domain)
}

// WithSessionID tags the logger with an engine session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withField(ctx, "session_id", id)
}

// WithRequestID tags the logger with a control API request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withField(ctx, "request_id", id)
}
