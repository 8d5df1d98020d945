package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to the project Logger interface. The
// server builds one over a JSON handler at startup; everything below the
// app receives it as a Logger.
type SlogLogger struct {
	l *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// Debug is not part of the Logger interface; it exists for local
// debugging without widening the contract every component depends on.
func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
