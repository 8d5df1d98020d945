// Package logging defines the structured logger the FinanceVault server
// components share. The HTTP server and the app lifecycle log through
// this interface rather than a concrete backend, so tests can drop in a
// no-op and the backend can change without touching call sites.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. The variadic
// args are alternating key/value pairs:
//
//	log.Info(ctx, "Starting HTTP server", "address", addr)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)

	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger whose records always carry the given
	// pairs. Components tag themselves this way, e.g.
	// With("module", "http_server").
	With(args ...any) Logger
}
