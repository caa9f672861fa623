package agentmcp

import "log/slog"

// NopLogger returns a logger that discards all output. Set it as
// Deployable.Logger to run a server silently.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
