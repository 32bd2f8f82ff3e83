package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context canceled by the first shutdown signal.
// Files already being processed finish; no new file is started.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
