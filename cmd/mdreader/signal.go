package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals cancel a running batch. syscall.SIGTERM is defined on
// every supported platform, including Windows.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// notifyContext returns a context that is canceled when one of
// shutdownSignals is received. Call stop() to release resources; after
// that a further signal terminates the process immediately.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
