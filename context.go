// Package cppbuild holds small process-wide helpers shared by every
// cmd/cppbuild subcommand: signal-driven cancellation and an at-exit
// hook list.
package cppbuild

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InterruptibleContext returns a context canceled on SIGINT or
// SIGTERM, so a build in progress can tear down its worker pool and
// child processes cleanly instead of leaving them orphaned.
func InterruptibleContext() (context.Context, context.CancelFunc) {
	ctx, canc := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		// A second signal terminates immediately, useful if cleanup hangs.
		signal.Stop(sig)
		canc()
	}()
	return ctx, canc
}
