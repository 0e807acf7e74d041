//go:build !tinygo

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"omibyte.io/blinky/clog"
)

func main() {
	// Interrupts stop the scheduler and release the GPIO line
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		clog.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
