// Package main is the lightrig command line: template placement, event
// replay, numeric orbit entry and an interactive SDL session.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
)

func init() {
	// SDL requires its calls on the main thread
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
