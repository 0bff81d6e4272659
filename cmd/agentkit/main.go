package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/batteryshark/agentkit/internal/cmd"
	"github.com/batteryshark/agentkit/internal/exitcode"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			exitcode.Exit(exitcode.Interrupted)
		}

		code := exitcode.DetermineExitCode(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code != exitcode.GeneralError {
			fmt.Fprintln(os.Stderr, exitcode.Description(code))
		}
		exitcode.Exit(code)
	}
	exitcode.Exit(exitcode.Success)
}
