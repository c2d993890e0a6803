package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"subshift/internal/syncerr"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	cmd.SetContext(ctx)

	err := cmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "subshift: interrupted")
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "subshift: %v\n", err)
	os.Exit(syncerr.ExitCode(err))
}
