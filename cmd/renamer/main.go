// Package main provides the CLI entry point for renamer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := buildRootCommand(newApp())
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRenamesFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
