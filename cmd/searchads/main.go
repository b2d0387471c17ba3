package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchads/searchads/internal/cli"
	apperrors "github.com/searchads/searchads/internal/errors"
	"github.com/searchads/searchads/internal/registry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", apperrors.FormatRPC(err))
		os.Exit(1)
	}
}

func run() error {
	pool, err := registry.Load()
	if err != nil {
		return fmt.Errorf("load descriptors: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.New(pool).ExecuteContext(ctx)
}
