package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/library-catalog-go/library"
	"github.com/AntonStoeckl/library-catalog-go/library/shell/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// notifications and command logs go to stderr, the demo output to stdout
	lib, err := library.Setup(
		library.WithLogger(cfg.NewLogger(os.Stderr)),
		library.WithRetryOptions(cfg.RetryOptions()...),
	)
	if err != nil {
		log.Fatalf("Failed to set up the library: %v", err)
	}

	if err := library.RunDemo(ctx, lib, os.Stdout); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}
}
