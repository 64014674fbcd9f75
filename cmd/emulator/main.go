package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/app"
)

func main() {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		log.Fatalf("failed to initialize emulator: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("emulator error: %v", err)
	}
}
