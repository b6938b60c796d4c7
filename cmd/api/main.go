package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"taskplanner/internal/app"
	"taskplanner/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real deployments set TASKPLANNER_* directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		log.Fatalf("initializing app: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("running app: %v", err)
	}
}
