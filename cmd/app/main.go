package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dokan-backend/internal/config"
	"dokan-backend/internal/logger/sl"
	"dokan-backend/internal/trace"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logger := sl.Setup(cfg.Env)

	tp, err := trace.InitTracer(ctx)
	if err != nil {
		log.Fatalf("init tracer: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown", sl.Err(err))
		}
	}()

	application, err := NewApplication(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init application: %v", err)
	}
	if err = application.Run(ctx); err != nil {
		log.Fatalf("run application: %v", err)
	}
	logger.Info("service stopped")
}
