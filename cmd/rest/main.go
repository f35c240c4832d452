package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code-concierge-be/internal/bootstrap"
	"code-concierge-be/internal/config"
	"code-concierge-be/internal/model"
	"code-concierge-be/internal/server"
	"code-concierge-be/internal/tracer"
	"code-concierge-be/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Database
	gormDB, err := database.NewGormDB(database.GormConfig{
		Type:         cfg.Database.Type,
		DSN:          cfg.Database.Connection,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	// sqlite deployments have no separate migrate step
	if cfg.Database.Type == "sqlite" {
		if err := gormDB.AutoMigrate(model.All()...); err != nil {
			log.Fatalf("AutoMigrate failed: %v", err)
		}
	}

	// 3. Dependencies
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.App.TracingEnabled, container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Background workers
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := container.Start(ctx); err != nil {
		log.Fatalf("Background workers failed: %v", err)
	}

	// 5. HTTP server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
