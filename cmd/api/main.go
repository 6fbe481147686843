// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/config"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/postgres"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/redis"
	"github.com/your-org/mobilestore-api/internal/interfaces/http"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := middleware.NewLogger(cfg)
	logger.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("starting")

	db, err := postgres.NewConnection(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	cache, err := redis.NewConnection(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer cache.Close()

	migration := postgres.NewMigration(db.GetDB(), logger)
	if cfg.IsDevelopment() && cfg.Database.ResetOnStart {
		if err := migration.DropAllTables(); err != nil {
			logger.WithError(err).Fatal("database reset failed")
		}
	}
	if err := migration.RunAutoMigrations(); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		logger.WithError(err).Warn("index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logger.WithError(err).Warn("data seeding failed")
		}
	}

	server := http.NewServer(cfg, db, cache, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.WithError(err).Error("http server failed")
		}
		return
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down gracefully")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("failed to shutdown http server gracefully")
	}

	logger.Info("shutdown completed")
}
