package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"tableside_server/api"
	"tableside_server/config"
	"tableside_server/database"
	"tableside_server/services"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openArchive()
	if err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}

	sm := services.NewServiceManager(ctx, logger, cfg, db)
	if sm.ArchiveService != nil {
		if err := sm.ArchiveService.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate archive schema", gecho.Field("error", err))
		}
	}

	r, err := api.App(cfg, sm, nil)
	if err != nil {
		logger.Fatal("Failed to build router", gecho.Field("error", err))
	}

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")
	shutdown(srv, sm, db)
}

// openArchive connects the archive database when it is enabled; nil otherwise.
func openArchive() (*database.DB, error) {
	if !cfg.Database.Enabled {
		logger.Info("Command archive disabled")
		return nil, nil
	}
	return database.Connect(cfg.Database, logger)
}

// shutdown drains in-flight requests, then closes the broker, cache and database connections.
func shutdown(srv *http.Server, sm *services.ServiceManager, db *database.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}
	if err := sm.Close(); err != nil {
		logger.Error("Failed to close services", gecho.Field("error", err))
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", gecho.Field("error", err))
		}
	}
	logger.Info("Server stopped")
}
