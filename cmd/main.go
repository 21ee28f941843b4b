package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imageshare/internal/config"
	"imageshare/internal/handlers"
	"imageshare/internal/logger"
	"imageshare/internal/repository"
	"imageshare/internal/repository/db"
	"imageshare/internal/server"
	"imageshare/internal/service"
	"imageshare/internal/storage"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load environment configuration
	cfg := config.Load()

	// open DB
	database, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// object-storage backend, selected by configuration
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalw("failed to init storage backend", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(repos, store, cfg, log)
	apiHandler := handlers.NewHandler(services, log, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// first-run admin account, when enabled and no admin exists
	if err := services.EnsureRootAdmin(ctx); err != nil {
		log.Fatalw("bootstrap admin failed", "err", err)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	if cfg.DBPath == "" {
		log.Infow("DB_PATH not set; using default file", "default", "imageshare.db")
		cfg.DBPath = "imageshare.db"
	}
	return db.InitDB(cfg.DBPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
