package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/garnizeh/uzman/api"
	"github.com/garnizeh/uzman/internal/config"
	"github.com/garnizeh/uzman/internal/kv"
	"github.com/garnizeh/uzman/internal/repository/kvstore"
	"github.com/garnizeh/uzman/internal/seed"
	"github.com/joho/godotenv"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	var configPath = flag.String("config", "", "Path to config YAML file")
	var seedDemo = flag.Bool("seed", false, "Seed demo data on an empty store")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting uzman server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open the backing store
	store, err := kv.OpenSQLite(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	if cfg.Seed || *seedDemo {
		repo := kvstore.New(store, logger)
		if err := seed.Run(ctx, repo, repo, repo, logger); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, store)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close the backing store
	if err := store.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}

	log.Println("Server exited")
}
