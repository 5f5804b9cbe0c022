package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"family-backend/internal/config"
	"family-backend/internal/database"
	"family-backend/internal/handlers"
	"family-backend/internal/health"
	h "family-backend/internal/http"
	"family-backend/internal/middleware"
	"family-backend/internal/services"
	"family-backend/internal/storage"
	"family-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// .env is optional; real deployments set environment variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[Config] Loaded .env file")
	}

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	// Open the configured snapshot store
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer cleanup()

	// Optional best-effort mirror to the JSON sync server
	var syncService *services.SyncService
	if cfg.Sync.Enabled {
		syncService = services.NewSyncService(cfg.Sync.BaseURL)
		if restored, err := syncService.RestoreIfEmpty(ctx, store); err != nil {
			log.Printf("[Sync] Warning: restore check failed: %v", err)
		} else if restored > 0 {
			log.Printf("[Sync] Restored %d members from mirror", restored)
		}
		syncService.Start()
		defer syncService.Stop()
	}

	// Initialize services
	memberService := services.NewMemberService(store, syncService)
	healthChecker := health.NewHealthChecker(store)

	// Initialize handlers
	memberHandler := handlers.NewMemberHandler(memberService)
	monitoringHandler := handlers.NewMonitoringHandler(healthChecker)

	// Create router with middleware chain
	router := h.NewRouter(memberHandler, monitoringHandler)
	corsMiddleware := middleware.NewCORS(cfg)
	handler := corsMiddleware(router)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s (storage: %s)", addr, cfg.Storage.Driver)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// openStore builds the snapshot store named by the storage driver. The
// returned cleanup closes any underlying pool.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "jsonfile", "":
		store, err := storage.NewJSONFileStore(cfg.Storage.DataFile)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[Storage] Using JSON file store at %s", store.Path())
		return store, func() {}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		migrator := database.NewMigrator(pool, migrations.FS)
		if err := migrator.RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Println("[Storage] Using Postgres store")
		return storage.NewPostgresStore(pool), pool.Close, nil

	case "memory":
		log.Println("[Storage] Using in-memory store (data is not persisted)")
		return storage.NewMemoryStore(nil), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
