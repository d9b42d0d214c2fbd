// Package main is the entry point for the Agent Roster server.
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

	"github.com/agent-roster/backend/internal/api"
	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/schedule"
	"github.com/agent-roster/backend/internal/storage"
	"github.com/agent-roster/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	addr := flag.String("addr", ":8090", "HTTP server address")
	dataDir := flag.String("data", "/data", "Data directory for SQLite database")
	staticDir := flag.String("static", "./static", "Directory for static frontend files")
	timezone := flag.String("tz", "", "IANA timezone for calendar dates (default: local)")
	refreshMin := flag.Int("refresh-min", 10, "Active month refresh interval in minutes")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting Agent Roster server (version: %s)...", version)

	// Resolve the calendar timezone
	loc := time.Local
	if *timezone != "" {
		var err error
		loc, err = time.LoadLocation(*timezone)
		if err != nil {
			log.Fatalf("Invalid timezone %q: %v", *timezone, err)
		}
	}

	// Scheduling service client configuration from environment
	schedConfig := schedule.DefaultConfig()
	if schedConfig.AgentID == "" {
		log.Fatal("SCHEDULE_AGENT_ID must be set")
	}
	client := schedule.NewClient(schedConfig)

	// Initialize database
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory %q: %v", *dataDir, err)
	}
	dbPath := *dataDir + "/agent-roster.db"
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	broadcaster := websocket.NewEventBroadcaster(hub)

	// Initialize repositories
	snapshotRepo := storage.NewSnapshotRepository(db)
	prefRepo := storage.NewPreferenceRepository(db)

	// Initialize the month view controller
	controller := monthview.NewController(client, snapshotRepo, broadcaster, schedConfig.AgentID, loc)

	// Seed cached preferences so the constraint checker works before the
	// first live preference fetch.
	if cached, err := prefRepo.Get(context.Background(), schedConfig.AgentID); err != nil {
		log.Printf("Warning: failed to read cached preferences: %v", err)
	} else if cached != nil {
		controller.SetPreferences(*cached)
	}

	// Render the last good month immediately, then load live data.
	if restored, err := controller.RestoreFromSnapshot(context.Background()); err != nil {
		log.Printf("Warning: snapshot restore failed: %v", err)
	} else if restored {
		log.Println("Restored last month snapshot from local cache")
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := controller.RefreshPreferences(ctx); err != nil {
			log.Printf("Warning: initial preference fetch failed: %v", err)
		}
		if err := controller.LoadCurrentMonth(ctx); err != nil {
			log.Printf("Warning: initial month load failed: %v", err)
		}
	}()

	// Start the periodic refresher
	refresher := monthview.NewRefresher(controller, *refreshMin)
	if err := refresher.Start(); err != nil {
		log.Printf("Warning: failed to start month refresher: %v", err)
	}

	// Initialize HTTP router
	router := api.NewRouter(db, hub, controller, prefRepo, schedConfig.AgentID, *staticDir)

	// Create HTTP server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the refresher
	refresher.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
