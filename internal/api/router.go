// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agent-roster/backend/internal/api/handlers"
	"github.com/agent-roster/backend/internal/api/middleware"
	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/storage"
	"github.com/agent-roster/backend/internal/websocket"
)

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(
	db *storage.DB,
	hub *websocket.Hub,
	controller *monthview.Controller,
	prefRepo *storage.PreferenceRepository,
	agentID string,
	staticDir string,
) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health endpoint
	api.HandleFunc("/health", handlers.HealthCheck(db, controller)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub)).Methods("GET")

	// Month view and navigation
	api.HandleFunc("/month", handlers.GetMonth(controller)).Methods("GET")
	api.HandleFunc("/month/next", handlers.NextMonth(controller)).Methods("POST")
	api.HandleFunc("/month/previous", handlers.PreviousMonth(controller)).Methods("POST")
	api.HandleFunc("/summary", handlers.GetSummary(controller)).Methods("GET")

	// Day selection
	api.HandleFunc("/day/select", handlers.SelectDay(controller)).Methods("POST")

	// Availability overrides
	api.HandleFunc("/overrides", handlers.SubmitOverride(controller)).Methods("POST")

	// Agent preferences
	api.HandleFunc("/preferences", handlers.GetPreferences(controller, prefRepo, agentID)).Methods("GET")
	api.HandleFunc("/preferences", handlers.UpdatePreferences(controller, prefRepo, agentID)).Methods("PUT")

	// Constraint checks (advisory, always 200 with a result value)
	api.HandleFunc("/constraints/check", handlers.CheckConstraint(controller)).Methods("POST")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}
