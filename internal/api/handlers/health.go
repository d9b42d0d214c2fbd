// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/storage"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
	MonthState  string `json:"month_state"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB, controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
			MonthState:  string(controller.State()),
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}
