package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/agent-roster/backend/internal/api/middleware"
	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/storage"
	"github.com/agent-roster/backend/internal/storage/models"
)

// GetPreferences returns the agent's preference record. The live record is
// fetched on first access; if the scheduling service is unreachable the
// local cache serves as fallback.
func GetPreferences(controller *monthview.Controller, prefRepo *storage.PreferenceRepository, agentID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pref, loaded := controller.Preferences()
		if !loaded {
			if err := controller.RefreshPreferences(ctx); err != nil {
				log.Printf("Preference fetch failed, trying local cache: %v", err)
				cached, cacheErr := prefRepo.Get(ctx, agentID)
				if cacheErr != nil || cached == nil {
					writeUpstreamError(w, err)
					return
				}
				controller.SetPreferences(*cached)
			} else {
				fresh, _ := controller.Preferences()
				if err := prefRepo.Save(ctx, agentID, fresh); err != nil {
					log.Printf("Failed to cache preferences: %v", err)
				}
			}
			pref, _ = controller.Preferences()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pref)
	}
}

// UpdatePreferences replaces the agent's preference record on the
// scheduling service and updates the local cache on success.
func UpdatePreferences(controller *monthview.Controller, prefRepo *storage.PreferenceRepository, agentID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var pref models.AgentPreference
		if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		pref.Normalize()

		if err := controller.UpdatePreferences(ctx, pref); err != nil {
			writeUpstreamError(w, err)
			return
		}

		if err := prefRepo.Save(ctx, agentID, pref); err != nil {
			log.Printf("Failed to cache preferences: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pref)
	}
}
