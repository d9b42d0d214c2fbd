package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agent-roster/backend/internal/api/middleware"
	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/storage/models"
)

// CheckConstraintRequest carries either a candidate event assignment or a
// candidate availability declaration. Exactly one must be set.
type CheckConstraintRequest struct {
	Event    *models.Event          `json:"event,omitempty"`
	Override *SubmitOverrideRequest `json:"override,omitempty"`
}

// CheckConstraint runs the preference constraint checker against a
// candidate. The result is always a 200 with a level of ok, warn, or block:
// constraint outcomes are values for the operator to act on, not errors.
func CheckConstraint(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckConstraintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if (req.Event == nil) == (req.Override == nil) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation,
				"Exactly one of event or override must be provided")
			return
		}

		var result any
		if req.Event != nil {
			result = controller.CheckEvent(*req.Event)
		} else {
			result = controller.CheckOverride(req.Override.Date, req.Override.IsAvailable)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
