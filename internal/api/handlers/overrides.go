package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agent-roster/backend/internal/api/middleware"
	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/storage/models"
)

// SubmitOverrideRequest is the body for an availability declaration.
type SubmitOverrideRequest struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	IsAvailable bool    `json:"is_available"`
	Note        *string `json:"note,omitempty"`
}

// SubmitOverride submits an availability override for a single date. The
// write goes to the scheduling service; on success the active month is
// refreshed from server truth and the updated view returned.
func SubmitOverride(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitOverrideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Date == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Date is required")
			return
		}
		if _, err := time.Parse(models.DateKeyLayout, req.Date); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Date must be YYYY-MM-DD")
			return
		}

		if err := controller.SubmitOverride(r.Context(), req.Date, req.IsAvailable, req.Note); err != nil {
			writeUpstreamError(w, err)
			return
		}

		writeMonthView(w, controller)
	}
}
