package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/agent-roster/backend/internal/api/middleware"
	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/schedule"
)

// writeUpstreamError maps a scheduling service failure to an API error
// response. Auth failures get their own code so the dashboard can prompt
// re-authentication.
func writeUpstreamError(w http.ResponseWriter, err error) {
	if schedule.IsAuthError(err) {
		middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstreamAuth,
			"Scheduling service session expired; please sign in again")
		return
	}
	middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream,
		"Scheduling service request failed: "+err.Error())
}

// writeMonthView writes the controller's current view as JSON.
func writeMonthView(w http.ResponseWriter, controller *monthview.Controller) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(controller.View())
}

// GetMonth returns the active month view, loading it first when year/month
// query parameters are supplied or nothing has been loaded yet.
func GetMonth(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		if q.Get("year") != "" || q.Get("month") != "" {
			year, err := strconv.Atoi(q.Get("year"))
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid year")
				return
			}
			monthNum, err := strconv.Atoi(q.Get("month"))
			if err != nil || monthNum < 1 || monthNum > 12 {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid month")
				return
			}

			if err := controller.LoadMonth(ctx, year, time.Month(monthNum)); err != nil {
				writeUpstreamError(w, err)
				return
			}
		} else if controller.State() == monthview.StateIdle {
			if err := controller.LoadCurrentMonth(ctx); err != nil {
				writeUpstreamError(w, err)
				return
			}
		}

		writeMonthView(w, controller)
	}
}

// NextMonth navigates one month forward and returns the new view.
func NextMonth(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := controller.NextMonth(r.Context()); err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeMonthView(w, controller)
	}
}

// PreviousMonth navigates one month backward and returns the new view.
func PreviousMonth(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := controller.PreviousMonth(r.Context()); err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeMonthView(w, controller)
	}
}

// GetSummary returns the active month's aggregate counters.
func GetSummary(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if controller.State() != monthview.StateReady {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "No month loaded")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(controller.Summary())
	}
}

// SelectDayRequest is the body for day selection.
type SelectDayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// SelectDay marks a day of the active month as selected.
func SelectDay(controller *monthview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectDayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if err := controller.SelectDay(req.Date); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		writeMonthView(w, controller)
	}
}
