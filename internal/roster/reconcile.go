package roster

import (
	"github.com/agent-roster/backend/internal/storage/models"
)

// Reconcile sets the availability state of every day in the grid from the
// day's events and the stored overrides (keyed by YYYY-MM-DD date).
//
// Policy: a day with one or more events is always unavailable — an event is
// ground truth for assignability and no override can flip it back. A day
// with zero events defaults to available unless an explicit override marks
// it unavailable. The override's note, when present, is preserved verbatim
// on the day either way.
func Reconcile(days []Day, overrides map[string]models.AvailabilityOverride) []Day {
	for i := range days {
		days[i].Availability = reconcileDay(days[i], overrides)
	}
	return days
}

func reconcileDay(day Day, overrides map[string]models.AvailabilityOverride) models.AvailabilityState {
	override, hasOverride := overrides[models.DateKey(day.Date)]

	state := models.AvailabilityState{IsAvailable: true}
	if hasOverride {
		state.IsAvailable = override.IsAvailable
		state.Note = override.Note
	}

	// Events win: once an assignment exists the day cannot receive another,
	// whatever the override says. The note still surfaces.
	if len(day.Events) > 0 {
		state.IsAvailable = false
	}

	return state
}
