package roster

import (
	"sort"
)

// MonthSummary holds the aggregate counters for a reconciled month.
// Derived and ephemeral: recomputed from the Day sequence on every load.
type MonthSummary struct {
	// DistinctEventCount is the number of unique event IDs across the
	// month. An event spanning several days counts once.
	DistinctEventCount int `json:"distinct_event_count"`

	// OccupiedDayCount is the number of days with at least one event.
	// This is day occupancy, not event count: a 3-day event contributes 3
	// here but 1 to DistinctEventCount.
	OccupiedDayCount int `json:"occupied_day_count"`

	// DistinctLocations lists every event location seen in the month,
	// deduplicated by exact string equality, sorted for stable output.
	DistinctLocations []string `json:"distinct_locations"`
}

// Summarize reduces a reconciled Day sequence to its month summary.
// An empty month yields zero counts and an empty location list.
func Summarize(days []Day) MonthSummary {
	eventIDs := make(map[string]bool)
	locations := make(map[string]bool)
	occupied := 0

	for _, day := range days {
		if len(day.Events) > 0 {
			occupied++
		}
		for _, e := range day.Events {
			eventIDs[e.ID] = true
			locations[e.Location] = true
		}
	}

	distinct := make([]string, 0, len(locations))
	for loc := range locations {
		distinct = append(distinct, loc)
	}
	sort.Strings(distinct)

	return MonthSummary{
		DistinctEventCount: len(eventIDs),
		OccupiedDayCount:   occupied,
		DistinctLocations:  distinct,
	}
}
