// Package roster implements the agent calendar engine: month grid layout,
// availability reconciliation, preference constraint checking, and month
// summary aggregation. Everything in this package is pure computation over
// the domain models; fetching and persistence live elsewhere.
package roster

import (
	"sort"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

// Day is a derived view of a single calendar date within a month: the events
// overlapping it, display flags, and the reconciled availability state.
// Days are recomputed on every month load and never persisted.
type Day struct {
	Date         time.Time                `json:"date"`
	Ordinal      int                      `json:"ordinal"`
	Events       []models.Event           `json:"events"`
	IsWeekend    bool                     `json:"is_weekend"`
	IsToday      bool                     `json:"is_today"`
	Availability models.AvailabilityState `json:"availability"`
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthGrid lays out one Day per calendar date of (year, month), in
// ascending date order, attaching every event whose [Start, End) interval
// intersects the day's 24h window. An event spanning N days appears under
// each of those N days. Events with End before Start are malformed and
// excluded from every day. The result is deterministic: events within a day
// are ordered by start time, then ID, regardless of input order.
//
// today marks the IsToday flag and is passed in rather than read from the
// clock so the layout is reproducible.
func BuildMonthGrid(year int, month time.Month, events []models.Event, today time.Time, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}

	valid := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Valid() {
			valid = append(valid, e)
		}
	}

	todayKey := models.DateKey(today)
	n := DaysInMonth(year, month)
	days := make([]Day, 0, n)

	for ordinal := 1; ordinal <= n; ordinal++ {
		date := time.Date(year, month, ordinal, 0, 0, 0, 0, loc)

		var overlapping []models.Event
		for _, e := range valid {
			if e.OverlapsDate(date, loc) {
				overlapping = append(overlapping, e)
			}
		}
		sortEvents(overlapping)

		weekday := date.Weekday()
		days = append(days, Day{
			Date:      date,
			Ordinal:   ordinal,
			Events:    overlapping,
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
			IsToday:   models.DateKey(date) == todayKey,
			// Availability is filled in by Reconcile.
			Availability: models.AvailabilityState{IsAvailable: len(overlapping) == 0},
		})
	}

	return days
}

// sortEvents orders events by start time, breaking ties by ID.
func sortEvents(events []models.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}
