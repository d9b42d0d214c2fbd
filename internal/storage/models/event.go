// Package models contains the domain models for the application.
package models

import (
	"time"
)

// Event represents a scheduled work assignment for an agent.
// Events are owned by the remote scheduling service and are read-only
// from this service's perspective. The [Start, End) window may span
// multiple calendar dates.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	EventType string    `json:"event_type,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// Valid reports whether the event interval is well formed.
// Events with End before Start are excluded from calendar views.
func (e Event) Valid() bool {
	return !e.End.Before(e.Start)
}

// OverlapsDate reports whether the event's [Start, End) interval
// intersects the 24h window of the given calendar date.
func (e Event) OverlapsDate(date time.Time, loc *time.Location) bool {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return e.Start.Before(dayEnd) && e.End.After(dayStart)
}
