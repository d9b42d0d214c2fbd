package models

import (
	"time"
)

// DateKeyLayout is the canonical encoding for calendar dates used to key
// availability overrides.
const DateKeyLayout = "2006-01-02"

// AvailabilityOverride is an agent-submitted availability declaration for a
// single calendar date. Overrides never span a range; the remote service
// stores at most one per (agent, date).
type AvailabilityOverride struct {
	Date        string    `json:"date"` // YYYY-MM-DD
	IsAvailable bool      `json:"is_available"`
	Note        *string   `json:"note,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ParseDate returns the override's date as a time.Time in the given location.
func (o AvailabilityOverride) ParseDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, o.Date, loc)
}

// DateKey encodes a time as the canonical override map key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// AvailabilityState is the reconciled availability of a single day.
// The boolean is derived (events take precedence over overrides); the note
// is carried from the override verbatim when one exists.
type AvailabilityState struct {
	IsAvailable bool    `json:"is_available"`
	Note        *string `json:"note,omitempty"`
}
