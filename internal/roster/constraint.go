package roster

import (
	"fmt"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

// ConstraintLevel classifies the outcome of a preference check.
type ConstraintLevel string

const (
	// ConstraintOK means the candidate violates nothing.
	ConstraintOK ConstraintLevel = "ok"

	// ConstraintWarn is advisory: the candidate conflicts with a soft
	// preference (location or event-type affinity). Callers may proceed
	// after confirmation.
	ConstraintWarn ConstraintLevel = "warn"

	// ConstraintBlock is a hard violation (volume cap exceeded). Callers
	// must not proceed.
	ConstraintBlock ConstraintLevel = "block"
)

// ConstraintResult is the outcome of checking a candidate assignment against
// an agent's preferences. It is an ordinary value, never an error: the
// checker mutates nothing and the caller decides what to do with the result.
type ConstraintResult struct {
	Level   ConstraintLevel `json:"level"`
	Reasons []string        `json:"reasons,omitempty"`
}

// Blocked reports whether the result forbids proceeding.
func (r ConstraintResult) Blocked() bool {
	return r.Level == ConstraintBlock
}

// CheckConstraint validates a prospective event assignment against the
// agent's standing preferences, given the events already assigned to the
// agent. Volume caps produce a block; affinity mismatches produce a warning.
// A block takes precedence over any warnings, but all reasons are reported.
//
// The week cap counts events whose start falls in the ISO week of the
// candidate's start; the month cap counts events in the candidate's calendar
// month. The candidate itself is included in both counts.
func CheckConstraint(pref models.AgentPreference, existing []models.Event, candidate models.Event) ConstraintResult {
	pref.Normalize()

	var reasons []string
	level := ConstraintOK

	weekCount := 1 // the candidate
	candYear, candWeek := candidate.Start.ISOWeek()
	for _, e := range existing {
		y, w := e.Start.ISOWeek()
		if y == candYear && w == candWeek {
			weekCount++
		}
	}
	if weekCount > pref.MaxEventsPerWeek {
		level = ConstraintBlock
		reasons = append(reasons, fmt.Sprintf(
			"would exceed the weekly limit of %d events (week already has %d)",
			pref.MaxEventsPerWeek, weekCount-1))
	}

	monthCount := 1
	for _, e := range existing {
		if e.Start.Year() == candidate.Start.Year() && e.Start.Month() == candidate.Start.Month() {
			monthCount++
		}
	}
	if monthCount > pref.MaxEventsPerMonth {
		level = ConstraintBlock
		reasons = append(reasons, fmt.Sprintf(
			"would exceed the monthly limit of %d events (month already has %d)",
			pref.MaxEventsPerMonth, monthCount-1))
	}

	if !pref.PrefersLocation(candidate.Location) {
		if level != ConstraintBlock {
			level = ConstraintWarn
		}
		reasons = append(reasons, fmt.Sprintf(
			"location %q is outside the preferred locations", candidate.Location))
	}

	if !pref.PrefersEventType(candidate.EventType) {
		if level != ConstraintBlock {
			level = ConstraintWarn
		}
		reasons = append(reasons, fmt.Sprintf(
			"event type %q is outside the preferred event types", candidate.EventType))
	}

	return ConstraintResult{Level: level, Reasons: reasons}
}

// EventsInWeek returns the events whose start falls in the ISO week of the
// given date.
func EventsInWeek(events []models.Event, date time.Time) []models.Event {
	year, week := date.ISOWeek()
	var out []models.Event
	for _, e := range events {
		y, w := e.Start.ISOWeek()
		if y == year && w == week {
			out = append(out, e)
		}
	}
	return out
}
