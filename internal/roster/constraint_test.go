package roster

import (
	"testing"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

func TestCheckConstraintWeekCap(t *testing.T) {
	pref := models.AgentPreference{MaxEventsPerWeek: 2, MaxEventsPerMonth: 31}

	// Two events already in the ISO week of Wed 2025-03-12 (Mon 10 - Sun 16).
	existing := []models.Event{
		{ID: "e1", Start: ts(2025, time.March, 10, 9), End: ts(2025, time.March, 10, 17)},
		{ID: "e2", Start: ts(2025, time.March, 11, 9), End: ts(2025, time.March, 11, 17)},
	}
	candidate := models.Event{ID: "e3", Start: ts(2025, time.March, 12, 9), End: ts(2025, time.March, 12, 17)}

	result := CheckConstraint(pref, existing, candidate)
	if result.Level != ConstraintBlock {
		t.Fatalf("level = %s, want block", result.Level)
	}
	if !result.Blocked() {
		t.Error("Blocked() = false for a block result")
	}

	// A candidate in the following ISO week is fine.
	nextWeek := models.Event{ID: "e4", Start: ts(2025, time.March, 17, 9), End: ts(2025, time.March, 17, 17)}
	if result := CheckConstraint(pref, existing, nextWeek); result.Level != ConstraintOK {
		t.Errorf("level = %s for next-week candidate, want ok", result.Level)
	}
}

func TestCheckConstraintWeekCapAcrossMonthBoundary(t *testing.T) {
	// ISO weeks ignore month boundaries: Mon 2025-03-31 and Tue 2025-04-01
	// share a week.
	pref := models.AgentPreference{MaxEventsPerWeek: 1, MaxEventsPerMonth: 31}
	existing := []models.Event{
		{ID: "e1", Start: ts(2025, time.March, 31, 9), End: ts(2025, time.March, 31, 17)},
	}
	candidate := models.Event{ID: "e2", Start: ts(2025, time.April, 1, 9), End: ts(2025, time.April, 1, 17)}

	if result := CheckConstraint(pref, existing, candidate); result.Level != ConstraintBlock {
		t.Errorf("level = %s, want block across month boundary", result.Level)
	}
}

func TestCheckConstraintMonthCap(t *testing.T) {
	pref := models.AgentPreference{MaxEventsPerWeek: 7, MaxEventsPerMonth: 2}
	existing := []models.Event{
		{ID: "e1", Start: ts(2025, time.March, 3, 9), End: ts(2025, time.March, 3, 17)},
		{ID: "e2", Start: ts(2025, time.March, 20, 9), End: ts(2025, time.March, 20, 17)},
	}
	candidate := models.Event{ID: "e3", Start: ts(2025, time.March, 25, 9), End: ts(2025, time.March, 25, 17)}

	if result := CheckConstraint(pref, existing, candidate); result.Level != ConstraintBlock {
		t.Errorf("level = %s, want block", result.Level)
	}

	// At the cap but not over it: one existing event, cap two.
	if result := CheckConstraint(pref, existing[:1], candidate); result.Level != ConstraintOK {
		t.Errorf("level = %s at cap, want ok", result.Level)
	}
}

func TestCheckConstraintAffinityWarnings(t *testing.T) {
	pref := models.AgentPreference{
		PreferredLocations:  []string{"Berlin", "Hamburg"},
		PreferredEventTypes: []string{"promotion"},
		MaxEventsPerWeek:    7,
		MaxEventsPerMonth:   31,
	}
	candidate := models.Event{
		ID: "e1", Location: "Munich", EventType: "gala",
		Start: ts(2025, time.March, 5, 9), End: ts(2025, time.March, 5, 17),
	}

	result := CheckConstraint(pref, nil, candidate)
	if result.Level != ConstraintWarn {
		t.Fatalf("level = %s, want warn", result.Level)
	}
	if len(result.Reasons) != 2 {
		t.Errorf("got %d reasons, want 2 (location and type)", len(result.Reasons))
	}

	// Empty preference lists never warn.
	open := models.AgentPreference{MaxEventsPerWeek: 7, MaxEventsPerMonth: 31}
	if result := CheckConstraint(open, nil, candidate); result.Level != ConstraintOK {
		t.Errorf("level = %s with empty affinity lists, want ok", result.Level)
	}
}

func TestCheckConstraintBlockOutranksWarn(t *testing.T) {
	pref := models.AgentPreference{
		PreferredLocations: []string{"Berlin"},
		MaxEventsPerWeek:   1,
		MaxEventsPerMonth:  31,
	}
	existing := []models.Event{
		{ID: "e1", Start: ts(2025, time.March, 10, 9), End: ts(2025, time.March, 10, 17)},
	}
	candidate := models.Event{
		ID: "e2", Location: "Munich",
		Start: ts(2025, time.March, 11, 9), End: ts(2025, time.March, 11, 17),
	}

	result := CheckConstraint(pref, existing, candidate)
	if result.Level != ConstraintBlock {
		t.Fatalf("level = %s, want block", result.Level)
	}
	// Both the cap violation and the affinity mismatch are reported.
	if len(result.Reasons) != 2 {
		t.Errorf("got %d reasons, want 2", len(result.Reasons))
	}
}

func TestEventsInWeek(t *testing.T) {
	events := []models.Event{
		{ID: "mon", Start: ts(2025, time.March, 10, 9)},
		{ID: "sun", Start: ts(2025, time.March, 16, 9)},
		{ID: "nextMon", Start: ts(2025, time.March, 17, 9)},
	}

	got := EventsInWeek(events, date(2025, time.March, 12))
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].ID != "mon" || got[1].ID != "sun" {
		t.Errorf("unexpected events: %v", got)
	}
}
