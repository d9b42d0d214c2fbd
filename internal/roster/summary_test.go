package roster

import (
	"reflect"
	"testing"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

func TestSummarizeEmptyMonth(t *testing.T) {
	days := Reconcile(BuildMonthGrid(2025, time.March, nil, date(2025, time.March, 1), time.UTC), nil)

	summary := Summarize(days)
	if summary.DistinctEventCount != 0 {
		t.Errorf("DistinctEventCount = %d, want 0", summary.DistinctEventCount)
	}
	if summary.OccupiedDayCount != 0 {
		t.Errorf("OccupiedDayCount = %d, want 0", summary.OccupiedDayCount)
	}
	if len(summary.DistinctLocations) != 0 {
		t.Errorf("DistinctLocations = %v, want empty", summary.DistinctLocations)
	}
}

func TestSummarizeDeduplicatesSpanningEvents(t *testing.T) {
	events := []models.Event{
		// Spans days 10-12: three occupied days, one distinct event.
		{ID: "e1", Location: "Berlin", Start: ts(2025, time.March, 10, 8), End: ts(2025, time.March, 12, 20)},
		// Same day as the span, same location.
		{ID: "e2", Location: "Berlin", Start: ts(2025, time.March, 11, 9), End: ts(2025, time.March, 11, 12)},
		// Separate day, different location.
		{ID: "e3", Location: "Hamburg", Start: ts(2025, time.March, 20, 9), End: ts(2025, time.March, 20, 17)},
	}
	days := Reconcile(BuildMonthGrid(2025, time.March, events, date(2025, time.March, 1), time.UTC), nil)

	summary := Summarize(days)
	if summary.DistinctEventCount != 3 {
		t.Errorf("DistinctEventCount = %d, want 3", summary.DistinctEventCount)
	}
	if summary.OccupiedDayCount != 4 {
		t.Errorf("OccupiedDayCount = %d, want 4 (days 10, 11, 12, 20)", summary.OccupiedDayCount)
	}
	if want := []string{"Berlin", "Hamburg"}; !reflect.DeepEqual(summary.DistinctLocations, want) {
		t.Errorf("DistinctLocations = %v, want %v", summary.DistinctLocations, want)
	}
}

func TestSummarizeOccupancyIndependentOfEventCount(t *testing.T) {
	// One 3-day event: occupancy 3, distinct count 1.
	events := []models.Event{
		{ID: "e1", Location: "Köln", Start: ts(2025, time.March, 10, 8), End: ts(2025, time.March, 12, 20)},
	}
	days := Reconcile(BuildMonthGrid(2025, time.March, events, date(2025, time.March, 1), time.UTC), nil)

	summary := Summarize(days)
	if summary.DistinctEventCount != 1 || summary.OccupiedDayCount != 3 {
		t.Errorf("got {%d, %d}, want {1, 3}", summary.DistinctEventCount, summary.OccupiedDayCount)
	}
}
