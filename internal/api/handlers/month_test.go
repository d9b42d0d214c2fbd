package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agent-roster/backend/internal/monthview"
	"github.com/agent-roster/backend/internal/storage/models"
)

// stubFetcher serves a fixed month payload.
type stubFetcher struct {
	events []models.Event
	fail   bool
}

func (s *stubFetcher) FetchMonthEvents(ctx context.Context, year int, month time.Month) ([]models.Event, error) {
	if s.fail {
		return nil, errors.New("upstream down")
	}
	return s.events, nil
}

func (s *stubFetcher) FetchOverrides(ctx context.Context, year int, month time.Month) (map[string]models.AvailabilityOverride, error) {
	if s.fail {
		return nil, errors.New("upstream down")
	}
	return map[string]models.AvailabilityOverride{}, nil
}

func (s *stubFetcher) SubmitOverride(ctx context.Context, override models.AvailabilityOverride) error {
	if s.fail {
		return errors.New("upstream down")
	}
	return nil
}

func (s *stubFetcher) FetchPreferences(ctx context.Context) (*models.AgentPreference, error) {
	pref := models.DefaultPreference()
	return &pref, nil
}

func (s *stubFetcher) UpdatePreferences(ctx context.Context, pref models.AgentPreference) error {
	return nil
}

func TestGetMonthWithParams(t *testing.T) {
	fetcher := &stubFetcher{events: []models.Event{
		{ID: "e1", Location: "Berlin",
			Start: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)},
	}}
	controller := monthview.NewController(fetcher, nil, nil, "agent-1", time.UTC)

	req := httptest.NewRequest("GET", "/api/month?year=2025&month=3", nil)
	rec := httptest.NewRecorder()
	GetMonth(controller)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var view monthview.MonthView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if view.Year != 2025 || view.Month != 3 || len(view.Days) != 31 {
		t.Errorf("view = year %d month %d days %d", view.Year, view.Month, len(view.Days))
	}
	if view.Summary.DistinctEventCount != 1 {
		t.Errorf("summary = %+v", view.Summary)
	}
}

func TestGetMonthInvalidParams(t *testing.T) {
	controller := monthview.NewController(&stubFetcher{}, nil, nil, "agent-1", time.UTC)

	req := httptest.NewRequest("GET", "/api/month?year=2025&month=13", nil)
	rec := httptest.NewRecorder()
	GetMonth(controller)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetMonthUpstreamFailure(t *testing.T) {
	controller := monthview.NewController(&stubFetcher{fail: true}, nil, nil, "agent-1", time.UTC)

	req := httptest.NewRequest("GET", "/api/month?year=2025&month=3", nil)
	rec := httptest.NewRecorder()
	GetMonth(controller)(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestSubmitOverrideHandler(t *testing.T) {
	controller := monthview.NewController(&stubFetcher{}, nil, nil, "agent-1", time.UTC)
	if err := controller.LoadMonth(context.Background(), 2025, time.March); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{"date": "2025-03-05", "is_available": false, "note": "vacation"}`
	req := httptest.NewRequest("POST", "/api/overrides", strings.NewReader(body))
	rec := httptest.NewRecorder()
	SubmitOverride(controller)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitOverrideMissingDate(t *testing.T) {
	controller := monthview.NewController(&stubFetcher{}, nil, nil, "agent-1", time.UTC)

	req := httptest.NewRequest("POST", "/api/overrides", strings.NewReader(`{"is_available": false}`))
	rec := httptest.NewRecorder()
	SubmitOverride(controller)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCheckConstraintHandler(t *testing.T) {
	controller := monthview.NewController(&stubFetcher{}, nil, nil, "agent-1", time.UTC)
	controller.SetPreferences(models.AgentPreference{
		PreferredLocations: []string{"Berlin"},
		MaxEventsPerWeek:   7,
		MaxEventsPerMonth:  31,
	})

	body := `{"event": {"id": "e1", "location": "Munich",
		"start": "2025-03-05T09:00:00Z", "end": "2025-03-05T17:00:00Z"}}`
	req := httptest.NewRequest("POST", "/api/constraints/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CheckConstraint(controller)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Level   string   `json:"level"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Level != "warn" {
		t.Errorf("level = %s, want warn", result.Level)
	}
}

func TestCheckConstraintRequiresExactlyOneCandidate(t *testing.T) {
	controller := monthview.NewController(&stubFetcher{}, nil, nil, "agent-1", time.UTC)

	for _, body := range []string{`{}`, `{"event": {"id": "e"}, "override": {"date": "2025-03-05"}}`} {
		req := httptest.NewRequest("POST", "/api/constraints/check", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CheckConstraint(controller)(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}
