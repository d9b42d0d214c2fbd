package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL: server.URL,
		Token:   "test-token",
		AgentID: "agent-1",
		Timeout: 5 * time.Second,
	})
}

func TestFetchMonthEvents(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/api/agents/agent-1/events" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if y, m := r.URL.Query().Get("year"), r.URL.Query().Get("month"); y != "2025" || m != "3" {
			t.Errorf("query = year %q month %q", y, m)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"events": []map[string]any{
				{"id": "e1", "title": "Expo", "location": "Berlin",
					"start": "2025-03-10T09:00:00Z", "end": "2025-03-10T17:00:00Z"},
			},
		})
	})

	events, err := client.FetchMonthEvents(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].ID != "e1" || events[0].Location != "Berlin" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestFetchMonthEventsEmptyList(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"events": []any{}})
	})

	events, err := client.FetchMonthEvents(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", events)
	}
}

func TestFetchMonthEventsShapeMismatch(t *testing.T) {
	// The service boundary decodes strictly: an array where an object is
	// expected is a failure, not something to reshape.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "e1"}]`))
	})

	if _, err := client.FetchMonthEvents(context.Background(), 2025, time.March); err == nil {
		t.Fatal("expected decode error for mismatched shape")
	}
}

func TestNonSuccessStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchMonthEvents(context.Background(), 2025, time.March)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if IsAuthError(err) {
		t.Error("500 must not classify as auth failure")
	}
}

func TestAuthFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusUnauthorized)
	})

	_, err := client.FetchPreferences(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError = false for 401: %v", err)
	}
}

func TestFetchOverrides(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"overrides": []map[string]any{
				{"date": "2025-03-05", "is_available": false, "note": "vacation"},
				{"date": "2025-03-06", "is_available": false},
			},
		})
	})

	overrides, err := client.FetchOverrides(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overrides) != 2 {
		t.Fatalf("got %d overrides, want 2", len(overrides))
	}
	o := overrides["2025-03-05"]
	if o.IsAvailable || o.Note == nil || *o.Note != "vacation" {
		t.Errorf("unexpected override: %+v", o)
	}
}

func TestFetchOverridesMalformedDate(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"overrides": []map[string]any{
				{"date": "March 5th", "is_available": false},
			},
		})
	})

	if _, err := client.FetchOverrides(context.Background(), 2025, time.March); err == nil {
		t.Fatal("expected error for malformed override date")
	}
}

func TestSubmitOverride(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != "PUT" {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	note := "vacation"
	err := client.SubmitOverride(context.Background(), models.AvailabilityOverride{
		Date: "2025-03-05", IsAvailable: false, Note: &note,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/agents/agent-1/availability/2025-03-05" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["is_available"] != false || gotBody["note"] != "vacation" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestSubmitOverrideRejectedMalformedDate(t *testing.T) {
	called := false
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := client.SubmitOverride(context.Background(), models.AvailabilityOverride{Date: "bad"})
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if called {
		t.Error("malformed override must not reach the service")
	}
}

func TestUpdatePreferencesNormalizesCaps(t *testing.T) {
	var gotBody models.AgentPreference
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdatePreferences(context.Background(), models.AgentPreference{
		MaxEventsPerWeek: 0, MaxEventsPerMonth: -3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.MaxEventsPerWeek != 1 || gotBody.MaxEventsPerMonth != 1 {
		t.Errorf("caps not normalized: %+v", gotBody)
	}
}
