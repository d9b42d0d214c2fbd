package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

// Client is a client for the remote scheduling service API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new scheduling service API client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// AgentID returns the agent this client is scoped to.
func (c *Client) AgentID() string {
	return c.config.AgentID
}

// monthEventsResponse is the wire shape for the month events listing.
// Decoding is strict: a response that does not match this shape is a
// failure, never reshaped by guesswork.
type monthEventsResponse struct {
	Events []models.Event `json:"events"`
}

// FetchMonthEvents retrieves the agent's events for the given month.
func (c *Client) FetchMonthEvents(ctx context.Context, year int, month time.Month) ([]models.Event, error) {
	path := fmt.Sprintf("/api/agents/%s/events?year=%d&month=%d", c.config.AgentID, year, int(month))

	var resp monthEventsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Events == nil {
		resp.Events = []models.Event{}
	}

	return resp.Events, nil
}

// overridesResponse is the wire shape for the availability overrides listing.
type overridesResponse struct {
	Overrides []models.AvailabilityOverride `json:"overrides"`
}

// FetchOverrides retrieves the agent's availability overrides for the given
// month, keyed by their YYYY-MM-DD date.
func (c *Client) FetchOverrides(ctx context.Context, year int, month time.Month) (map[string]models.AvailabilityOverride, error) {
	path := fmt.Sprintf("/api/agents/%s/availability?year=%d&month=%d", c.config.AgentID, year, int(month))

	var resp overridesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	overrides := make(map[string]models.AvailabilityOverride, len(resp.Overrides))
	for _, o := range resp.Overrides {
		if _, err := o.ParseDate(time.UTC); err != nil {
			return nil, fmt.Errorf("malformed override date %q: %w", o.Date, err)
		}
		// One override per date; the service guarantees this, the map
		// enforces it on our side.
		overrides[o.Date] = o
	}

	return overrides, nil
}

// SubmitOverride upserts an availability override for a single date. The
// service replaces any prior override for that (agent, date); it never
// creates duplicates.
func (c *Client) SubmitOverride(ctx context.Context, override models.AvailabilityOverride) error {
	if _, err := override.ParseDate(time.UTC); err != nil {
		return fmt.Errorf("malformed override date %q: %w", override.Date, err)
	}

	path := fmt.Sprintf("/api/agents/%s/availability/%s", c.config.AgentID, override.Date)
	body := map[string]any{
		"is_available": override.IsAvailable,
	}
	if override.Note != nil {
		body["note"] = *override.Note
	}

	return c.send(ctx, "PUT", path, body, nil)
}

// FetchPreferences retrieves the agent's standing preference record.
func (c *Client) FetchPreferences(ctx context.Context) (*models.AgentPreference, error) {
	path := fmt.Sprintf("/api/agents/%s/preferences", c.config.AgentID)

	var pref models.AgentPreference
	if err := c.get(ctx, path, &pref); err != nil {
		return nil, err
	}
	pref.Normalize()

	return &pref, nil
}

// UpdatePreferences replaces the agent's preference record.
func (c *Client) UpdatePreferences(ctx context.Context, pref models.AgentPreference) error {
	pref.Normalize()
	path := fmt.Sprintf("/api/agents/%s/preferences", c.config.AgentID)
	return c.send(ctx, "PUT", path, pref, nil)
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, "GET", path, nil, out)
}

// send performs a request with an optional JSON body and optional decode
// target. Any non-2xx response becomes an *APIError.
func (c *Client) send(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// newRequest creates a new HTTP request with authentication.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
