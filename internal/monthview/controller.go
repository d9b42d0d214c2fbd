// Package monthview owns the active month state for an agent's calendar:
// which month is displayed, its reconciled days and summary, and the
// selected day. All mutation of that state goes through the Controller.
package monthview

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/agent-roster/backend/internal/roster"
	"github.com/agent-roster/backend/internal/storage/models"
)

// State describes the load state of the active month.
type State string

const (
	// StateIdle means no month has been loaded yet.
	StateIdle State = "idle"
	// StateLoading means a month fetch is in flight.
	StateLoading State = "loading"
	// StateReady means the active month is fully built and displayable.
	StateReady State = "ready"
)

// Fetcher abstracts the scheduling service operations the controller needs.
// *schedule.Client satisfies it; tests supply fakes.
type Fetcher interface {
	FetchMonthEvents(ctx context.Context, year int, month time.Month) ([]models.Event, error)
	FetchOverrides(ctx context.Context, year int, month time.Month) (map[string]models.AvailabilityOverride, error)
	SubmitOverride(ctx context.Context, override models.AvailabilityOverride) error
	FetchPreferences(ctx context.Context) (*models.AgentPreference, error)
	UpdatePreferences(ctx context.Context, pref models.AgentPreference) error
}

// SnapshotStore persists last-known-good month payloads so a restarted
// service can render before its first live fetch completes.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, agentID string, year int, month time.Month, events []models.Event, overrides map[string]models.AvailabilityOverride) error
	GetSnapshot(ctx context.Context, agentID string, year int, month time.Month) ([]models.Event, map[string]models.AvailabilityOverride, error)
}

// Broadcaster pushes state-change events to connected dashboard clients.
type Broadcaster interface {
	BroadcastMonthLoaded(year int, month time.Month, summary roster.MonthSummary)
	BroadcastMonthLoadError(year int, month time.Month, err error)
	BroadcastOverrideSaved(date string, isAvailable bool)
	BroadcastPreferencesUpdated(pref models.AgentPreference)
}

// MonthView is the displayable projection of the controller's state.
type MonthView struct {
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	State        State               `json:"state"`
	Days         []roster.Day        `json:"days"`
	Summary      roster.MonthSummary `json:"summary"`
	SelectedDate *string             `json:"selected_date,omitempty"`
	FromCache    bool                `json:"from_cache,omitempty"`
}

// Controller coordinates month navigation: it fetches events and overrides,
// rebuilds the grid, reconciles availability, and aggregates the summary.
// A monotonic request sequence guards against stale async results: a fetch
// that finishes after a newer navigation is discarded, never applied.
type Controller struct {
	fetcher     Fetcher
	snapshots   SnapshotStore
	broadcaster Broadcaster
	agentID     string
	loc         *time.Location
	now         func() time.Time

	mu           sync.Mutex
	seq          uint64
	state        State
	year         int
	month        time.Month
	days         []roster.Day
	events       []models.Event
	overrides    map[string]models.AvailabilityOverride
	summary      roster.MonthSummary
	selectedDate *string
	fromCache    bool
	pref         models.AgentPreference
	hasPref      bool
}

// NewController creates a controller for the given agent. snapshots and
// broadcaster may be nil.
func NewController(fetcher Fetcher, snapshots SnapshotStore, broadcaster Broadcaster, agentID string, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	return &Controller{
		fetcher:     fetcher,
		snapshots:   snapshots,
		broadcaster: broadcaster,
		agentID:     agentID,
		loc:         loc,
		now:         time.Now,
		state:       StateIdle,
		pref:        models.DefaultPreference(),
	}
}

// LoadMonth fetches and builds the view for (year, month). On failure the
// previously loaded month stays intact and the error is returned; nothing
// is ever half-applied. A result arriving after a newer LoadMonth call is
// silently discarded.
func (c *Controller) LoadMonth(ctx context.Context, year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("invalid month: %d", month)
	}

	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	prevState := c.state
	if prevState == StateLoading {
		prevState = StateIdle
		if len(c.days) > 0 {
			prevState = StateReady
		}
	}
	c.state = StateLoading
	c.mu.Unlock()

	events, err := c.fetcher.FetchMonthEvents(ctx, year, month)
	if err == nil {
		var overrides map[string]models.AvailabilityOverride
		overrides, err = c.fetcher.FetchOverrides(ctx, year, month)
		if err == nil {
			c.apply(mySeq, year, month, events, overrides, false)
			return nil
		}
	}

	// Failed fetch: revert to the prior state unless a newer load has
	// already taken over.
	c.mu.Lock()
	if c.seq == mySeq {
		c.state = prevState
	}
	c.mu.Unlock()

	if c.broadcaster != nil {
		c.broadcaster.BroadcastMonthLoadError(year, month, err)
	}
	return fmt.Errorf("loading month %d-%02d: %w", year, int(month), err)
}

// apply commits a fetched month if its sequence is still current.
func (c *Controller) apply(seq uint64, year int, month time.Month, events []models.Event, overrides map[string]models.AvailabilityOverride, fromCache bool) {
	days := roster.BuildMonthGrid(year, month, events, c.now().In(c.loc), c.loc)
	days = roster.Reconcile(days, overrides)
	summary := roster.Summarize(days)

	c.mu.Lock()
	if c.seq != seq {
		c.mu.Unlock()
		log.Printf("Discarding stale month load for %d-%02d (seq %d, current %d)", year, int(month), seq, c.seq)
		return
	}
	c.state = StateReady
	c.year = year
	c.month = month
	c.days = days
	c.events = events
	c.overrides = overrides
	c.summary = summary
	c.selectedDate = nil
	c.fromCache = fromCache
	c.mu.Unlock()

	if !fromCache {
		if c.snapshots != nil {
			if err := c.snapshots.SaveSnapshot(context.Background(), c.agentID, year, month, events, overrides); err != nil {
				log.Printf("Failed to save month snapshot: %v", err)
			}
		}
		if c.broadcaster != nil {
			c.broadcaster.BroadcastMonthLoaded(year, month, summary)
		}
	}
}

// LoadCurrentMonth loads the month containing today.
func (c *Controller) LoadCurrentMonth(ctx context.Context) error {
	now := c.now().In(c.loc)
	return c.LoadMonth(ctx, now.Year(), now.Month())
}

// NextMonth navigates one month forward from the active month.
func (c *Controller) NextMonth(ctx context.Context) error {
	year, month := c.targetMonth(1)
	return c.LoadMonth(ctx, year, month)
}

// PreviousMonth navigates one month backward from the active month.
func (c *Controller) PreviousMonth(ctx context.Context) error {
	year, month := c.targetMonth(-1)
	return c.LoadMonth(ctx, year, month)
}

// targetMonth computes the active month shifted by delta months, with year
// rollover. Before any load, the base is the current month.
func (c *Controller) targetMonth(delta int) (int, time.Month) {
	c.mu.Lock()
	year, month := c.year, c.month
	c.mu.Unlock()

	if year == 0 {
		now := c.now().In(c.loc)
		year, month = now.Year(), now.Month()
	}

	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, c.loc)
	return t.Year(), t.Month()
}

// RestoreFromSnapshot loads the last persisted payload for the current
// month, if any. Used at startup so the dashboard has something to show
// before the first live fetch lands. Returns false when no snapshot exists.
func (c *Controller) RestoreFromSnapshot(ctx context.Context) (bool, error) {
	if c.snapshots == nil {
		return false, nil
	}

	now := c.now().In(c.loc)
	events, overrides, err := c.snapshots.GetSnapshot(ctx, c.agentID, now.Year(), now.Month())
	if err != nil {
		return false, fmt.Errorf("reading month snapshot: %w", err)
	}
	if events == nil && overrides == nil {
		return false, nil
	}

	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	c.mu.Unlock()

	c.apply(mySeq, now.Year(), now.Month(), events, overrides, true)
	return true, nil
}

// SelectDay marks a day of the active month as selected. Selection is pure
// state: it triggers no fetch and is cleared on navigation.
func (c *Controller) SelectDay(date string) error {
	if _, err := time.ParseInLocation(models.DateKeyLayout, date, c.loc); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return fmt.Errorf("no month loaded")
	}
	for _, day := range c.days {
		if models.DateKey(day.Date) == date {
			selected := date
			c.selectedDate = &selected
			return nil
		}
	}
	return fmt.Errorf("date %s is not in the active month", date)
}

// SubmitOverride submits an availability declaration for a single date.
// Fire-and-confirm: the write goes to the scheduling service first, and on
// success the active month is re-reconciled from freshly fetched server
// truth rather than patched optimistically. On rejection nothing local
// changes.
func (c *Controller) SubmitOverride(ctx context.Context, date string, isAvailable bool, note *string) error {
	if _, err := time.ParseInLocation(models.DateKeyLayout, date, c.loc); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	override := models.AvailabilityOverride{
		Date:        date,
		IsAvailable: isAvailable,
		Note:        note,
	}
	if err := c.fetcher.SubmitOverride(ctx, override); err != nil {
		return fmt.Errorf("submitting override: %w", err)
	}

	if c.broadcaster != nil {
		c.broadcaster.BroadcastOverrideSaved(date, isAvailable)
	}

	// Refresh the affected month from the server so the day reflects
	// stored truth. A failure here leaves the previous view intact; the
	// write itself already succeeded.
	c.mu.Lock()
	year, month := c.year, c.month
	ready := c.state == StateReady
	c.mu.Unlock()

	if ready {
		if err := c.LoadMonth(ctx, year, month); err != nil {
			log.Printf("Override saved but month refresh failed: %v", err)
		}
	}
	return nil
}

// RefreshPreferences fetches and caches the agent's preference record.
func (c *Controller) RefreshPreferences(ctx context.Context) error {
	pref, err := c.fetcher.FetchPreferences(ctx)
	if err != nil {
		return fmt.Errorf("fetching preferences: %w", err)
	}

	c.mu.Lock()
	c.pref = *pref
	c.hasPref = true
	c.mu.Unlock()
	return nil
}

// UpdatePreferences writes a new preference record to the scheduling
// service and caches it locally on success.
func (c *Controller) UpdatePreferences(ctx context.Context, pref models.AgentPreference) error {
	pref.Normalize()
	if err := c.fetcher.UpdatePreferences(ctx, pref); err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}

	c.mu.Lock()
	c.pref = pref
	c.hasPref = true
	c.mu.Unlock()

	if c.broadcaster != nil {
		c.broadcaster.BroadcastPreferencesUpdated(pref)
	}
	return nil
}

// SetPreferences seeds the cached preference record without a remote call,
// e.g. from the local store at startup.
func (c *Controller) SetPreferences(pref models.AgentPreference) {
	pref.Normalize()
	c.mu.Lock()
	c.pref = pref
	c.hasPref = true
	c.mu.Unlock()
}

// Preferences returns the cached preference record and whether one has been
// loaded from the service yet.
func (c *Controller) Preferences() (models.AgentPreference, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pref, c.hasPref
}

// CheckEvent validates a prospective event assignment against the cached
// preferences and the active month's events. The result is advisory: the
// controller mutates nothing here.
func (c *Controller) CheckEvent(candidate models.Event) roster.ConstraintResult {
	c.mu.Lock()
	pref := c.pref
	events := c.events
	c.mu.Unlock()

	return roster.CheckConstraint(pref, events, candidate)
}

// CheckOverride validates a prospective availability declaration. Declaring
// a day available is meaningless once events occupy it, so that case warns;
// everything else is fine.
func (c *Controller) CheckOverride(date string, isAvailable bool) roster.ConstraintResult {
	c.mu.Lock()
	days := c.days
	c.mu.Unlock()

	if isAvailable {
		for _, day := range days {
			if models.DateKey(day.Date) == date && len(day.Events) > 0 {
				return roster.ConstraintResult{
					Level:   roster.ConstraintWarn,
					Reasons: []string{"day already has assignments; availability is governed by events"},
				}
			}
		}
	}
	return roster.ConstraintResult{Level: roster.ConstraintOK}
}

// View returns the displayable projection of the current state.
func (c *Controller) View() MonthView {
	c.mu.Lock()
	defer c.mu.Unlock()

	days := make([]roster.Day, len(c.days))
	copy(days, c.days)

	return MonthView{
		Year:         c.year,
		Month:        int(c.month),
		State:        c.state,
		Days:         days,
		Summary:      c.summary,
		SelectedDate: c.selectedDate,
		FromCache:    c.fromCache,
	}
}

// State returns the controller's load state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Summary returns the active month's aggregate counters.
func (c *Controller) Summary() roster.MonthSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// ActiveMonth returns the active (year, month) pair, which is zero before
// the first successful load.
func (c *Controller) ActiveMonth() (int, time.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year, c.month
}
