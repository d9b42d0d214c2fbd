package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agent-roster/backend/internal/storage/models"
)

// SnapshotRepository persists the last successfully fetched payload per
// (agent, year, month). Snapshots are a cache of remote truth, not a source
// of record: they exist so a restarted service can render the last good
// month before its first live fetch completes.
type SnapshotRepository struct {
	BaseRepository
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// SaveSnapshot upserts the snapshot for (agent, year, month). Saving the
// same month twice keeps exactly one row.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, agentID string, year int, month time.Month, events []models.Event, overrides map[string]models.AvailabilityOverride) error {
	if events == nil {
		events = []models.Event{}
	}
	if overrides == nil {
		overrides = map[string]models.AvailabilityOverride{}
	}

	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	overridesJSON, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO month_snapshots (agent_id, year, month, events, overrides, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(agent_id, year, month) DO UPDATE SET
			events = excluded.events,
			overrides = excluded.overrides,
			fetched_at = excluded.fetched_at
	`, agentID, year, int(month), string(eventsJSON), string(overridesJSON), r.Now())

	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves the snapshot for (agent, year, month). Both return
// values are nil when no snapshot exists.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, agentID string, year int, month time.Month) ([]models.Event, map[string]models.AvailabilityOverride, error) {
	var eventsJSON, overridesJSON string

	err := r.DB().QueryRowContext(ctx, `
		SELECT events, overrides FROM month_snapshots
		WHERE agent_id = ? AND year = ? AND month = ?
	`, agentID, year, int(month)).Scan(&eventsJSON, &overridesJSON)

	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying snapshot: %w", err)
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(eventsJSON), &events); err != nil {
		return nil, nil, fmt.Errorf("decoding snapshot events: %w", err)
	}
	var overrides map[string]models.AvailabilityOverride
	if err := json.Unmarshal([]byte(overridesJSON), &overrides); err != nil {
		return nil, nil, fmt.Errorf("decoding snapshot overrides: %w", err)
	}
	if events == nil {
		events = []models.Event{}
	}
	if overrides == nil {
		overrides = map[string]models.AvailabilityOverride{}
	}

	return events, overrides, nil
}

// DeleteOlderThan removes snapshots not refreshed since the cutoff.
func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.DB().ExecContext(ctx, `
		DELETE FROM month_snapshots WHERE fetched_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting stale snapshots: %w", err)
	}

	n, _ := result.RowsAffected()
	return int(n), nil
}
