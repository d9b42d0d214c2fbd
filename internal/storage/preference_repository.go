package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/agent-roster/backend/internal/storage/models"
)

// PreferenceRepository caches the agent's preference record locally so the
// constraint checker has something to work with before the first live
// preference fetch, and across restarts.
type PreferenceRepository struct {
	BaseRepository
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Save upserts the cached preference record for the agent.
func (r *PreferenceRepository) Save(ctx context.Context, agentID string, pref models.AgentPreference) error {
	payload, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO preference_cache (agent_id, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(agent_id) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, agentID, string(payload), r.Now())

	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}

// Get retrieves the cached preference record, or nil when none is cached.
func (r *PreferenceRepository) Get(ctx context.Context, agentID string) (*models.AgentPreference, error) {
	var payload string

	err := r.DB().QueryRowContext(ctx, `
		SELECT payload FROM preference_cache WHERE agent_id = ?
	`, agentID).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}

	var pref models.AgentPreference
	if err := json.Unmarshal([]byte(payload), &pref); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	pref.Normalize()

	return &pref, nil
}
