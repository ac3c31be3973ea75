package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const snapshotsSchema = `
	CREATE TABLE IF NOT EXISTS standings_snapshots (
		id           BIGSERIAL PRIMARY KEY,
		kind         TEXT        NOT NULL,
		label        TEXT        NOT NULL,
		standings    JSONB       NOT NULL,
		run_id       UUID,
		generated_at TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (kind, label)
	)
`

// SnapshotRepository mirrors snapshot files into Postgres
type SnapshotRepository struct {
	db *Database
}

// EnsureSchema creates the snapshots table if needed
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, snapshotsSchema); err != nil {
		return fmt.Errorf("failed to create standings_snapshots: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the snapshot identified by kind and label
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO standings_snapshots (kind, label, standings, run_id, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kind, label) DO UPDATE SET
			standings = EXCLUDED.standings,
			run_id = EXCLUDED.run_id,
			generated_at = EXCLUDED.generated_at,
			updated_at = NOW()
	`

	payload, err := json.Marshal(snap.Standings)
	if err != nil {
		return fmt.Errorf("failed to marshal standings: %w", err)
	}

	var runID *string
	if _, err := uuid.Parse(snap.RunID); err == nil {
		runID = &snap.RunID
	}

	start := time.Now()
	_, err = r.db.Pool.Exec(ctx, query, string(snap.Kind), snap.Label, payload, runID, snap.GeneratedAt)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordDBQuery("upsert", "standings_snapshots", status, time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("failed to upsert snapshot %s/%s: %w", snap.Kind, snap.Label, err)
	}

	log.Debug().
		Str("kind", string(snap.Kind)).
		Str("label", snap.Label).
		Msg("Snapshot mirrored to database")

	return nil
}

// Publish implements Mirror
func (r *SnapshotRepository) Publish(ctx context.Context, snap *models.Snapshot) error {
	return r.Upsert(ctx, snap)
}

// Get retrieves a snapshot by kind and label
func (r *SnapshotRepository) Get(ctx context.Context, kind models.SnapshotKind, label string) (*models.Snapshot, error) {
	query := `
		SELECT kind, label, standings, COALESCE(run_id::text, ''), generated_at
		FROM standings_snapshots
		WHERE kind = $1 AND label = $2
	`

	var (
		snap    models.Snapshot
		kindStr string
		payload []byte
	)
	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query, string(kind), label).Scan(
		&kindStr, &snap.Label, &payload, &snap.RunID, &snap.GeneratedAt,
	)
	metrics.RecordDBQuery("select", "standings_snapshots", dbStatus(err), time.Since(start).Seconds())

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", kind, label, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap.Kind = models.SnapshotKind(kindStr)
	if err := json.Unmarshal(payload, &snap.Standings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal standings: %w", err)
	}

	return &snap, nil
}

// ListLabels returns every stored label of kind, oldest first
func (r *SnapshotRepository) ListLabels(ctx context.Context, kind models.SnapshotKind) ([]string, error) {
	query := `
		SELECT label
		FROM standings_snapshots
		WHERE kind = $1
		ORDER BY label
	`

	rows, err := r.db.Pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

func dbStatus(err error) string {
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "error"
	}
	return "success"
}
