// Package db provides PostgreSQL persistence for pipeline runs and their
// artifacts. Storage is optional: the pipeline runs fully in memory and only
// writes here when a database URL is configured.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schemaDDL holds one statement per entry; pgx's extended protocol does not
// accept multi-statement strings.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		input_path TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'running',
		candidates INT NOT NULL DEFAULT 0,
		products INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS run_artifacts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		run_id UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
		step TEXT NOT NULL,
		category TEXT,
		content JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (run_id, step)
	)`,
	`CREATE TABLE IF NOT EXISTS product_snapshots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		run_id UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
		position INT NOT NULL,
		product_id TEXT NOT NULL,
		canonical_key TEXT NOT NULL,
		name TEXT NOT NULL,
		hot_score INT NOT NULL DEFAULT 0,
		top_score INT NOT NULL DEFAULT 0,
		treasure_score INT NOT NULL DEFAULT 0,
		final_score INT NOT NULL DEFAULT 0,
		demand_score DOUBLE PRECISION,
		demand_tier TEXT,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS view_outputs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		run_id UUID REFERENCES pipeline_runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		products JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_snapshots_run ON product_snapshots (run_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_view_outputs_name ON view_outputs (name, created_at DESC)`,
}

// EnsureSchema creates the tables this package uses if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// CreateRun creates a new pipeline run record and returns its ID.
func (db *DB) CreateRun(ctx context.Context, inputPath string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (input_path, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		inputPath,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// UpdateRunCounts records how many candidates went in and how many canonical
// products came out of a run.
func (db *DB) UpdateRunCounts(ctx context.Context, runID uuid.UUID, candidates, products int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs SET candidates = $1, products = $2 WHERE id = $3`,
		candidates, products, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run counts: %w", err)
	}
	return nil
}

// CompleteRun marks a pipeline run as finished with the given status.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a pipeline run by ID. Returns nil when no such run exists.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, input_path, status, candidates, products, created_at, completed_at
		 FROM pipeline_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.InputPath, &run.Status, &run.Candidates, &run.Products, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent pipeline runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, input_path, status, candidates, products, created_at, completed_at
		 FROM pipeline_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.InputPath, &run.Status, &run.Candidates, &run.Products, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// DeleteRun deletes a pipeline run and all its artifacts, snapshots, and view
// outputs via cascade.
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM pipeline_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
