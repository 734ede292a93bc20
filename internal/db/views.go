package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveViewOutput stores a curated view's product list for a run.
func (db *DB) SaveViewOutput(ctx context.Context, runID uuid.UUID, view *types.ViewOutput) error {
	products, err := json.Marshal(view.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal view products: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO view_outputs (run_id, name, generated_at, products)
		 VALUES ($1, $2, $3, $4)`,
		runID, view.Name, view.GeneratedAt, products,
	)
	if err != nil {
		return fmt.Errorf("failed to save view %s: %w", view.Name, err)
	}
	return nil
}

// LatestViewOutput retrieves the most recently stored output for a named
// view. Returns nil when the view has never been stored.
func (db *DB) LatestViewOutput(ctx context.Context, name string) (*types.ViewOutput, error) {
	var view types.ViewOutput
	var products []byte
	err := db.pool.QueryRow(ctx,
		`SELECT name, generated_at, products FROM view_outputs
		 WHERE name = $1 ORDER BY created_at DESC LIMIT 1`,
		name,
	).Scan(&view.Name, &view.GeneratedAt, &products)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get view %s: %w", name, err)
	}

	if err := json.Unmarshal(products, &view.Products); err != nil {
		return nil, fmt.Errorf("failed to decode view %s: %w", name, err)
	}
	return &view, nil
}
