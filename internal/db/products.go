package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
	"github.com/google/uuid"
)

// SaveProductSnapshots stores the scored canonical products of a run, one row
// per product in pipeline order. The full product serializes into payload;
// the scalar columns exist for SQL-side inspection.
func (db *DB) SaveProductSnapshots(ctx context.Context, runID uuid.UUID, products []*types.Product) error {
	for i, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal product %s: %w", p.Name, err)
		}

		var demandScore *float64
		var demandTier *string
		if p.Demand != nil {
			demandScore = &p.Demand.ScoreRaw
			tier := string(p.Demand.Tier)
			demandTier = &tier
		}

		_, err = db.pool.Exec(ctx,
			`INSERT INTO product_snapshots
			 (run_id, position, product_id, canonical_key, name,
			  hot_score, top_score, treasure_score, final_score,
			  demand_score, demand_tier, payload)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			runID, i, p.ID, p.CanonicalKey, p.Name,
			p.HotScore, p.TopScore, p.TreasureScore, p.FinalScore,
			demandScore, demandTier, payload,
		)
		if err != nil {
			return fmt.Errorf("failed to save snapshot for %s: %w", p.Name, err)
		}
	}
	return nil
}

// GetRunProducts loads a run's product snapshots back in pipeline order.
func (db *DB) GetRunProducts(ctx context.Context, runID uuid.UUID) ([]*types.Product, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT payload FROM product_snapshots WHERE run_id = $1 ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var products []*types.Product
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var p types.Product
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		products = append(products, &p)
	}
	return products, nil
}
