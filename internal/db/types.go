package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a pipeline run record.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	InputPath   string     `json:"input_path"`
	Status      string     `json:"status"`
	Candidates  int        `json:"candidates"`
	Products    int        `json:"products"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status constants.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Artifact step constants for known artifact types.
const (
	StepCandidates     = "candidates"
	StepMergedProducts = "merged_products"
	StepScoredProducts = "scored_products"
	StepDemandPayloads = "demand_payloads"
	StepGuardrailMoves = "guardrail_moves"
)

// Artifact category constants.
const (
	CategoryIngestion = "ingestion"
	CategoryCuration  = "curation"
	CategorySignals   = "signals"
	CategoryViews     = "views"
)

// ViewStep derives the artifact step name for a named view's output.
func ViewStep(viewName string) string {
	return "view_" + viewName
}
