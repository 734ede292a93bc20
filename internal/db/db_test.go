package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactStepConstants(t *testing.T) {
	steps := []string{
		StepCandidates,
		StepMergedProducts,
		StepScoredProducts,
		StepDemandPayloads,
		StepGuardrailMoves,
	}

	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
	}
}

func TestRunStatusConstants(t *testing.T) {
	assert.Equal(t, "running", RunStatusRunning)
	assert.Equal(t, "completed", RunStatusCompleted)
	assert.Equal(t, "failed", RunStatusFailed)
}

func TestViewStep(t *testing.T) {
	assert.Equal(t, "view_trending", ViewStep("trending"))
	assert.Equal(t, "view_dark_horses", ViewStep("dark_horses"))
}

func TestRunType(t *testing.T) {
	run := Run{
		InputPath:  "candidates/",
		Status:     RunStatusRunning,
		Candidates: 40,
		Products:   31,
	}

	assert.Equal(t, "candidates/", run.InputPath)
	assert.Equal(t, "running", run.Status)
	assert.Equal(t, 40, run.Candidates)
	assert.Nil(t, run.CompletedAt)
}
