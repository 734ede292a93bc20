// Package steps defines the curation pipeline's stage graph: step metadata,
// dependencies, and execution-order validation.
package steps

import (
	"fmt"
	"sort"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/db"
)

// Pipeline step names.
const (
	LoadCandidates  = "load_candidates"
	MergeCandidates = "merge_candidates"
	ScoreProducts   = "score_products"
	CollectSignals  = "collect_signals"
	AggregateDemand = "aggregate_demand"
	ApplyGuardrail  = "apply_guardrail"
	BuildViews      = "build_views"
)

// StepDefinition defines metadata for a pipeline step.
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// Registry holds all step definitions.
var Registry = map[string]StepDefinition{
	LoadCandidates: {
		Name:         LoadCandidates,
		Category:     db.CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
	},
	MergeCandidates: {
		Name:         MergeCandidates,
		Category:     db.CategoryCuration,
		Dependencies: []string{LoadCandidates},
		Optional:     []string{},
	},
	ScoreProducts: {
		Name:         ScoreProducts,
		Category:     db.CategoryCuration,
		Dependencies: []string{MergeCandidates},
		Optional:     []string{},
	},
	CollectSignals: {
		Name:         CollectSignals,
		Category:     db.CategorySignals,
		Dependencies: []string{MergeCandidates},
		Optional:     []string{},
	},
	AggregateDemand: {
		Name:         AggregateDemand,
		Category:     db.CategorySignals,
		Dependencies: []string{CollectSignals},
		Optional:     []string{},
	},
	ApplyGuardrail: {
		Name:         ApplyGuardrail,
		Category:     db.CategoryCuration,
		Dependencies: []string{ScoreProducts, AggregateDemand},
		Optional:     []string{},
	},
	BuildViews: {
		Name:         BuildViews,
		Category:     db.CategoryViews,
		Dependencies: []string{ScoreProducts},
		Optional:     []string{ApplyGuardrail},
	},
}

// DependencyError reports a step whose required dependencies have not run.
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// ValidateDependencies checks that a step's required dependencies all appear
// in the completed set.
func ValidateDependencies(stepName string, completed map[string]bool) error {
	def, ok := Registry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// AvailableSteps returns the steps whose dependencies are met and which have
// not themselves completed, sorted by name.
func AvailableSteps(completed map[string]bool) []string {
	var available []string
	for name := range Registry {
		if completed[name] {
			continue
		}
		if err := ValidateDependencies(name, completed); err != nil {
			continue
		}
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

// BlockedSteps returns the steps that cannot run yet because a dependency is
// missing, sorted by name.
func BlockedSteps(completed map[string]bool) []string {
	var blocked []string
	for name := range Registry {
		if completed[name] {
			continue
		}
		if err := ValidateDependencies(name, completed); err != nil {
			blocked = append(blocked, name)
		}
	}
	sort.Strings(blocked)
	return blocked
}
