package analyzer

import (
	"time"

	"github.com/google/uuid"

	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

// Engine runs every registered analyzer over one snapshot, concatenates
// their candidates, and selects the single best one to hand off for
// execution. No cross-analyzer deduplication is performed: the same
// package may legitimately appear as both outdated and deprecated, and
// downstream consumers dedup by candidate id if they care.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Report is the outcome of one analysis run. Candidate ids within it are
// deterministic; RunID alone varies between runs so the daemon can
// correlate log lines with a specific invocation.
type Report struct {
	RunID      string           `json:"runId" yaml:"run_id"`
	AnalyzedAt time.Time        `json:"analyzedAt" yaml:"analyzed_at"`
	Candidates []task.Candidate `json:"candidates" yaml:"candidates"`
	Selected   *task.Candidate  `json:"selected,omitempty" yaml:"selected,omitempty"`
	ByAnalyzer map[string]int   `json:"byAnalyzer" yaml:"by_analyzer"`
}

// Analyze runs the full pipeline over a snapshot. Candidates appear in
// analyzer-type order (sorted), each analyzer's output in its own
// deterministic emission order.
func (e *Engine) Analyze(analysis *snapshot.ProjectAnalysis) *Report {
	report := &Report{
		RunID:      uuid.NewString(),
		AnalyzedAt: time.Now().UTC(),
		ByAnalyzer: make(map[string]int),
	}

	for _, a := range e.registry.All() {
		candidates := a.Analyze(analysis)
		report.ByAnalyzer[a.Type()] = len(candidates)
		report.Candidates = append(report.Candidates, candidates...)
	}

	report.Selected = Best(report.Candidates)
	return report
}

// Select runs the pipeline and returns only the chosen candidate, nil
// when the snapshot yields no work.
func (e *Engine) Select(analysis *snapshot.ProjectAnalysis) *task.Candidate {
	return e.Analyze(analysis).Selected
}
