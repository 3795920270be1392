// Package analyzer implements the candidate pipeline: pluggable analyzers
// that convert a project-analysis snapshot into scored task candidates,
// and the selector that picks the single best one to hand off for
// autonomous execution.
//
// Each analyzer embodies a distinct maintenance philosophy and shares only
// the candidate vocabulary with its siblings. Analysis is a pure,
// synchronous transformation: given an identical snapshot, every call
// produces an identical candidate list in identical order.
package analyzer

import (
	"sort"

	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

// Analyzer is the contract every concrete analyzer implements.
type Analyzer interface {
	// Type returns the fixed category tag used by downstream routing.
	// Example: "maintenance", "docs", "refactoring"
	Type() string

	// Philosophy returns the guiding principle for this analyzer.
	Philosophy() string

	// Analyze converts a snapshot into zero or more scored candidates.
	// It is total: absent optional data skips the corresponding rules,
	// and no well-typed snapshot causes a failure.
	Analyze(analysis *snapshot.ProjectAnalysis) []task.Candidate

	// Prioritize returns the best candidate from a list, or nil for an
	// empty list.
	Prioritize(candidates []task.Candidate) *task.Candidate
}

// Best returns the highest-ranked candidate, or nil for an empty list.
//
// Ranking is by score, then priority rank, then lexicographic candidate
// id. Score is the sole key the original behavior compared; the latter
// two make ties explicit and deterministic instead of leaving them to
// input order.
func Best(candidates []task.Candidate) *task.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if outranks(c, best) {
			best = c
		}
	}
	return &best
}

// Rank sorts candidates in selection order, best first. The sort is
// stable and uses the same ordering as Best.
func Rank(candidates []task.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return outranks(candidates[i], candidates[j])
	})
}

// outranks reports whether a should be selected ahead of b.
func outranks(a, b task.Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() < b.Priority.Rank()
	}
	return a.ID < b.ID
}
