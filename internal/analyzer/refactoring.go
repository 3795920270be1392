package analyzer

import (
	"fmt"

	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

// Complexity thresholds for hotspot scoring.
const (
	complexitySevere   = 30
	complexityElevated = 15
)

// RefactoringAnalyzer turns code-quality signals into refactoring
// candidates: one per complexity hotspot, one per duplication pattern,
// one per code smell, plus a lint-debt candidate when the linter reports
// anything. Its thresholds are intentionally conservative; the scores
// just need to order the candidates sensibly below the security and
// dependency work.
type RefactoringAnalyzer struct{}

// NewRefactoringAnalyzer creates the refactoring analyzer.
func NewRefactoringAnalyzer() *RefactoringAnalyzer {
	return &RefactoringAnalyzer{}
}

// Type implements Analyzer.
func (a *RefactoringAnalyzer) Type() string {
	return "refactoring"
}

// Philosophy implements Analyzer.
func (a *RefactoringAnalyzer) Philosophy() string {
	return "Code should stay easy to understand and safe to change"
}

// Analyze implements Analyzer.
func (a *RefactoringAnalyzer) Analyze(analysis *snapshot.ProjectAnalysis) []task.Candidate {
	if analysis == nil {
		return nil
	}

	quality := analysis.Quality
	var out []task.Candidate

	for i, hotspot := range quality.ComplexityHotspots {
		out = append(out, hotspotCandidate(i, hotspot))
	}
	for i, pattern := range quality.DuplicatedPatterns {
		out = append(out, duplicationCandidate(i, pattern))
	}
	for i, smell := range quality.CodeSmells {
		out = append(out, smellCandidate(i, smell))
	}
	if quality.LintIssues > 0 {
		out = append(out, lintCandidate(quality.LintIssues))
	}

	return out
}

// Prioritize implements Analyzer.
func (a *RefactoringAnalyzer) Prioritize(candidates []task.Candidate) *task.Candidate {
	return Best(candidates)
}

func hotspotCandidate(index int, hotspot snapshot.ComplexityHotspot) task.Candidate {
	score := 0.4
	priority := task.PriorityLow
	effort := task.EffortLow
	switch {
	case hotspot.Complexity >= complexitySevere:
		score, priority, effort = 0.7, task.PriorityHigh, task.EffortHigh
	case hotspot.Complexity >= complexityElevated:
		score, priority, effort = 0.55, task.PriorityNormal, task.EffortMedium
	}

	location := hotspot.FilePath
	if hotspot.Function != "" {
		location = fmt.Sprintf("%s in %s", hotspot.Function, hotspot.FilePath)
	}

	return task.Candidate{
		ID:          fmt.Sprintf("refactoring-complexity-hotspot-%d", index),
		Title:       fmt.Sprintf("Reduce complexity of %s", location),
		Description: fmt.Sprintf("Cyclomatic complexity of %d at %s", hotspot.Complexity, location),
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowRefactoring,
		Rationale:   "High-complexity functions concentrate defects and resist safe modification",
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestManualReview,
				Description: "Extract the independent branches into named helpers",
				Priority:    task.SuggestionMedium,
			},
			{
				Type:            task.SuggestTestingReminder,
				Description:     "Cover the existing behavior with tests before restructuring",
				Priority:        task.SuggestionHigh,
				ExpectedOutcome: "The refactor is verifiable against pinned behavior",
			},
		},
	}
}

func duplicationCandidate(index int, pattern snapshot.DuplicationPattern) task.Candidate {
	score := 0.45
	priority := task.PriorityLow
	if pattern.Instances >= 5 || pattern.Lines >= 100 {
		score, priority = 0.6, task.PriorityNormal
	}

	effort := task.EffortLow
	switch {
	case pattern.Lines > 200:
		effort = task.EffortHigh
	case pattern.Lines > 50:
		effort = task.EffortMedium
	}

	description := fmt.Sprintf("%d duplicated instances spanning %d lines", pattern.Instances, pattern.Lines)
	if len(pattern.Files) > 0 {
		description += fmt.Sprintf(" across %s", sampleList(pattern.Files, 3))
	}

	return task.Candidate{
		ID:          fmt.Sprintf("refactoring-duplication-%d", index),
		Title:       fmt.Sprintf("Deduplicate %d repeated code blocks", pattern.Instances),
		Description: description,
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowRefactoring,
		Rationale:   "Duplicated blocks drift apart; fixes applied to one copy silently miss the others",
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestManualReview,
				Description: "Extract the shared logic into a single helper and point every copy at it",
				Priority:    task.SuggestionMedium,
			},
		},
	}
}

func smellCandidate(index int, smell snapshot.CodeSmell) task.Candidate {
	score := 0.3
	priority := task.PriorityLow
	effort := task.EffortLow
	switch smell.Severity {
	case snapshot.SeverityCritical, snapshot.SeverityHigh:
		score, priority, effort = 0.6, task.PriorityNormal, task.EffortMedium
	case snapshot.SeverityMedium:
		score, priority = 0.45, task.PriorityLow
	}

	description := smell.Description
	if description == "" {
		description = fmt.Sprintf("%s smell reported", smell.Kind)
	}
	if smell.FilePath != "" {
		description += fmt.Sprintf(" (%s)", smell.FilePath)
	}

	return task.Candidate{
		ID:          fmt.Sprintf("refactoring-code-smell-%d", index),
		Title:       fmt.Sprintf("Address %s code smell", smell.Kind),
		Description: description,
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowRefactoring,
		Rationale:   "Structural smells are early warnings; they are cheapest to fix before they calcify",
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestManualReview,
				Description: fmt.Sprintf("Review the flagged %s pattern and restructure it", smell.Kind),
				Priority:    task.SuggestionLow,
			},
		},
	}
}

func lintCandidate(count int) task.Candidate {
	score := 0.4
	priority := task.PriorityLow
	effort := task.EffortLow
	switch {
	case count >= 100:
		score, priority, effort = 0.55, task.PriorityNormal, task.EffortHigh
	case count > 20:
		effort = task.EffortMedium
	}

	return task.Candidate{
		ID:          "refactoring-lint-debt",
		Title:       fmt.Sprintf("Clear %d lint issues", count),
		Description: fmt.Sprintf("The linter reports %d outstanding issues", count),
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowRefactoring,
		Rationale:   "Accumulated lint noise buries the warnings that matter",
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:            task.SuggestShellCommand,
				Description:     "Apply the linter's automatic fixes",
				Command:         "npm run lint -- --fix",
				Priority:        task.SuggestionLow,
				ExpectedOutcome: "Mechanically fixable issues cleared in one pass",
			},
			{
				Type:        task.SuggestManualReview,
				Description: "Triage the remaining issues and fix or suppress each with a reason",
				Priority:    task.SuggestionLow,
			},
		},
	}
}
