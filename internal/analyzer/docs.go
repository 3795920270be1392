package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

// Score constants for the documentation rules.
const (
	scoreDocsCoverageUrgent      = 0.9
	scoreDocsCoverageImprovement = 0.4
	scoreDocsCoreModules         = 0.7
	scoreDocsMissingGeneral      = 0.5

	scoreDocsTierHigh   = 0.8
	scoreDocsTierMedium = 0.6
	scoreDocsTierLow    = 0.4

	scoreDocsExportsPublic   = 0.85
	scoreDocsExportsCritical = 0.65
	scoreDocsExportsOther    = 0.45

	scoreDocsReadmeRequired    = 0.8
	scoreDocsReadmeRecommended = 0.55
	scoreDocsReadmeOptional    = 0.35

	scoreDocsAPICritical = 0.75
	scoreDocsAPILow      = 0.55
	scoreDocsAPIPartial  = 0.4
	scoreDocsAPIQuality  = 0.3
)

// Stale-reference age tiers, in days.
const (
	staleAgeHigh   = 90
	staleAgeMedium = 60
	staleAgeLow    = 30
)

// coreModuleMarkers flag missing-doc paths that look like core modules.
var coreModuleMarkers = []string{"index", "core", "main", "api", "service"}

// DocsAnalyzer finds documentation debt: low coverage, undocumented core
// modules, stale references, version drift, broken links, deprecated-API
// docs, undocumented exports, missing README sections, and incomplete API
// reference. Each rule group is threshold-gated and fires at most once,
// for the highest applicable tier.
type DocsAnalyzer struct{}

// NewDocsAnalyzer creates the documentation analyzer.
func NewDocsAnalyzer() *DocsAnalyzer {
	return &DocsAnalyzer{}
}

// Type implements Analyzer.
func (a *DocsAnalyzer) Type() string {
	return "docs"
}

// Philosophy implements Analyzer.
func (a *DocsAnalyzer) Philosophy() string {
	return "Documentation should track the code it describes"
}

// Analyze implements Analyzer.
func (a *DocsAnalyzer) Analyze(analysis *snapshot.ProjectAnalysis) []task.Candidate {
	if analysis == nil {
		return nil
	}

	docs := analysis.Documentation
	var out []task.Candidate
	out = append(out, coverageCandidates(docs)...)
	out = append(out, missingDocsCandidates(docs.MissingDocs)...)
	out = append(out, staleReferenceCandidates(docs.StaleReferences)...)
	out = append(out, tieredCandidates("docs-version-mismatches", "version mismatches",
		"Documented versions disagree with package metadata", versionMismatchTiers(docs.VersionMismatches))...)
	out = append(out, tieredCandidates("docs-broken-links", "broken links",
		"Documentation cross-references no longer resolve", brokenLinkTiers(docs.BrokenLinks))...)
	out = append(out, tieredCandidates("docs-deprecated-apis", "deprecated API references",
		"Documentation still describes deprecated APIs", deprecatedAPITiers(docs.DeprecatedAPIDocs))...)
	out = append(out, undocumentedExportCandidates(docs.UndocumentedExports)...)
	out = append(out, readmeCandidates(docs.MissingReadmeSections)...)
	out = append(out, apiCompletenessCandidates(docs.APICompleteness)...)
	return out
}

// Prioritize implements Analyzer.
func (a *DocsAnalyzer) Prioritize(candidates []task.Candidate) *task.Candidate {
	return Best(candidates)
}

// --- coverage ---

func coverageCandidates(docs snapshot.Documentation) []task.Candidate {
	coverage := docs.CoveragePercent
	switch {
	case coverage < 20:
		return []task.Candidate{{
			ID:          "docs-coverage-urgent",
			Title:       fmt.Sprintf("Document the codebase (coverage at %.0f%%)", coverage),
			Description: fmt.Sprintf("Documentation coverage is %.0f%%, below the 20%% floor", coverage),
			Priority:    task.PriorityHigh,
			Effort:      task.EffortHigh,
			Workflow:    task.WorkflowDocumentation,
			Rationale:   "At this coverage level, most of the codebase is opaque to new contributors",
			Score:       scoreDocsCoverageUrgent,
			Remediation: []task.RemediationSuggestion{
				{
					Type:            task.SuggestDocumentationPointer,
					Description:     "Start with the entry points and the most-imported modules",
					Priority:        task.SuggestionHigh,
					ExpectedOutcome: "The highest-traffic code paths gain documentation first",
				},
			},
		}}
	case coverage < 50:
		return []task.Candidate{{
			ID:          "docs-coverage-improvement",
			Title:       fmt.Sprintf("Raise documentation coverage (currently %.0f%%)", coverage),
			Description: fmt.Sprintf("Documentation coverage is %.0f%%; the project targets at least 50%%", coverage),
			Priority:    task.PriorityNormal,
			Effort:      task.EffortMedium,
			Workflow:    task.WorkflowDocumentation,
			Rationale:   "Moderate coverage gaps compound as undocumented code is extended",
			Score:       scoreDocsCoverageImprovement,
			Remediation: []task.RemediationSuggestion{
				{
					Type:        task.SuggestDocumentationPointer,
					Description: "Document the modules with the lowest per-file coverage",
					Priority:    task.SuggestionMedium,
				},
			},
		}}
	}
	return nil
}

// --- missing doc files ---

// missingDocsCandidates applies two independent rules: a core-module
// candidate when any missing path looks load-bearing, and a general
// candidate when the overall count exceeds 5.
func missingDocsCandidates(missing []string) []task.Candidate {
	if len(missing) == 0 {
		return nil
	}

	var out []task.Candidate

	var core []string
	for _, path := range missing {
		if isCoreModulePath(path) {
			core = append(core, path)
		}
	}
	sort.Strings(core)

	if len(core) > 0 {
		out = append(out, task.Candidate{
			ID:          "docs-core-modules",
			Title:       fmt.Sprintf("Document %d core modules", len(core)),
			Description: fmt.Sprintf("Core modules missing documentation: %s", sampleList(core, 3)),
			Priority:    task.PriorityNormal,
			Effort:      task.EffortMedium,
			Workflow:    task.WorkflowDocumentation,
			Rationale:   "Core modules are the first thing readers reach for; gaps there cost the most",
			Score:       scoreDocsCoreModules,
			Remediation: []task.RemediationSuggestion{
				{
					Type:        task.SuggestDocumentationPointer,
					Description: "Write module-level documentation for each listed core file",
					Priority:    task.SuggestionHigh,
				},
			},
		})
	}

	if len(missing) > 5 {
		effort := task.EffortMedium
		if len(missing) > 10 {
			effort = task.EffortHigh
		}
		sortedMissing := make([]string, len(missing))
		copy(sortedMissing, missing)
		sort.Strings(sortedMissing)

		out = append(out, task.Candidate{
			ID:          "docs-missing-general",
			Title:       fmt.Sprintf("Document %d files missing docs", len(missing)),
			Description: fmt.Sprintf("Files missing documentation: %s", sampleList(sortedMissing, 3)),
			Priority:    task.PriorityNormal,
			Effort:      effort,
			Workflow:    task.WorkflowDocumentation,
			Rationale:   "A broad documentation gap is cheaper to close in one focused pass",
			Score:       scoreDocsMissingGeneral,
			Remediation: []task.RemediationSuggestion{
				{
					Type:        task.SuggestDocumentationPointer,
					Description: "Work through the missing-docs list, highest-traffic files first",
					Priority:    task.SuggestionMedium,
				},
			},
		})
	}

	return out
}

func isCoreModulePath(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range coreModuleMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// --- three-tier rule groups ---

// tierCounts holds the per-tier item counts for a severity-tiered group.
type tierCounts struct {
	high   int
	medium int
	low    int
}

func (t tierCounts) add(sev snapshot.Severity) tierCounts {
	switch sev {
	case snapshot.SeverityCritical, snapshot.SeverityHigh:
		t.high++
	case snapshot.SeverityMedium:
		t.medium++
	default:
		t.low++
	}
	return t
}

// tieredCandidates emits exactly one candidate for the highest non-empty
// tier of a group, or none when the group is empty.
func tieredCandidates(idPrefix, noun, rationale string, tiers tierCounts) []task.Candidate {
	var (
		tier     string
		count    int
		score    float64
		priority task.Priority
	)

	switch {
	case tiers.high > 0:
		tier, count, score, priority = "high", tiers.high, scoreDocsTierHigh, task.PriorityHigh
	case tiers.medium > 0:
		tier, count, score, priority = "medium", tiers.medium, scoreDocsTierMedium, task.PriorityNormal
	case tiers.low > 0:
		tier, count, score, priority = "low", tiers.low, scoreDocsTierLow, task.PriorityLow
	default:
		return nil
	}

	return []task.Candidate{{
		ID:          fmt.Sprintf("%s-%s", idPrefix, tier),
		Title:       fmt.Sprintf("Fix %d %s severity %s", count, tier, noun),
		Description: fmt.Sprintf("%d %s found at %s severity", count, noun, tier),
		Priority:    priority,
		Effort:      countEffort(count, 5, 15),
		Workflow:    task.WorkflowDocumentation,
		Rationale:   rationale,
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestDocumentationPointer,
				Description: fmt.Sprintf("Review and correct the flagged %s", noun),
				Priority:    task.SuggestionMedium,
			},
		},
	}}
}

func staleReferenceCandidates(refs []snapshot.StaleReference) []task.Candidate {
	var tiers tierCounts
	for _, ref := range refs {
		switch {
		case ref.AgeDays > staleAgeHigh:
			tiers.high++
		case ref.AgeDays > staleAgeMedium:
			tiers.medium++
		case ref.AgeDays > staleAgeLow:
			tiers.low++
		}
	}
	return tieredCandidates("docs-stale-references", "stale references",
		"Stale TODO and FIXME markers mislead readers about what is actually pending", tiers)
}

func versionMismatchTiers(mismatches []snapshot.VersionMismatch) tierCounts {
	var tiers tierCounts
	for _, m := range mismatches {
		tiers = tiers.add(m.Severity)
	}
	return tiers
}

func brokenLinkTiers(links []snapshot.BrokenLink) tierCounts {
	var tiers tierCounts
	for _, l := range links {
		tiers = tiers.add(l.Severity)
	}
	return tiers
}

func deprecatedAPITiers(docs []snapshot.DeprecatedAPIDoc) tierCounts {
	var tiers tierCounts
	for _, d := range docs {
		tiers = tiers.add(d.Severity)
	}
	return tiers
}

// --- undocumented exports ---

func undocumentedExportCandidates(exports []snapshot.UndocumentedExport) []task.Candidate {
	if len(exports) == 0 {
		return nil
	}

	var public, criticalKind, other int
	for _, e := range exports {
		switch {
		case e.Public:
			public++
		case isCriticalExportKind(e.Kind):
			criticalKind++
		default:
			other++
		}
	}

	var (
		id       string
		count    int
		score    float64
		priority task.Priority
		title    string
	)

	switch {
	case public > 0:
		id, count, score, priority = "docs-undocumented-public", public, scoreDocsExportsPublic, task.PriorityHigh
		title = fmt.Sprintf("Document %d undocumented public exports", public)
	case criticalKind > 0:
		id, count, score, priority = "docs-undocumented-types", criticalKind, scoreDocsExportsCritical, task.PriorityNormal
		title = fmt.Sprintf("Document %d undocumented classes and interfaces", criticalKind)
	case other > 5:
		id, count, score, priority = "docs-undocumented-exports", other, scoreDocsExportsOther, task.PriorityLow
		title = fmt.Sprintf("Document %d undocumented exports", other)
	default:
		return nil
	}

	return []task.Candidate{{
		ID:          id,
		Title:       title,
		Description: fmt.Sprintf("%d exported symbols are missing documentation", count),
		Priority:    priority,
		Effort:      countEffort(count, 5, 15),
		Workflow:    task.WorkflowDocumentation,
		Rationale:   "Undocumented exports force readers to reverse-engineer intent from call sites",
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestDocumentationPointer,
				Description: "Add doc comments to the flagged exports",
				Priority:    task.SuggestionMedium,
			},
		},
	}}
}

func isCriticalExportKind(kind string) bool {
	switch strings.ToLower(kind) {
	case "class", "interface":
		return true
	}
	return false
}

// --- README sections ---

func readmeCandidates(sections []snapshot.ReadmeSection) []task.Candidate {
	if len(sections) == 0 {
		return nil
	}

	var required, recommended, optional []string
	for _, s := range sections {
		switch strings.ToLower(s.Importance) {
		case "required":
			required = append(required, s.Name)
		case "recommended":
			recommended = append(recommended, s.Name)
		default:
			optional = append(optional, s.Name)
		}
	}
	sort.Strings(required)
	sort.Strings(recommended)
	sort.Strings(optional)

	var (
		id       string
		names    []string
		score    float64
		priority task.Priority
	)

	switch {
	case len(required) > 0:
		id, names, score, priority = "docs-readme-required", required, scoreDocsReadmeRequired, task.PriorityHigh
	case len(recommended) > 0:
		id, names, score, priority = "docs-readme-recommended", recommended, scoreDocsReadmeRecommended, task.PriorityNormal
	case len(optional) > 2:
		id, names, score, priority = "docs-readme-optional", optional, scoreDocsReadmeOptional, task.PriorityLow
	default:
		return nil
	}

	return []task.Candidate{{
		ID:          id,
		Title:       fmt.Sprintf("Add %d missing README sections", len(names)),
		Description: fmt.Sprintf("Missing sections: %s", sampleList(names, 3)),
		Priority:    priority,
		Effort:      countEffort(len(names), 2, 4),
		Workflow:    task.WorkflowDocumentation,
		Rationale:   "The README is the project's front door; missing sections turn away exactly the readers it should catch",
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestDocumentationPointer,
				Description: fmt.Sprintf("Write the %s sections", sampleList(names, 3)),
				Priority:    task.SuggestionMedium,
			},
		},
	}}
}

// --- API completeness ---

func apiCompletenessCandidates(api *snapshot.APICompleteness) []task.Candidate {
	if api == nil {
		return nil
	}

	effort := countEffort(len(api.UndocumentedItems), 10, 25)

	var (
		id        string
		title     string
		rationale string
		score     float64
		priority  task.Priority
	)

	switch {
	case api.Percent < 30:
		id = "docs-api-completeness-critical"
		title = fmt.Sprintf("Document the API surface (%.0f%% complete)", api.Percent)
		rationale = "Less than a third of the API is documented; consumers are effectively working blind"
		score, priority = scoreDocsAPICritical, task.PriorityHigh
	case api.Percent < 60:
		id = "docs-api-completeness-low"
		title = fmt.Sprintf("Raise API documentation completeness (%.0f%%)", api.Percent)
		rationale = "A majority-documented API still leaves significant guesswork at the edges"
		score, priority = scoreDocsAPILow, task.PriorityNormal
	case api.Percent < 80 && len(api.UndocumentedItems) > 0:
		id = "docs-api-completeness-partial"
		title = fmt.Sprintf("Finish documenting the remaining API items (%.0f%%)", api.Percent)
		rationale = "The API is mostly documented; closing the tail is cheap while context is fresh"
		score, priority = scoreDocsAPIPartial, task.PriorityLow
	case len(api.QualityIssues) > 0:
		id = "docs-api-quality"
		title = fmt.Sprintf("Fix %d API documentation quality issues", len(api.QualityIssues))
		rationale = "Coverage is fine but some entries are inaccurate or unclear"
		score, priority = scoreDocsAPIQuality, task.PriorityLow
	default:
		return nil
	}

	return []task.Candidate{{
		ID:          id,
		Title:       title,
		Description: fmt.Sprintf("API documentation is %.0f%% complete with %d undocumented items and %d quality issues", api.Percent, len(api.UndocumentedItems), len(api.QualityIssues)),
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowDocumentation,
		Rationale:   rationale,
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:        task.SuggestDocumentationPointer,
				Description: "Document the listed API items and address flagged quality issues",
				Priority:    task.SuggestionMedium,
			},
		},
	}}
}

// countEffort scales effort with item count: low up to lowMax, medium up
// to mediumMax, high beyond.
func countEffort(count, lowMax, mediumMax int) task.Effort {
	switch {
	case count <= lowMax:
		return task.EffortLow
	case count <= mediumMax:
		return task.EffortMedium
	default:
		return task.EffortHigh
	}
}
