package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/groundskeep/groundskeep/internal/cvss"
	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

// Score constants for the maintenance rules. These are part of the
// pipeline's stable contract with downstream consumers: each security
// severity and update type always maps to exactly one of these values.
const (
	scoreSecurityCritical = 1.0
	scoreSecurityHigh     = 0.9
	scoreSecurityMedium   = 0.7
	scoreSecurityLow      = 0.5

	scoreUpdateMajor = 0.8
	scoreUpdateMinor = 0.6
	scoreUpdatePatch = 0.4

	scoreDeprecatedReplaceable = 0.6
	scoreDeprecatedOrphaned    = 0.8

	scoreLegacySecurity   = 1.0
	scoreLegacyPreRelease = 0.8
	scoreLegacyOutdated   = 0.5
)

// MaintenanceAnalyzer finds security vulnerabilities, outdated
// dependencies, and deprecated packages in a snapshot's dependency
// health section. Its three rule groups are independent: each appends
// zero or more candidates and never consults the others.
type MaintenanceAnalyzer struct{}

// NewMaintenanceAnalyzer creates the maintenance analyzer.
func NewMaintenanceAnalyzer() *MaintenanceAnalyzer {
	return &MaintenanceAnalyzer{}
}

// Type implements Analyzer.
func (a *MaintenanceAnalyzer) Type() string {
	return "maintenance"
}

// Philosophy implements Analyzer.
func (a *MaintenanceAnalyzer) Philosophy() string {
	return "Dependencies should be current, secure, and supported"
}

// Analyze implements Analyzer.
func (a *MaintenanceAnalyzer) Analyze(analysis *snapshot.ProjectAnalysis) []task.Candidate {
	if analysis == nil {
		return nil
	}

	deps := analysis.Dependencies
	var out []task.Candidate
	out = append(out, securityCandidates(deps)...)
	out = append(out, outdatedCandidates(deps)...)
	out = append(out, deprecatedCandidates(deps.DeprecatedPackages)...)
	return out
}

// Prioritize implements Analyzer.
func (a *MaintenanceAnalyzer) Prioritize(candidates []task.Candidate) *task.Candidate {
	return Best(candidates)
}

// --- security vulnerabilities ---

// securityCandidates converts vulnerabilities into candidates. Rich data
// wins only when non-empty; otherwise the legacy free-form tokens apply.
func securityCandidates(deps snapshot.DependencyHealth) []task.Candidate {
	if len(deps.SecurityIssues) == 0 {
		return legacySecurityCandidates(deps.Security)
	}

	buckets := make(map[snapshot.Severity][]snapshot.SecurityVulnerability)
	for _, v := range deps.SecurityIssues {
		sev := v.Severity
		if !sev.Valid() {
			// Malformed severities are an upstream data-quality problem;
			// surface them in the lowest bucket rather than failing.
			sev = snapshot.SeverityLow
		}
		buckets[sev] = append(buckets[sev], v)
	}
	for _, bucket := range buckets {
		sortVulnerabilities(bucket)
	}

	var out []task.Candidate

	// Critical vulnerabilities always get individual attention.
	for _, v := range buckets[snapshot.SeverityCritical] {
		out = append(out, individualVulnCandidate(v, snapshot.SeverityCritical))
	}

	// High severity: individual up to 2, grouped beyond that.
	if high := buckets[snapshot.SeverityHigh]; len(high) > 0 {
		if len(high) <= 2 {
			for _, v := range high {
				out = append(out, individualVulnCandidate(v, snapshot.SeverityHigh))
			}
		} else {
			out = append(out, groupedVulnCandidate(snapshot.SeverityHigh, high))
		}
	}

	// Medium and low are always grouped.
	if medium := buckets[snapshot.SeverityMedium]; len(medium) > 0 {
		out = append(out, groupedVulnCandidate(snapshot.SeverityMedium, medium))
	}
	if low := buckets[snapshot.SeverityLow]; len(low) > 0 {
		out = append(out, groupedVulnCandidate(snapshot.SeverityLow, low))
	}

	return out
}

func sortVulnerabilities(vulns []snapshot.SecurityVulnerability) {
	sort.Slice(vulns, func(i, j int) bool {
		if vulns[i].CVEID != vulns[j].CVEID {
			return vulns[i].CVEID < vulns[j].CVEID
		}
		return vulns[i].Name < vulns[j].Name
	})
}

func individualVulnCandidate(v snapshot.SecurityVulnerability, sev snapshot.Severity) task.Candidate {
	score := scoreSecurityHigh
	priority := task.PriorityHigh
	effort := task.EffortMedium
	if sev == snapshot.SeverityCritical {
		score = scoreSecurityCritical
		priority = task.PriorityUrgent
		effort = task.EffortHigh
	}

	description := fmt.Sprintf("%s is affected by %s", v.Name, v.CVEID)
	if v.AffectedVersions != "" {
		description += fmt.Sprintf(" (affected versions: %s)", v.AffectedVersions)
	}
	if v.Description != "" {
		description += ". " + v.Description
	}

	return task.Candidate{
		ID:          fmt.Sprintf("security-%s-%s", sev, task.SanitizeID(v.CVEID)),
		Title:       fmt.Sprintf("Fix %s severity vulnerability in %s", sev, v.Name),
		Description: description,
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowSecurityPatch,
		Rationale:   fmt.Sprintf("%s severity vulnerabilities expose the project to known exploits", sev),
		Score:       score,
		Remediation: vulnSuggestions(v, sev),
	}
}

func groupedVulnCandidate(sev snapshot.Severity, vulns []snapshot.SecurityVulnerability) task.Candidate {
	var score float64
	var priority task.Priority
	switch sev {
	case snapshot.SeverityHigh:
		score, priority = scoreSecurityHigh, task.PriorityHigh
	case snapshot.SeverityMedium:
		score, priority = scoreSecurityMedium, task.PriorityNormal
	default:
		score, priority = scoreSecurityLow, task.PriorityLow
	}

	effort := task.EffortMedium
	if len(vulns) > 5 {
		effort = task.EffortHigh
	}

	names := make([]string, len(vulns))
	for i, v := range vulns {
		names[i] = v.Name
	}

	return task.Candidate{
		ID:          fmt.Sprintf("security-group-%s", sev),
		Title:       fmt.Sprintf("Fix %d %s severity vulnerabilities", len(vulns), sev),
		Description: fmt.Sprintf("Affected packages: %s", sampleList(names, 3)),
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowSecurityPatch,
		Rationale:   fmt.Sprintf("Batching %d %s severity fixes into one pass keeps the update surface reviewable", len(vulns), sev),
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:            task.SuggestShellCommand,
				Description:     "Apply all available automated fixes",
				Command:         "npm audit fix",
				Priority:        task.SuggestionHigh,
				ExpectedOutcome: "Vulnerable packages updated to patched versions where a compatible release exists",
			},
			{
				Type:        task.SuggestManualReview,
				Description: "Review advisories for packages npm audit fix could not update",
				Priority:    task.SuggestionMedium,
			},
			{
				Type:            task.SuggestTestingReminder,
				Description:     "Run the full test suite after applying fixes",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "No regressions from the batched updates",
			},
		},
	}
}

func vulnSuggestions(v snapshot.SecurityVulnerability, sev snapshot.Severity) []task.RemediationSuggestion {
	updateCommand := "npm audit fix"
	if v.Name != "" {
		updateCommand = fmt.Sprintf("npm update %s", v.Name)
	}

	suggestionPriority := task.SuggestionHigh
	if sev == snapshot.SeverityCritical {
		suggestionPriority = task.SuggestionCritical
	}

	suggestions := []task.RemediationSuggestion{
		{
			Type:            task.SuggestDependencyUpdate,
			Description:     fmt.Sprintf("Update %s to a patched version", v.Name),
			Command:         updateCommand,
			Priority:        suggestionPriority,
			ExpectedOutcome: fmt.Sprintf("%s no longer resolves to a vulnerable version", v.Name),
		},
	}

	// Only canonical CVE ids get an advisory link; vendor advisory ids and
	// synthetic NO-CVE placeholders have no NVD entry.
	if cvss.IsValidCVE(v.CVEID) {
		suggestions = append(suggestions, task.RemediationSuggestion{
			Type:        task.SuggestAdvisoryLink,
			Description: fmt.Sprintf("Review the advisory for %s", v.CVEID),
			Link:        fmt.Sprintf("https://nvd.nist.gov/vuln/detail/%s", v.CVEID),
			Priority:    task.SuggestionMedium,
		})
	}

	suggestions = append(suggestions, task.RemediationSuggestion{
		Type:            task.SuggestTestingReminder,
		Description:     "Run the full test suite after the update",
		Priority:        task.SuggestionMedium,
		ExpectedOutcome: "No regressions from the version bump",
	})

	return suggestions
}

func legacySecurityCandidates(entries []string) []task.Candidate {
	if len(entries) == 0 {
		return nil
	}

	return []task.Candidate{{
		ID:          "security-deps-legacy",
		Title:       fmt.Sprintf("Fix %d security issues in dependencies", len(entries)),
		Description: fmt.Sprintf("Reported issues: %s", sampleList(entries, 3)),
		Priority:    task.PriorityUrgent,
		Effort:      task.EffortHigh,
		Workflow:    task.WorkflowSecurityPatch,
		Rationale:   "The scanner reported security issues without structured detail; treat them as urgent until triaged",
		Score:       scoreLegacySecurity,
		Remediation: []task.RemediationSuggestion{
			{
				Type:            task.SuggestShellCommand,
				Description:     "Re-run the audit to get structured advisory data",
				Command:         "npm audit --json",
				Priority:        task.SuggestionCritical,
				ExpectedOutcome: "Structured advisories with severities and CVE ids",
			},
			{
				Type:        task.SuggestManualReview,
				Description: "Triage each reported issue and schedule fixes by severity",
				Priority:    task.SuggestionHigh,
			},
		},
	}}
}

// --- outdated dependencies ---

// outdatedCandidates converts outdated-dependency data into candidates.
// A non-nil rich list (even empty) supersedes the legacy tokens entirely.
func outdatedCandidates(deps snapshot.DependencyHealth) []task.Candidate {
	if !deps.HasRichOutdated() {
		return legacyOutdatedCandidates(deps.Outdated)
	}

	groups := make(map[snapshot.UpdateType][]snapshot.OutdatedDependency)
	for _, d := range deps.OutdatedPackages {
		ut := d.EffectiveUpdateType()
		groups[ut] = append(groups[ut], d)
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}

	var out []task.Candidate

	// Major updates always get individual candidates: each one carries its
	// own breaking-change risk and migration path.
	for _, d := range groups[snapshot.UpdateMajor] {
		out = append(out, majorUpdateCandidate(d))
	}

	out = append(out, updateCandidates(snapshot.UpdateMinor, groups[snapshot.UpdateMinor], 3)...)
	out = append(out, updateCandidates(snapshot.UpdatePatch, groups[snapshot.UpdatePatch], 2)...)

	return out
}

func majorUpdateCandidate(d snapshot.OutdatedDependency) task.Candidate {
	return task.Candidate{
		ID:          fmt.Sprintf("outdated-major-%s", task.SanitizeID(d.Name)),
		Title:       fmt.Sprintf("Update %s %s → %s (major)", d.Name, d.CurrentVersion, d.LatestVersion),
		Description: fmt.Sprintf("%s is on %s; the latest major release is %s", d.Name, d.CurrentVersion, d.LatestVersion),
		Priority:    task.PriorityHigh,
		Effort:      task.EffortMedium,
		Workflow:    task.WorkflowDependencyUpdate,
		Rationale:   "Major version updates accumulate migration cost the longer they are deferred",
		Score:       scoreUpdateMajor,
		Remediation: []task.RemediationSuggestion{
			{
				Type:            task.SuggestDependencyUpdate,
				Description:     fmt.Sprintf("Install %s %s", d.Name, d.LatestVersion),
				Command:         fmt.Sprintf("npm install %s@%s", d.Name, d.LatestVersion),
				Priority:        task.SuggestionHigh,
				ExpectedOutcome: fmt.Sprintf("%s resolves to %s", d.Name, d.LatestVersion),
			},
			{
				Type:        task.SuggestMigrationGuide,
				Description: fmt.Sprintf("Review the %s changelog and migration guide before updating", d.Name),
				Priority:    task.SuggestionHigh,
				Warning:     "Major version updates may include breaking changes",
			},
			{
				Type:            task.SuggestTestingReminder,
				Description:     "Run the full test suite after the update",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "No regressions from the major version bump",
			},
		},
	}
}

// updateCandidates applies the individual-vs-grouped rule shared by minor
// and patch updates: individual candidates up to individualMax, one
// grouped candidate beyond that.
func updateCandidates(ut snapshot.UpdateType, deps []snapshot.OutdatedDependency, individualMax int) []task.Candidate {
	if len(deps) == 0 {
		return nil
	}

	score := scoreUpdateMinor
	priority := task.PriorityNormal
	if ut == snapshot.UpdatePatch {
		score = scoreUpdatePatch
		priority = task.PriorityLow
	}

	if len(deps) <= individualMax {
		out := make([]task.Candidate, 0, len(deps))
		for _, d := range deps {
			out = append(out, task.Candidate{
				ID:          fmt.Sprintf("outdated-%s-%s", ut, task.SanitizeID(d.Name)),
				Title:       fmt.Sprintf("Update %s %s → %s (%s)", d.Name, d.CurrentVersion, d.LatestVersion, ut),
				Description: fmt.Sprintf("%s is on %s; %s is available", d.Name, d.CurrentVersion, d.LatestVersion),
				Priority:    priority,
				Effort:      task.EffortLow,
				Workflow:    task.WorkflowDependencyUpdate,
				Rationale:   fmt.Sprintf("%s updates are low-risk and keep the dependency surface current", ut),
				Score:       score,
				Remediation: []task.RemediationSuggestion{
					{
						Type:            task.SuggestDependencyUpdate,
						Description:     fmt.Sprintf("Update %s to %s", d.Name, d.LatestVersion),
						Command:         fmt.Sprintf("npm install %s@%s", d.Name, d.LatestVersion),
						Priority:        task.SuggestionMedium,
						ExpectedOutcome: fmt.Sprintf("%s resolves to %s", d.Name, d.LatestVersion),
					},
				},
			})
		}
		return out
	}

	effort := task.EffortLow
	if len(deps) > 5 {
		effort = task.EffortHigh
	}

	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}

	return []task.Candidate{{
		ID:          fmt.Sprintf("outdated-group-%s", ut),
		Title:       fmt.Sprintf("Update %d dependencies with %s releases", len(deps), ut),
		Description: fmt.Sprintf("Outdated packages: %s", sampleList(names, 3)),
		Priority:    priority,
		Effort:      effort,
		Workflow:    task.WorkflowDependencyUpdate,
		Rationale:   fmt.Sprintf("Batching %s updates into one pass keeps review cost low", ut),
		Score:       score,
		Remediation: []task.RemediationSuggestion{
			{
				Type:            task.SuggestShellCommand,
				Description:     "Update all packages within their declared ranges",
				Command:         "npm update",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "All listed packages move to their latest compatible versions",
			},
			{
				Type:            task.SuggestTestingReminder,
				Description:     "Run the full test suite after the batch update",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "No regressions from the batched updates",
			},
		},
	}}
}

func legacyOutdatedCandidates(entries []string) []task.Candidate {
	if len(entries) == 0 {
		return nil
	}

	var out []task.Candidate

	var preRelease []string
	for _, entry := range entries {
		if strings.Contains(entry, "@^0.") || strings.Contains(entry, "@~0.") {
			preRelease = append(preRelease, entry)
		}
	}

	if len(preRelease) > 0 {
		out = append(out, task.Candidate{
			ID:          "critical-outdated-deps",
			Title:       fmt.Sprintf("Update %d pre-1.0 dependencies", len(preRelease)),
			Description: fmt.Sprintf("Pre-1.0 packages: %s", sampleList(preRelease, 3)),
			Priority:    task.PriorityHigh,
			Effort:      task.EffortMedium,
			Workflow:    task.WorkflowDependencyUpdate,
			Rationale:   "Pre-1.0 packages make no compatibility promises; staying behind multiplies the eventual migration risk",
			Score:       scoreLegacyPreRelease,
			Remediation: []task.RemediationSuggestion{
				{
					Type:        task.SuggestManualReview,
					Description: "Review each pre-1.0 package's changelog before updating",
					Priority:    task.SuggestionHigh,
					Warning:     "Minor version bumps below 1.0 may include breaking changes",
				},
				{
					Type:            task.SuggestDependencyUpdate,
					Description:     "Update the packages one at a time",
					Command:         "npm update",
					Priority:        task.SuggestionMedium,
					ExpectedOutcome: "Pre-1.0 packages move to their latest versions",
				},
			},
		})
	}

	effort := task.EffortMedium
	if len(entries) > 10 {
		effort = task.EffortHigh
	}

	out = append(out, task.Candidate{
		ID:          "outdated-deps",
		Title:       fmt.Sprintf("Update %d outdated dependencies", len(entries)),
		Description: fmt.Sprintf("Outdated packages: %s", sampleList(entries, 3)),
		Priority:    task.PriorityNormal,
		Effort:      effort,
		Workflow:    task.WorkflowDependencyUpdate,
		Rationale:   "Outdated dependencies accumulate security exposure and upgrade debt",
		Score:       scoreLegacyOutdated,
		Remediation: []task.RemediationSuggestion{
			{
				Type:            task.SuggestShellCommand,
				Description:     "List the full set of outdated packages with current and latest versions",
				Command:         "npm outdated",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "A complete version-delta report for planning the updates",
			},
			{
				Type:            task.SuggestDependencyUpdate,
				Description:     "Update packages within their declared ranges",
				Command:         "npm update",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "Packages move to their latest compatible versions",
			},
		},
	})

	return out
}

// --- deprecated packages ---

func deprecatedCandidates(packages []snapshot.DeprecatedPackage) []task.Candidate {
	if len(packages) == 0 {
		return nil
	}

	sorted := make([]snapshot.DeprecatedPackage, len(packages))
	copy(sorted, packages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := make([]task.Candidate, 0, len(sorted))
	for _, pkg := range sorted {
		out = append(out, deprecatedCandidate(pkg))
	}
	return out
}

func deprecatedCandidate(pkg snapshot.DeprecatedPackage) task.Candidate {
	description := fmt.Sprintf("%s has been deprecated by its maintainers", pkg.Name)
	if pkg.Reason != "" {
		description += ": " + pkg.Reason
	}

	c := task.Candidate{
		ID:          fmt.Sprintf("deprecated-pkg-%s", task.SanitizeID(pkg.Name)),
		Description: description,
		Workflow:    task.WorkflowDependencyUpdate,
	}

	if pkg.Replacement != nil {
		replacement := *pkg.Replacement
		c.Title = fmt.Sprintf("Replace deprecated package %s → %s", pkg.Name, replacement)
		c.Priority = task.PriorityNormal
		c.Effort = task.EffortMedium
		c.Score = scoreDeprecatedReplaceable
		c.Rationale = fmt.Sprintf("A maintained replacement (%s) exists; migrating now avoids building on an abandoned API", replacement)
		c.Remediation = []task.RemediationSuggestion{
			{
				Type:            task.SuggestPackageReplacement,
				Description:     fmt.Sprintf("Swap %s for %s", pkg.Name, replacement),
				Command:         fmt.Sprintf("npm uninstall %s && npm install %s", pkg.Name, replacement),
				Priority:        task.SuggestionHigh,
				ExpectedOutcome: fmt.Sprintf("%s removed from the dependency tree, %s installed", pkg.Name, replacement),
			},
			{
				Type:        task.SuggestMigrationGuide,
				Description: fmt.Sprintf("Port call sites from the %s API to %s", pkg.Name, replacement),
				Priority:    task.SuggestionMedium,
			},
			{
				Type:            task.SuggestTestingReminder,
				Description:     "Run the full test suite after the migration",
				Priority:        task.SuggestionMedium,
				ExpectedOutcome: "No behavioral regressions from the API swap",
			},
		}
		return c
	}

	c.Title = fmt.Sprintf("Review deprecated package %s", pkg.Name)
	c.Priority = task.PriorityHigh
	c.Effort = task.EffortMedium
	c.Score = scoreDeprecatedOrphaned
	c.Rationale = "Deprecated packages without a replacement stop receiving fixes and need a deliberate exit plan"
	c.Remediation = []task.RemediationSuggestion{
		{
			Type:        task.SuggestManualReview,
			Description: fmt.Sprintf("Assess how %s is used and identify an alternative or an in-tree replacement", pkg.Name),
			Priority:    task.SuggestionHigh,
			Warning:     fmt.Sprintf("No direct replacement exists for %s", pkg.Name),
		},
	}
	return c
}

// sampleList joins up to max items, appending an ellipsis when more exist.
func sampleList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + ", ..."
}
