package snapshot

// ProjectAnalysis is a point-in-time structural summary of a managed
// project: codebase size, dependency health, code quality, and
// documentation state. It is produced by the external scanning subsystem
// and consumed read-only by the analyzers.
//
// Every field beyond the top-level sections is optional. An absent or
// empty field means "no applicable issues", never an error condition.
type ProjectAnalysis struct {
	Codebase      CodebaseStats    `json:"codebase" yaml:"codebase"`
	Dependencies  DependencyHealth `json:"dependencies" yaml:"dependencies"`
	Quality       CodeQuality      `json:"quality" yaml:"quality"`
	Documentation Documentation    `json:"documentation" yaml:"documentation"`
	Performance   Performance      `json:"performance" yaml:"performance"`
}

// CodebaseStats summarizes the size and language composition of the project.
type CodebaseStats struct {
	FileCount       int            `json:"fileCount" yaml:"file_count"`
	LineCount       int            `json:"lineCount" yaml:"line_count"`
	LinesByLanguage map[string]int `json:"linesByLanguage,omitempty" yaml:"lines_by_language,omitempty"`
}

// DependencyHealth carries parallel legacy and rich representations of
// dependency problems. The legacy string slices predate the structured
// types and are kept for scanners that have not been upgraded.
//
// Precedence is resolved once per rule group:
//   - security: rich SecurityIssues wins only when non-empty; an empty or
//     absent rich list falls back to the legacy Security tokens.
//   - outdated: a non-nil OutdatedPackages slice (even empty) means the
//     scanner produced rich data, and the legacy Outdated tokens are
//     ignored entirely for that run.
type DependencyHealth struct {
	// Legacy shapes: free-form tokens such as "lodash@^4.17.0".
	Outdated []string `json:"outdated,omitempty" yaml:"outdated,omitempty"`
	Security []string `json:"security,omitempty" yaml:"security,omitempty"`

	// Rich shapes, preferred when present.
	SecurityIssues     []SecurityVulnerability `json:"securityIssues,omitempty" yaml:"security_issues,omitempty"`
	OutdatedPackages   []OutdatedDependency    `json:"outdatedPackages,omitempty" yaml:"outdated_packages,omitempty"`
	DeprecatedPackages []DeprecatedPackage     `json:"deprecatedPackages,omitempty" yaml:"deprecated_packages,omitempty"`
}

// HasRichOutdated reports whether the scanner emitted the structured
// outdated-package list. An empty non-nil slice still counts: rich and
// legacy outdated data are mutually exclusive per run.
func (d DependencyHealth) HasRichOutdated() bool {
	return d.OutdatedPackages != nil
}

// Severity is the four-level ordinal describing security impact.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Valid reports whether s is one of the four defined levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank returns the ordering rank of the severity, 0 being most severe.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// SecurityVulnerability is one known vulnerability affecting a dependency.
// CVEID may be a real CVE, a vendor advisory id, or a synthetic
// "NO-CVE-*" placeholder filled in by the audit parser.
type SecurityVulnerability struct {
	Name             string   `json:"name" yaml:"name"`
	CVEID            string   `json:"cveId" yaml:"cve_id"`
	Severity         Severity `json:"severity" yaml:"severity"`
	AffectedVersions string   `json:"affectedVersions,omitempty" yaml:"affected_versions,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// UpdateType classifies a dependency version delta.
type UpdateType string

const (
	UpdateMajor UpdateType = "major"
	UpdateMinor UpdateType = "minor"
	UpdatePatch UpdateType = "patch"
)

// Valid reports whether u is one of the three defined update types.
func (u UpdateType) Valid() bool {
	switch u {
	case UpdateMajor, UpdateMinor, UpdatePatch:
		return true
	}
	return false
}

// OutdatedDependency is one dependency with a newer published version.
type OutdatedDependency struct {
	Name           string     `json:"name" yaml:"name"`
	CurrentVersion string     `json:"currentVersion" yaml:"current_version"`
	LatestVersion  string     `json:"latestVersion" yaml:"latest_version"`
	UpdateType     UpdateType `json:"updateType,omitempty" yaml:"update_type,omitempty"`
}

// DeprecatedPackage is a dependency whose upstream has marked it deprecated.
// Replacement is nil when no known substitute exists.
type DeprecatedPackage struct {
	Name           string  `json:"name" yaml:"name"`
	CurrentVersion string  `json:"currentVersion,omitempty" yaml:"current_version,omitempty"`
	Reason         string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Replacement    *string `json:"replacement" yaml:"replacement"`
}

// CodeQuality carries lint, duplication, complexity, and smell signals.
type CodeQuality struct {
	LintIssues         int                  `json:"lintIssues,omitempty" yaml:"lint_issues,omitempty"`
	DuplicatedPatterns []DuplicationPattern `json:"duplicatedPatterns,omitempty" yaml:"duplicated_patterns,omitempty"`
	ComplexityHotspots []ComplexityHotspot  `json:"complexityHotspots,omitempty" yaml:"complexity_hotspots,omitempty"`
	CodeSmells         []CodeSmell          `json:"codeSmells,omitempty" yaml:"code_smells,omitempty"`
}

// ComplexityHotspot is one function flagged for high cyclomatic complexity.
type ComplexityHotspot struct {
	FilePath   string `json:"filePath" yaml:"file_path"`
	Function   string `json:"function,omitempty" yaml:"function,omitempty"`
	Complexity int    `json:"complexity" yaml:"complexity"`
}

// DuplicationPattern is one group of near-identical code blocks.
type DuplicationPattern struct {
	Files     []string `json:"files,omitempty" yaml:"files,omitempty"`
	Instances int      `json:"instances" yaml:"instances"`
	Lines     int      `json:"lines" yaml:"lines"`
}

// CodeSmell is one structural problem reported by the quality scanner.
type CodeSmell struct {
	FilePath    string   `json:"filePath,omitempty" yaml:"file_path,omitempty"`
	Kind        string   `json:"kind" yaml:"kind"`
	Severity    Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Documentation carries coverage and the optional richer doc-health signals.
type Documentation struct {
	CoveragePercent       float64              `json:"coveragePercent" yaml:"coverage_percent"`
	MissingDocs           []string             `json:"missingDocs,omitempty" yaml:"missing_docs,omitempty"`
	StaleReferences       []StaleReference     `json:"staleReferences,omitempty" yaml:"stale_references,omitempty"`
	VersionMismatches     []VersionMismatch    `json:"versionMismatches,omitempty" yaml:"version_mismatches,omitempty"`
	BrokenLinks           []BrokenLink         `json:"brokenLinks,omitempty" yaml:"broken_links,omitempty"`
	DeprecatedAPIDocs     []DeprecatedAPIDoc   `json:"deprecatedApiDocs,omitempty" yaml:"deprecated_api_docs,omitempty"`
	UndocumentedExports   []UndocumentedExport `json:"undocumentedExports,omitempty" yaml:"undocumented_exports,omitempty"`
	MissingReadmeSections []ReadmeSection      `json:"missingReadmeSections,omitempty" yaml:"missing_readme_sections,omitempty"`
	APICompleteness       *APICompleteness     `json:"apiCompleteness,omitempty" yaml:"api_completeness,omitempty"`
}

// StaleReference is a TODO/FIXME-style marker that has lingered in the docs.
type StaleReference struct {
	FilePath string `json:"filePath" yaml:"file_path"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	AgeDays  int    `json:"ageDays" yaml:"age_days"`
}

// VersionMismatch is a documented version that disagrees with package metadata.
type VersionMismatch struct {
	FilePath          string   `json:"filePath" yaml:"file_path"`
	DocumentedVersion string   `json:"documentedVersion,omitempty" yaml:"documented_version,omitempty"`
	ActualVersion     string   `json:"actualVersion,omitempty" yaml:"actual_version,omitempty"`
	Severity          Severity `json:"severity" yaml:"severity"`
}

// BrokenLink is a documentation cross-reference whose target no longer resolves.
type BrokenLink struct {
	FilePath string   `json:"filePath" yaml:"file_path"`
	Link     string   `json:"link" yaml:"link"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// DeprecatedAPIDoc is documentation still describing a deprecated API.
type DeprecatedAPIDoc struct {
	FilePath string   `json:"filePath" yaml:"file_path"`
	API      string   `json:"api,omitempty" yaml:"api,omitempty"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// UndocumentedExport is a public or package-level symbol missing documentation.
type UndocumentedExport struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"` // "class", "interface", "function", ...
	Public   bool   `json:"public" yaml:"public"`
	FilePath string `json:"filePath,omitempty" yaml:"file_path,omitempty"`
}

// ReadmeSection is a README section the scanner expected but did not find.
type ReadmeSection struct {
	Name       string `json:"name" yaml:"name"`
	Importance string `json:"importance" yaml:"importance"` // "required", "recommended", "optional"
}

// APICompleteness summarizes how much of the public API surface is documented.
type APICompleteness struct {
	Percent           float64  `json:"percent" yaml:"percent"`
	UndocumentedItems []string `json:"undocumentedItems,omitempty" yaml:"undocumented_items,omitempty"`
	QualityIssues     []string `json:"qualityIssues,omitempty" yaml:"quality_issues,omitempty"`
}

// Performance carries timing signals. The candidate pipeline does not
// consume these today; they ride along for the downstream executor.
type Performance struct {
	SlowTests   []SlowTest `json:"slowTests,omitempty" yaml:"slow_tests,omitempty"`
	Bottlenecks []string   `json:"bottlenecks,omitempty" yaml:"bottlenecks,omitempty"`
}

// SlowTest is one test whose runtime stands out.
type SlowTest struct {
	Name       string `json:"name" yaml:"name"`
	DurationMs int    `json:"durationMs" yaml:"duration_ms"`
}
