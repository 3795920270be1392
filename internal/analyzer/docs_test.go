package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

func docsSnapshot(docs snapshot.Documentation) *snapshot.ProjectAnalysis {
	return &snapshot.ProjectAnalysis{Documentation: docs}
}

func TestDocsAnalyzerContract(t *testing.T) {
	a := NewDocsAnalyzer()
	assert.Equal(t, "docs", a.Type())
	assert.NotEmpty(t, a.Philosophy())
	assert.Empty(t, a.Analyze(nil))
	assert.Empty(t, a.Analyze(&snapshot.ProjectAnalysis{}))
}

func TestCoverageThresholds(t *testing.T) {
	a := NewDocsAnalyzer()

	tests := []struct {
		coverage     float64
		wantID       string
		wantScore    float64
		wantPriority task.Priority
	}{
		{15, "docs-coverage-urgent", 0.9, task.PriorityHigh},
		{19.9, "docs-coverage-urgent", 0.9, task.PriorityHigh},
		{20, "docs-coverage-improvement", 0.4, task.PriorityNormal},
		{35, "docs-coverage-improvement", 0.4, task.PriorityNormal},
		{49.9, "docs-coverage-improvement", 0.4, task.PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("coverage %.1f", tt.coverage), func(t *testing.T) {
			got := a.Analyze(docsSnapshot(snapshot.Documentation{CoveragePercent: tt.coverage}))
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantID, got[0].ID)
			assert.Equal(t, tt.wantScore, got[0].Score)
			assert.Equal(t, tt.wantPriority, got[0].Priority)
		})
	}

	// At or above 50% the coverage rules stay quiet.
	assert.Empty(t, a.Analyze(docsSnapshot(snapshot.Documentation{CoveragePercent: 50})))
	assert.Empty(t, a.Analyze(docsSnapshot(snapshot.Documentation{CoveragePercent: 70})))
}

func TestMissingDocsRules(t *testing.T) {
	a := NewDocsAnalyzer()

	withCoverage := func(missing []string) snapshot.Documentation {
		return snapshot.Documentation{CoveragePercent: 80, MissingDocs: missing}
	}

	// A core-looking path triggers the core-modules candidate on its own.
	got := a.Analyze(docsSnapshot(withCoverage([]string{"src/index.ts"})))
	require.Len(t, got, 1)
	core := got[0]
	assert.Equal(t, "docs-core-modules", core.ID)
	assert.Equal(t, 0.7, core.Score)
	assert.Contains(t, core.Description, "src/index.ts")

	// Non-core paths below the count threshold produce nothing.
	got = a.Analyze(docsSnapshot(withCoverage([]string{"src/util.ts", "src/colors.ts"})))
	assert.Empty(t, got)

	// More than five missing files adds the general candidate.
	many := []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts", "f.ts"}
	got = a.Analyze(docsSnapshot(withCoverage(many)))
	require.Len(t, got, 1)
	general := got[0]
	assert.Equal(t, "docs-missing-general", general.ID)
	assert.Equal(t, 0.5, general.Score)
	assert.Equal(t, task.EffortMedium, general.Effort)

	// Both rules can fire together, and >10 raises the general effort.
	lots := []string{"core.ts"}
	for i := 0; i < 11; i++ {
		lots = append(lots, fmt.Sprintf("helper%02d.ts", i))
	}
	got = a.Analyze(docsSnapshot(withCoverage(lots)))
	require.Len(t, got, 2)
	candidateByID(t, got, "docs-core-modules")
	general = candidateByID(t, got, "docs-missing-general")
	assert.Equal(t, task.EffortHigh, general.Effort)
}

func TestStaleReferenceAgeTiers(t *testing.T) {
	a := NewDocsAnalyzer()

	refs := func(ages ...int) snapshot.Documentation {
		docs := snapshot.Documentation{CoveragePercent: 80}
		for i, age := range ages {
			docs.StaleReferences = append(docs.StaleReferences, snapshot.StaleReference{
				FilePath: fmt.Sprintf("doc%d.md", i),
				AgeDays:  age,
			})
		}
		return docs
	}

	tests := []struct {
		name      string
		ages      []int
		wantID    string
		wantScore float64
	}{
		{"over 90 days is high", []int{120}, "docs-stale-references-high", 0.8},
		{"over 60 days is medium", []int{75}, "docs-stale-references-medium", 0.6},
		{"over 30 days is low", []int{45}, "docs-stale-references-low", 0.4},
		{"highest tier wins", []int{45, 75, 120}, "docs-stale-references-high", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(docsSnapshot(refs(tt.ages...)))
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantID, got[0].ID)
			assert.Equal(t, tt.wantScore, got[0].Score)
		})
	}

	// References 30 days old or younger do not count.
	assert.Empty(t, a.Analyze(docsSnapshot(refs(10, 30))))
}

func TestSeverityTieredGroups(t *testing.T) {
	a := NewDocsAnalyzer()

	t.Run("version mismatches", func(t *testing.T) {
		got := a.Analyze(docsSnapshot(snapshot.Documentation{
			CoveragePercent: 80,
			VersionMismatches: []snapshot.VersionMismatch{
				{FilePath: "README.md", Severity: snapshot.SeverityMedium},
				{FilePath: "docs/install.md", Severity: snapshot.SeverityMedium},
			},
		}))
		require.Len(t, got, 1)
		assert.Equal(t, "docs-version-mismatches-medium", got[0].ID)
		assert.Equal(t, 0.6, got[0].Score)
	})

	t.Run("broken links", func(t *testing.T) {
		got := a.Analyze(docsSnapshot(snapshot.Documentation{
			CoveragePercent: 80,
			BrokenLinks: []snapshot.BrokenLink{
				{FilePath: "README.md", Link: "./missing.md", Severity: snapshot.SeverityLow},
			},
		}))
		require.Len(t, got, 1)
		assert.Equal(t, "docs-broken-links-low", got[0].ID)
		assert.Equal(t, 0.4, got[0].Score)
	})

	t.Run("deprecated API docs, critical clamps to high tier", func(t *testing.T) {
		got := a.Analyze(docsSnapshot(snapshot.Documentation{
			CoveragePercent: 80,
			DeprecatedAPIDocs: []snapshot.DeprecatedAPIDoc{
				{FilePath: "docs/api.md", API: "fs.exists", Severity: snapshot.SeverityCritical},
			},
		}))
		require.Len(t, got, 1)
		assert.Equal(t, "docs-deprecated-apis-high", got[0].ID)
		assert.Equal(t, 0.8, got[0].Score)
		assert.Equal(t, task.PriorityHigh, got[0].Priority)
	})

	t.Run("effort scales with count", func(t *testing.T) {
		var links []snapshot.BrokenLink
		for i := 0; i < 16; i++ {
			links = append(links, snapshot.BrokenLink{
				FilePath: fmt.Sprintf("doc%d.md", i),
				Severity: snapshot.SeverityHigh,
			})
		}
		got := a.Analyze(docsSnapshot(snapshot.Documentation{CoveragePercent: 80, BrokenLinks: links}))
		require.Len(t, got, 1)
		assert.Equal(t, task.EffortHigh, got[0].Effort)
	})
}

func TestUndocumentedExportPartitions(t *testing.T) {
	a := NewDocsAnalyzer()

	exports := func(es ...snapshot.UndocumentedExport) snapshot.Documentation {
		return snapshot.Documentation{CoveragePercent: 80, UndocumentedExports: es}
	}

	// Public exports dominate everything else.
	got := a.Analyze(docsSnapshot(exports(
		snapshot.UndocumentedExport{Name: "createClient", Kind: "function", Public: true},
		snapshot.UndocumentedExport{Name: "Client", Kind: "class"},
	)))
	require.Len(t, got, 1)
	assert.Equal(t, "docs-undocumented-public", got[0].ID)
	assert.Equal(t, 0.85, got[0].Score)
	assert.Equal(t, task.PriorityHigh, got[0].Priority)

	// Without public exports, classes and interfaces take over.
	got = a.Analyze(docsSnapshot(exports(
		snapshot.UndocumentedExport{Name: "Client", Kind: "class"},
		snapshot.UndocumentedExport{Name: "Transport", Kind: "interface"},
	)))
	require.Len(t, got, 1)
	assert.Equal(t, "docs-undocumented-types", got[0].ID)
	assert.Equal(t, 0.65, got[0].Score)

	// Plain exports only matter past the count threshold.
	var plain []snapshot.UndocumentedExport
	for i := 0; i < 5; i++ {
		plain = append(plain, snapshot.UndocumentedExport{Name: fmt.Sprintf("helper%d", i), Kind: "function"})
	}
	assert.Empty(t, a.Analyze(docsSnapshot(exports(plain...))))

	plain = append(plain, snapshot.UndocumentedExport{Name: "helper5", Kind: "function"})
	got = a.Analyze(docsSnapshot(exports(plain...)))
	require.Len(t, got, 1)
	assert.Equal(t, "docs-undocumented-exports", got[0].ID)
	assert.Equal(t, 0.45, got[0].Score)
	assert.Equal(t, task.PriorityLow, got[0].Priority)
}

func TestReadmeSectionImportance(t *testing.T) {
	a := NewDocsAnalyzer()

	sections := func(ss ...snapshot.ReadmeSection) snapshot.Documentation {
		return snapshot.Documentation{CoveragePercent: 80, MissingReadmeSections: ss}
	}

	got := a.Analyze(docsSnapshot(sections(
		snapshot.ReadmeSection{Name: "Installation", Importance: "required"},
		snapshot.ReadmeSection{Name: "Contributing", Importance: "optional"},
	)))
	require.Len(t, got, 1)
	required := got[0]
	assert.Equal(t, "docs-readme-required", required.ID)
	assert.Equal(t, 0.8, required.Score)
	assert.Equal(t, task.EffortLow, required.Effort)
	assert.Contains(t, required.Description, "Installation")

	got = a.Analyze(docsSnapshot(sections(
		snapshot.ReadmeSection{Name: "Usage", Importance: "recommended"},
	)))
	require.Len(t, got, 1)
	assert.Equal(t, "docs-readme-recommended", got[0].ID)
	assert.Equal(t, 0.55, got[0].Score)

	// Optional sections only matter past two.
	assert.Empty(t, a.Analyze(docsSnapshot(sections(
		snapshot.ReadmeSection{Name: "FAQ", Importance: "optional"},
		snapshot.ReadmeSection{Name: "Credits", Importance: "optional"},
	))))

	got = a.Analyze(docsSnapshot(sections(
		snapshot.ReadmeSection{Name: "FAQ", Importance: "optional"},
		snapshot.ReadmeSection{Name: "Credits", Importance: "optional"},
		snapshot.ReadmeSection{Name: "Badges", Importance: "optional"},
	)))
	require.Len(t, got, 1)
	assert.Equal(t, "docs-readme-optional", got[0].ID)
	assert.Equal(t, 0.35, got[0].Score)
}

func TestAPICompletenessBrackets(t *testing.T) {
	a := NewDocsAnalyzer()

	api := func(c snapshot.APICompleteness) snapshot.Documentation {
		return snapshot.Documentation{CoveragePercent: 80, APICompleteness: &c}
	}

	tests := []struct {
		name      string
		input     snapshot.APICompleteness
		wantID    string
		wantScore float64
	}{
		{
			"under 30 is critical",
			snapshot.APICompleteness{Percent: 25, UndocumentedItems: []string{"a", "b"}},
			"docs-api-completeness-critical", 0.75,
		},
		{
			"under 60 is low",
			snapshot.APICompleteness{Percent: 45},
			"docs-api-completeness-low", 0.55,
		},
		{
			"under 80 with undocumented items is partial",
			snapshot.APICompleteness{Percent: 70, UndocumentedItems: []string{"a"}},
			"docs-api-completeness-partial", 0.4,
		},
		{
			"quality issues alone",
			snapshot.APICompleteness{Percent: 95, QualityIssues: []string{"unclear example in Client docs"}},
			"docs-api-quality", 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(docsSnapshot(api(tt.input)))
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantID, got[0].ID)
			assert.Equal(t, tt.wantScore, got[0].Score)
		})
	}

	// High completeness with clean quality produces nothing; so does an
	// absent completeness report.
	assert.Empty(t, a.Analyze(docsSnapshot(api(snapshot.APICompleteness{Percent: 95}))))
	assert.Empty(t, a.Analyze(docsSnapshot(snapshot.Documentation{CoveragePercent: 80})))

	// 70% complete with nothing undocumented skips the partial bracket.
	assert.Empty(t, a.Analyze(docsSnapshot(api(snapshot.APICompleteness{Percent: 70}))))
}

func TestDocsCandidatesValidateAndStayDeterministic(t *testing.T) {
	a := NewDocsAnalyzer()

	docs := snapshot.Documentation{
		CoveragePercent: 15,
		MissingDocs:     []string{"src/index.ts", "src/api/service.ts", "a.ts", "b.ts", "c.ts", "d.ts"},
		StaleReferences: []snapshot.StaleReference{{FilePath: "docs/design.md", AgeDays: 200}},
		BrokenLinks:     []snapshot.BrokenLink{{FilePath: "README.md", Link: "./gone.md", Severity: snapshot.SeverityMedium}},
		UndocumentedExports: []snapshot.UndocumentedExport{
			{Name: "createClient", Kind: "function", Public: true},
		},
		MissingReadmeSections: []snapshot.ReadmeSection{{Name: "Installation", Importance: "required"}},
		APICompleteness:       &snapshot.APICompleteness{Percent: 25, UndocumentedItems: []string{"x"}},
	}

	first := a.Analyze(docsSnapshot(docs))
	second := a.Analyze(docsSnapshot(docs))
	assert.Equal(t, first, second)

	for _, c := range first {
		assert.NoError(t, c.Validate(), "candidate %s", c.ID)
		assert.Equal(t, task.WorkflowDocumentation, c.Workflow)
	}
}
