package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONDistinguishesAbsentFromEmpty(t *testing.T) {
	// Absent rich fields decode to nil: legacy data stays authoritative.
	absent, err := Parse([]byte(`{"dependencies": {"outdated": ["lodash@^4.17.0"]}}`))
	require.NoError(t, err)
	assert.False(t, absent.Dependencies.HasRichOutdated())
	assert.Equal(t, []string{"lodash@^4.17.0"}, absent.Dependencies.Outdated)

	// An explicitly empty rich array decodes non-nil: the scanner produced
	// rich data, so legacy tokens must be ignored for that run.
	empty, err := Parse([]byte(`{"dependencies": {"outdated": ["lodash@^4.17.0"], "outdatedPackages": []}}`))
	require.NoError(t, err)
	assert.True(t, empty.Dependencies.HasRichOutdated())
	assert.Empty(t, empty.Dependencies.OutdatedPackages)
}

func TestParseRichDependencyHealth(t *testing.T) {
	raw := `{
		"dependencies": {
			"securityIssues": [
				{"name": "lodash", "cveId": "CVE-2021-23337", "severity": "high", "affectedVersions": "<4.17.21"}
			],
			"outdatedPackages": [
				{"name": "react", "currentVersion": "17.0.2", "latestVersion": "18.2.0", "updateType": "major"}
			],
			"deprecatedPackages": [
				{"name": "request", "replacement": "axios"},
				{"name": "left-pad", "replacement": null}
			]
		}
	}`

	analysis, err := Parse([]byte(raw))
	require.NoError(t, err)

	deps := analysis.Dependencies
	require.Len(t, deps.SecurityIssues, 1)
	assert.Equal(t, SeverityHigh, deps.SecurityIssues[0].Severity)
	assert.Equal(t, "CVE-2021-23337", deps.SecurityIssues[0].CVEID)

	require.Len(t, deps.OutdatedPackages, 1)
	assert.Equal(t, UpdateMajor, deps.OutdatedPackages[0].UpdateType)

	require.Len(t, deps.DeprecatedPackages, 2)
	require.NotNil(t, deps.DeprecatedPackages[0].Replacement)
	assert.Equal(t, "axios", *deps.DeprecatedPackages[0].Replacement)
	assert.Nil(t, deps.DeprecatedPackages[1].Replacement)
}

func TestParseFallsBackToYAML(t *testing.T) {
	raw := "dependencies:\n  outdated:\n    - pkg@^0.3.0\n"
	analysis, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg@^0.3.0"}, analysis.Dependencies.Outdated)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("{not json] and: [not: yaml"))
	assert.Error(t, err)
}

func TestLoadChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "snap.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"codebase": {"fileCount": 12}}`), 0644))
	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 12, fromJSON.Codebase.FileCount)

	yamlPath := filepath.Join(dir, "snap.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("codebase:\n  file_count: 7\n"), 0644))
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 7, fromYAML.Codebase.FileCount)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestUpdateTypeFor(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    UpdateType
	}{
		{"major bump", "17.0.2", "18.2.0", UpdateMajor},
		{"minor bump", "1.2.3", "1.3.0", UpdateMinor},
		{"patch bump", "4.17.20", "4.17.21", UpdatePatch},
		{"caret prefix", "^1.2.3", "1.3.0", UpdateMinor},
		{"tilde prefix", "~2.0.0", "3.0.0", UpdateMajor},
		{"v prefix", "v1.0.0", "v1.0.1", UpdatePatch},
		{"same version", "1.0.0", "1.0.0", UpdatePatch},
		{"unparseable current", "garbage", "1.0.0", UpdatePatch},
		{"unparseable latest", "1.0.0", "latest", UpdatePatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpdateTypeFor(tt.current, tt.latest))
		})
	}
}

func TestEffectiveUpdateType(t *testing.T) {
	// Scanner-assigned type wins even when the versions disagree.
	explicit := OutdatedDependency{Name: "react", CurrentVersion: "17.0.2", LatestVersion: "18.2.0", UpdateType: UpdatePatch}
	assert.Equal(t, UpdatePatch, explicit.EffectiveUpdateType())

	// Missing type is derived from the version pair.
	derived := OutdatedDependency{Name: "react", CurrentVersion: "17.0.2", LatestVersion: "18.2.0"}
	assert.Equal(t, UpdateMajor, derived.EffectiveUpdateType())

	// Invalid type is also derived.
	invalid := OutdatedDependency{Name: "react", CurrentVersion: "1.2.0", LatestVersion: "1.3.0", UpdateType: "huge"}
	assert.Equal(t, UpdateMinor, invalid.EffectiveUpdateType())
}

func TestSeverityHelpers(t *testing.T) {
	assert.True(t, SeverityCritical.Valid())
	assert.False(t, Severity("urgent").Valid())

	ordered := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank())
	}
	assert.Greater(t, Severity("bogus").Rank(), SeverityLow.Rank())
}
