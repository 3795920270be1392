package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Load reads a ProjectAnalysis snapshot from disk. The format is chosen
// by extension: .yaml/.yml decode as YAML, everything else as JSON.
func Load(path string) (*ProjectAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

// Parse decodes a snapshot from raw bytes, trying JSON first and falling
// back to YAML. Used when the snapshot arrives on stdin or over a pipe
// without a filename to sniff.
func Parse(data []byte) (*ProjectAnalysis, error) {
	analysis, jsonErr := parseJSON(data)
	if jsonErr == nil {
		return analysis, nil
	}

	analysis, yamlErr := parseYAML(data)
	if yamlErr == nil {
		return analysis, nil
	}

	return nil, fmt.Errorf("parsing snapshot: not valid JSON (%v) or YAML (%v)", jsonErr, yamlErr)
}

func parseJSON(data []byte) (*ProjectAnalysis, error) {
	var analysis ProjectAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("parsing snapshot JSON: %w", err)
	}
	return &analysis, nil
}

func parseYAML(data []byte) (*ProjectAnalysis, error) {
	var analysis ProjectAnalysis
	if err := yaml.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("parsing snapshot YAML: %w", err)
	}
	return &analysis, nil
}

// EffectiveUpdateType returns the scanner-assigned update type, deriving
// one from the version pair when the scanner left it empty or invalid.
// Unclassifiable deltas default to patch, the lowest bucket.
func (d OutdatedDependency) EffectiveUpdateType() UpdateType {
	if d.UpdateType.Valid() {
		return d.UpdateType
	}
	return UpdateTypeFor(d.CurrentVersion, d.LatestVersion)
}

// UpdateTypeFor classifies the delta between two version strings as a
// major, minor, or patch update. Accepts npm-style range prefixes on the
// current version ("^1.2.3", "~1.2.3", "v1.2.3"). When either version
// fails to parse, the delta defaults to patch.
func UpdateTypeFor(current, latest string) UpdateType {
	cur, err := semver.NewVersion(cleanVersion(current))
	if err != nil {
		return UpdatePatch
	}
	lat, err := semver.NewVersion(cleanVersion(latest))
	if err != nil {
		return UpdatePatch
	}

	switch {
	case lat.Major() != cur.Major():
		return UpdateMajor
	case lat.Minor() != cur.Minor():
		return UpdateMinor
	default:
		return UpdatePatch
	}
}

func cleanVersion(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "^")
	v = strings.TrimPrefix(v, "~")
	v = strings.TrimPrefix(v, "v")
	return v
}
