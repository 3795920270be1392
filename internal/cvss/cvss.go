// Package cvss implements the CVE/CVSS parsing boundary used by the
// maintenance pipeline: CVE id extraction and validation, CVSS score
// parsing from the loosely-typed shapes found in audit tooling output,
// and mapping between numeric scores and the four-level severity scale.
package cvss

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/groundskeep/groundskeep/internal/snapshot"
)

var (
	// Canonical CVE id: CVE-YYYY-NNNN with four or more digits in the
	// sequence number.
	cvePattern = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)

	// Scanning variant for free text, case-insensitive.
	cveScanPattern = regexp.MustCompile(`(?i)CVE-\d{4}-\d{4,}`)

	// First decimal number in free text, for "CVSS score: 7.5" style input.
	scorePattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// IsValidCVE reports whether id matches the canonical CVE-YYYY-NNNN+
// pattern. Vendor advisory ids and synthetic NO-CVE-* placeholders are
// not valid CVEs.
func IsValidCVE(id string) bool {
	return cvePattern.MatchString(strings.ToUpper(strings.TrimSpace(id)))
}

// ExtractCVEs returns every CVE id found in text, upper-cased, in
// first-match order. Only exact repeats are deduplicated: CVE-2021-1234
// appearing twice yields one entry, but distinct ids are all kept.
func ExtractCVEs(text string) []string {
	matches := cveScanPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	cves := make([]string, 0, len(matches))
	for _, m := range matches {
		id := strings.ToUpper(m)
		if seen[id] {
			continue
		}
		seen[id] = true
		cves = append(cves, id)
	}
	return cves
}

// ParseCVSSScore extracts a CVSS base score from the loosely-typed values
// audit tools emit: a number, a numeric string, free text containing a
// score, or a nested score object ({"score": 7.5}, {"cvss": {...}}).
// Scores above 10.0 are clamped to 10.0; negative values are rejected.
// The second return value is false when no usable score was found.
func ParseCVSSScore(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return clampScore(v)
	case float32:
		return clampScore(float64(v))
	case int:
		return clampScore(float64(v))
	case int64:
		return clampScore(float64(v))
	case string:
		return parseScoreString(v)
	case map[string]interface{}:
		return parseScoreObject(v)
	}
	return 0, false
}

func parseScoreString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return clampScore(f)
	}

	// Free text: take the first number that appears.
	if m := scorePattern.FindString(s); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			return clampScore(f)
		}
	}
	return 0, false
}

// scoreKeys are the nested-object keys checked in precedence order.
var scoreKeys = []string{"score", "baseScore", "base_score", "cvss", "cvssScore", "cvss_score"}

func parseScoreObject(obj map[string]interface{}) (float64, bool) {
	for _, key := range scoreKeys {
		nested, ok := obj[key]
		if !ok {
			continue
		}
		if score, ok := ParseCVSSScore(nested); ok {
			return score, true
		}
	}
	return 0, false
}

func clampScore(f float64) (float64, bool) {
	if f < 0 {
		return 0, false
	}
	if f > 10.0 {
		return 10.0, true
	}
	return f, true
}

// SeverityFromCVSS maps a CVSS base score onto the four-level severity
// scale: [0,4) low, [4,7) medium, [7,9) high, [9,10] critical.
func SeverityFromCVSS(score float64) snapshot.Severity {
	switch {
	case score >= 9.0:
		return snapshot.SeverityCritical
	case score >= 7.0:
		return snapshot.SeverityHigh
	case score >= 4.0:
		return snapshot.SeverityMedium
	default:
		return snapshot.SeverityLow
	}
}

// ParseSeverityLabel normalizes a textual severity label. Matching is
// case- and whitespace-insensitive; npm's "moderate" maps to medium;
// unknown labels default to low.
func ParseSeverityLabel(text string) snapshot.Severity {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "critical":
		return snapshot.SeverityCritical
	case "high":
		return snapshot.SeverityHigh
	case "medium", "moderate":
		return snapshot.SeverityMedium
	default:
		return snapshot.SeverityLow
	}
}

// CreateVulnerability fills the gaps in a partially-populated
// vulnerability: a synthetic NO-CVE-<NAME> id when no identifier is known,
// and low severity when none was reported.
func CreateVulnerability(partial snapshot.SecurityVulnerability) snapshot.SecurityVulnerability {
	v := partial
	if v.CVEID == "" {
		v.CVEID = syntheticID(v.Name)
	}
	if !v.Severity.Valid() {
		v.Severity = snapshot.SeverityLow
	}
	return v
}

// IsValidVulnerability reports whether v carries the minimum fields the
// pipeline needs: a package name, an identifier, and a known severity.
func IsValidVulnerability(v snapshot.SecurityVulnerability) bool {
	return v.Name != "" && v.CVEID != "" && v.Severity.Valid()
}

func syntheticID(name string) string {
	if name == "" {
		return "NO-CVE-UNKNOWN"
	}
	upper := strings.ToUpper(name)
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-':
			return r
		}
		return '-'
	}, upper)
	return "NO-CVE-" + safe
}
