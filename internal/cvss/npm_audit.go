package cvss

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/groundskeep/groundskeep/internal/snapshot"
)

// npm audit --json has shipped two incompatible shapes: the v6 report keyed
// by advisory id under "advisories", and the v7+ report keyed by package
// name under "vulnerabilities". ParseNpmAuditOutput handles both.

type auditReport struct {
	Vulnerabilities map[string]auditVulnerability `json:"vulnerabilities"`
	Advisories      map[string]auditAdvisory      `json:"advisories"`
}

// auditVulnerability is one entry in the v7+ report.
type auditVulnerability struct {
	Name     string          `json:"name"`
	Severity string          `json:"severity"`
	Range    string          `json:"range"`
	Via      json.RawMessage `json:"via"`
}

// auditVia is one structured element of a v7+ "via" array. String elements
// (transitive references) carry no advisory data and are skipped.
type auditVia struct {
	Title    string      `json:"title"`
	URL      string      `json:"url"`
	Severity string      `json:"severity"`
	CVSS     interface{} `json:"cvss"`
}

// auditAdvisory is one entry in the v6 report.
type auditAdvisory struct {
	ModuleName         string   `json:"module_name"`
	Severity           string   `json:"severity"`
	Title              string   `json:"title"`
	URL                string   `json:"url"`
	VulnerableVersions string   `json:"vulnerable_versions"`
	CVEs               []string `json:"cves"`
}

// ParseNpmAuditOutput converts raw `npm audit --json` output into
// structured vulnerabilities. Entries missing a CVE get a synthetic
// NO-CVE-* id; entries missing a severity default to low. The result is
// sorted by package name then CVE id so repeated parses of the same
// report are byte-for-byte identical.
func ParseNpmAuditOutput(raw []byte) ([]snapshot.SecurityVulnerability, error) {
	var report auditReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("parsing npm audit output: %w", err)
	}

	var vulns []snapshot.SecurityVulnerability
	if len(report.Vulnerabilities) > 0 {
		vulns = parseModernReport(report.Vulnerabilities)
	} else if len(report.Advisories) > 0 {
		vulns = parseLegacyReport(report.Advisories)
	}

	sort.Slice(vulns, func(i, j int) bool {
		if vulns[i].Name != vulns[j].Name {
			return vulns[i].Name < vulns[j].Name
		}
		return vulns[i].CVEID < vulns[j].CVEID
	})
	return vulns, nil
}

func parseModernReport(entries map[string]auditVulnerability) []snapshot.SecurityVulnerability {
	var vulns []snapshot.SecurityVulnerability
	for pkg, entry := range entries {
		name := entry.Name
		if name == "" {
			name = pkg
		}

		via := decodeVia(entry.Via)
		description := ""
		cveText := new(strings.Builder)
		for _, v := range via {
			if description == "" && v.Title != "" {
				description = v.Title
			}
			cveText.WriteString(v.Title)
			cveText.WriteString(" ")
			cveText.WriteString(v.URL)
			cveText.WriteString(" ")
		}

		base := snapshot.SecurityVulnerability{
			Name:             name,
			Severity:         ParseSeverityLabel(entry.Severity),
			AffectedVersions: entry.Range,
			Description:      description,
		}

		cves := ExtractCVEs(cveText.String())
		if len(cves) == 0 {
			vulns = append(vulns, CreateVulnerability(base))
			continue
		}
		for _, cve := range cves {
			v := base
			v.CVEID = cve
			vulns = append(vulns, CreateVulnerability(v))
		}
	}
	return vulns
}

func decodeVia(raw json.RawMessage) []auditVia {
	if len(raw) == 0 {
		return nil
	}

	var mixed []json.RawMessage
	if err := json.Unmarshal(raw, &mixed); err != nil {
		return nil
	}

	entries := make([]auditVia, 0, len(mixed))
	for _, element := range mixed {
		var entry auditVia
		if err := json.Unmarshal(element, &entry); err != nil {
			// String elements are transitive package references.
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseLegacyReport(advisories map[string]auditAdvisory) []snapshot.SecurityVulnerability {
	var vulns []snapshot.SecurityVulnerability
	for _, adv := range advisories {
		base := snapshot.SecurityVulnerability{
			Name:             adv.ModuleName,
			Severity:         ParseSeverityLabel(adv.Severity),
			AffectedVersions: adv.VulnerableVersions,
			Description:      adv.Title,
		}

		cves := adv.CVEs
		if len(cves) == 0 {
			cves = ExtractCVEs(adv.Title + " " + adv.URL)
		}
		if len(cves) == 0 {
			vulns = append(vulns, CreateVulnerability(base))
			continue
		}
		for _, cve := range cves {
			v := base
			v.CVEID = strings.ToUpper(cve)
			vulns = append(vulns, CreateVulnerability(v))
		}
	}
	return vulns
}
