// Package task defines the shared output vocabulary of the analysis
// pipeline: scored maintenance candidates and their typed remediation
// suggestions. Every analyzer emits these; the selector and the downstream
// task executor consume them.
package task

import (
	"fmt"
	"strings"
)

// Priority is the four-level urgency assigned to a candidate.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the four defined levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// Rank returns the ordering rank of the priority, 0 being most urgent.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Effort is the estimated size of the work a candidate represents.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Valid reports whether e is one of the three defined levels.
func (e Effort) Valid() bool {
	switch e {
	case EffortLow, EffortMedium, EffortHigh:
		return true
	}
	return false
}

// Workflow tags name which downstream execution workflow handles a candidate.
const (
	WorkflowSecurityPatch    = "security-patch"
	WorkflowDependencyUpdate = "dependency-update"
	WorkflowDocumentation    = "documentation"
	WorkflowRefactoring      = "refactoring"
)

// SuggestionType is the fixed vocabulary of remediation suggestion kinds.
type SuggestionType string

const (
	SuggestDependencyUpdate      SuggestionType = "dependency-update"
	SuggestPackageManagerUpgrade SuggestionType = "package-manager-upgrade"
	SuggestShellCommand          SuggestionType = "shell-command"
	SuggestAdvisoryLink          SuggestionType = "security-advisory-link"
	SuggestManualReview          SuggestionType = "manual-review"
	SuggestMigrationGuide        SuggestionType = "migration-guide"
	SuggestPackageReplacement    SuggestionType = "package-replacement"
	SuggestDocumentationPointer  SuggestionType = "documentation-pointer"
	SuggestTestingReminder       SuggestionType = "testing-reminder"
)

// RequiresCommand reports whether suggestions of this type must carry a
// non-empty Command.
func (t SuggestionType) RequiresCommand() bool {
	switch t {
	case SuggestDependencyUpdate, SuggestPackageManagerUpgrade, SuggestShellCommand, SuggestPackageReplacement:
		return true
	}
	return false
}

// Valid reports whether t is part of the fixed vocabulary.
func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestDependencyUpdate, SuggestPackageManagerUpgrade, SuggestShellCommand,
		SuggestAdvisoryLink, SuggestManualReview, SuggestMigrationGuide,
		SuggestPackageReplacement, SuggestDocumentationPointer, SuggestTestingReminder:
		return true
	}
	return false
}

// SuggestionPriority ranks remediation suggestions within one candidate.
// It deliberately reuses the security severity scale rather than the
// candidate Priority scale.
type SuggestionPriority string

const (
	SuggestionCritical SuggestionPriority = "critical"
	SuggestionHigh     SuggestionPriority = "high"
	SuggestionMedium   SuggestionPriority = "medium"
	SuggestionLow      SuggestionPriority = "low"
)

// RemediationSuggestion is one concrete, typed follow-up action attached
// to a candidate.
type RemediationSuggestion struct {
	Type            SuggestionType     `json:"type" yaml:"type"`
	Description     string             `json:"description" yaml:"description"`
	Command         string             `json:"command,omitempty" yaml:"command,omitempty"`
	Link            string             `json:"link,omitempty" yaml:"link,omitempty"`
	Priority        SuggestionPriority `json:"priority" yaml:"priority"`
	ExpectedOutcome string             `json:"expectedOutcome,omitempty" yaml:"expected_outcome,omitempty"`
	Warning         string             `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Candidate is one scored, actionable maintenance opportunity.
//
// ID is a stable URL-safe slug derived deterministically from the issue's
// natural key (CVE id, package name, update type), so re-running analysis
// on an unchanged project produces identical ids. Downstream consumers
// rely on that for at-most-once task deduplication.
type Candidate struct {
	ID          string                  `json:"candidateId" yaml:"candidate_id"`
	Title       string                  `json:"title" yaml:"title"`
	Description string                  `json:"description" yaml:"description"`
	Priority    Priority                `json:"priority" yaml:"priority"`
	Effort      Effort                  `json:"effort" yaml:"effort"`
	Workflow    string                  `json:"workflow" yaml:"workflow"`
	Rationale   string                  `json:"rationale" yaml:"rationale"`
	Score       float64                 `json:"score" yaml:"score"`
	Remediation []RemediationSuggestion `json:"remediationSuggestions,omitempty" yaml:"remediation_suggestions,omitempty"`
}

// Validate checks the structural invariants every emitted candidate must
// hold: score in (0, 1], valid enums, and non-empty commands on
// command-family suggestions.
func (c Candidate) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("candidate has empty id")
	}
	if c.ID != SanitizeID(c.ID) {
		return fmt.Errorf("candidate id %q contains unsafe characters", c.ID)
	}
	if c.Score <= 0 || c.Score > 1.0 {
		return fmt.Errorf("candidate %s: score %.2f outside (0, 1]", c.ID, c.Score)
	}
	if !c.Priority.Valid() {
		return fmt.Errorf("candidate %s: invalid priority %q", c.ID, c.Priority)
	}
	if !c.Effort.Valid() {
		return fmt.Errorf("candidate %s: invalid effort %q", c.ID, c.Effort)
	}
	for i, s := range c.Remediation {
		if !s.Type.Valid() {
			return fmt.Errorf("candidate %s: suggestion %d has unknown type %q", c.ID, i, s.Type)
		}
		if s.Type.RequiresCommand() && s.Command == "" {
			return fmt.Errorf("candidate %s: %s suggestion %d is missing a command", c.ID, s.Type, i)
		}
	}
	return nil
}

// SanitizeID maps a natural key (package name, CVE id) onto the candidate
// id alphabet by replacing every rune outside [A-Za-z0-9-] with '-'.
// The result is safe to use as a routing key and stable for a given input.
func SanitizeID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-':
			return r
		}
		return '-'
	}, s)
}
