package task

import "testing"

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already safe",
			input: "CVE-2023-12345",
			want:  "CVE-2023-12345",
		},
		{
			name:  "scoped npm package",
			input: "@types/node",
			want:  "-types-node",
		},
		{
			name:  "dots and underscores",
			input: "lodash.merge_v4",
			want:  "lodash-merge-v4",
		},
		{
			name:  "unicode",
			input: "pkgéname",
			want:  "pkg-name",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "spaces and slashes",
			input: "a b/c",
			want:  "a-b-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeID(tt.input); got != tt.want {
				t.Errorf("SanitizeID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []Priority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("expected %s to rank above %s", ordered[i-1], ordered[i])
		}
	}

	if Priority("bogus").Rank() <= PriorityLow.Rank() {
		t.Error("unknown priority should rank below low")
	}
}

func TestSuggestionTypeRequiresCommand(t *testing.T) {
	commandFamily := []SuggestionType{
		SuggestDependencyUpdate,
		SuggestPackageManagerUpgrade,
		SuggestShellCommand,
		SuggestPackageReplacement,
	}
	for _, st := range commandFamily {
		if !st.RequiresCommand() {
			t.Errorf("%s should require a command", st)
		}
	}

	informational := []SuggestionType{
		SuggestAdvisoryLink,
		SuggestManualReview,
		SuggestMigrationGuide,
		SuggestDocumentationPointer,
		SuggestTestingReminder,
	}
	for _, st := range informational {
		if st.RequiresCommand() {
			t.Errorf("%s should not require a command", st)
		}
	}
}

func TestCandidateValidate(t *testing.T) {
	valid := Candidate{
		ID:       "security-critical-CVE-2023-12345",
		Title:    "Fix critical vulnerability in lodash",
		Priority: PriorityUrgent,
		Effort:   EffortHigh,
		Workflow: WorkflowSecurityPatch,
		Score:    1.0,
		Remediation: []RemediationSuggestion{
			{Type: SuggestDependencyUpdate, Command: "npm update lodash", Priority: SuggestionCritical},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid candidate failed validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Candidate)
	}{
		{"empty id", func(c *Candidate) { c.ID = "" }},
		{"unsafe id", func(c *Candidate) { c.ID = "bad id!" }},
		{"zero score", func(c *Candidate) { c.Score = 0 }},
		{"score above one", func(c *Candidate) { c.Score = 1.5 }},
		{"invalid priority", func(c *Candidate) { c.Priority = "critical" }},
		{"invalid effort", func(c *Candidate) { c.Effort = "huge" }},
		{"unknown suggestion type", func(c *Candidate) { c.Remediation[0].Type = "reboot" }},
		{"missing command", func(c *Candidate) { c.Remediation[0].Command = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			c.Remediation = []RemediationSuggestion{valid.Remediation[0]}
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
