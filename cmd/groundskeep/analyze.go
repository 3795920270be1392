package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/groundskeep/groundskeep/internal/analyzer"
	"github.com/groundskeep/groundskeep/internal/config"
	"github.com/groundskeep/groundskeep/internal/snapshot"
	"github.com/groundskeep/groundskeep/internal/task"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <snapshot>",
	Short: "Rank all maintenance candidates found in a snapshot",
	Long: `Run every analyzer over a project-analysis snapshot and print the
full candidate list in selection order, best first.

The snapshot is produced by the external scanner (JSON or YAML). Absent
optional sections simply produce no candidates.

Examples:
  groundskeep analyze snapshot.json
  groundskeep analyze snapshot.yaml --format json
  groundskeep analyze snapshot.json --analyzers maintenance,docs`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		analyzerList, _ := cmd.Flags().GetString("analyzers")

		report, cfg, err := runPipeline(args[0], analyzerList)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if format == "" {
			format = cfg.Output.Format
		}
		if format == "json" {
			printJSON(report)
			return
		}
		printReport(report, cfg.MaxCandidates)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <snapshot>",
	Short: "Print the single task the daemon should execute next",
	Long: `Run the full pipeline and print only the selected candidate.

Exits with status 2 when the snapshot yields no candidates, so the daemon
can distinguish "nothing to do" from a failure.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		analyzerList, _ := cmd.Flags().GetString("analyzers")

		report, _, err := runPipeline(args[0], analyzerList)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if report.Selected == nil {
			fmt.Println("No maintenance candidates found. Nothing to do.")
			os.Exit(2)
		}

		if format == "json" {
			printJSON(report.Selected)
			return
		}
		printCandidate(*report.Selected, true)
	},
}

var analyzersCmd = &cobra.Command{
	Use:   "analyzers",
	Short: "List registered analyzers and their philosophies",
	Run: func(cmd *cobra.Command, args []string) {
		cyan := color.New(color.FgCyan).SprintFunc()
		for _, a := range analyzer.DefaultRegistry().All() {
			fmt.Printf("%s\n  %s\n", cyan(a.Type()), a.Philosophy())
		}
	},
}

// runPipeline loads config and snapshot, resolves the analyzer set, and
// runs the engine. analyzerList overrides the configured set when given.
func runPipeline(snapshotPath, analyzerList string) (*analyzer.Report, *config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("determining working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := snapshot.Load(snapshotPath)
	if err != nil {
		return nil, nil, err
	}

	registry := analyzer.DefaultRegistry()

	names := cfg.Analyzers
	if analyzerList != "" {
		names = strings.Split(analyzerList, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
	}
	if len(names) > 0 {
		selected, err := registry.Resolve(names)
		if err != nil {
			return nil, nil, err
		}
		registry = analyzer.NewRegistry()
		for _, a := range selected {
			if err := registry.Register(a); err != nil {
				return nil, nil, err
			}
		}
	}

	return analyzer.NewEngine(registry).Analyze(analysis), cfg, nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printReport(report *analyzer.Report, maxCandidates int) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	ranked := make([]task.Candidate, len(report.Candidates))
	copy(ranked, report.Candidates)
	analyzer.Rank(ranked)

	fmt.Printf("%s run %s\n", cyan("groundskeep"), report.RunID)

	if len(ranked) == 0 {
		fmt.Println(green("No maintenance candidates found. Nothing to do."))
		return
	}

	counts := make([]string, 0, len(report.ByAnalyzer))
	for _, name := range sortedKeys(report.ByAnalyzer) {
		counts = append(counts, fmt.Sprintf("%s: %d", name, report.ByAnalyzer[name]))
	}
	fmt.Printf("%d candidates (%s)\n\n", len(ranked), strings.Join(counts, ", "))

	shown := ranked
	if maxCandidates > 0 && len(shown) > maxCandidates {
		shown = shown[:maxCandidates]
	}
	for i, c := range shown {
		printCandidate(c, i == 0)
	}
	if len(shown) < len(ranked) {
		fmt.Printf("... and %d more\n", len(ranked)-len(shown))
	}
}

func printCandidate(c task.Candidate, selected bool) {
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	marker := " "
	if selected {
		marker = green("▶")
	}

	fmt.Printf("%s %.2f [%s/%s] %s\n", marker, c.Score, c.Priority, c.Effort, bold(c.Title))
	fmt.Printf("    %s  workflow=%s\n", yellow(c.ID), c.Workflow)
	if c.Rationale != "" {
		fmt.Printf("    %s\n", c.Rationale)
	}
	for _, s := range c.Remediation {
		line := fmt.Sprintf("    - [%s] %s", s.Type, s.Description)
		if s.Command != "" {
			line += fmt.Sprintf("  $ %s", s.Command)
		}
		fmt.Println(line)
		if s.Warning != "" {
			fmt.Printf("      %s %s\n", yellow("warning:"), s.Warning)
		}
	}
	fmt.Println()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	analyzeCmd.Flags().String("format", "", "Output format: text or json")
	analyzeCmd.Flags().String("analyzers", "", "Comma-separated analyzer types to run (default: all)")
	selectCmd.Flags().String("format", "", "Output format: text or json")
	selectCmd.Flags().String("analyzers", "", "Comma-separated analyzer types to run (default: all)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(analyzersCmd)
}
