// Package tui provides the interactive CLI surface: the dataset size
// wizard, generation progress, and styled report output.
package tui

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/traceforge/traceforge/pkg/config"
	"github.com/traceforge/traceforge/pkg/gen"
	"github.com/traceforge/traceforge/pkg/quality"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF6600")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// WizardResult holds the chosen generation size.
type WizardResult struct {
	PresetName string
	Cases      int
	Hours      float64
}

// RunWizard runs the interactive preset picker. A nil result with a nil
// error means the user cancelled.
func RunWizard(cfg *config.Config) (*WizardResult, error) {
	reader := bufio.NewReader(os.Stdin)

	printHeader()

	names := cfg.PresetNames()
	fmt.Println()
	fmt.Println(accentStyle.Render("▸ SELECT DATASET SIZE"))
	fmt.Println()
	for i, name := range names {
		p := cfg.Presets[name]
		fmt.Printf("  %s %s %s\n",
			titleStyle.Render(fmt.Sprintf("%d.", i+1)),
			titleStyle.Render(name),
			mutedStyle.Render(fmt.Sprintf("(%d cases over %.0fh)", p.Cases, p.Hours)))
	}
	fmt.Println()

	choice, err := prompt(reader, fmt.Sprintf("  Enter choice (1-%d) [2]: ", len(names)))
	if err != nil {
		return nil, err
	}
	idx := 1 // medium by default
	if choice != "" {
		n := 0
		if _, err := fmt.Sscanf(choice, "%d", &n); err == nil && n >= 1 && n <= len(names) {
			idx = n - 1
		}
	}
	name := names[idx]
	p := cfg.Presets[name]

	fmt.Println()
	fmt.Println(mutedStyle.Render("  ─────────────────────────────────────"))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Preset:"), titleStyle.Render(name))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Cases:"), titleStyle.Render(fmt.Sprintf("%d", p.Cases)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Span:"), titleStyle.Render(fmt.Sprintf("%.0f hours", p.Hours)))
	fmt.Println(mutedStyle.Render("  ─────────────────────────────────────"))
	fmt.Println()

	confirm, err := promptConfirm(reader, "  Start generation? [Y/n]: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		fmt.Println(mutedStyle.Render("  Cancelled."))
		return nil, nil
	}

	return &WizardResult{PresetName: name, Cases: p.Cases, Hours: p.Hours}, nil
}

func printHeader() {
	fmt.Println()
	fmt.Println(titleStyle.Render("  TRACEFORGE"))
	fmt.Println(mutedStyle.Render("  Labeled system-call event log generator"))
}

func prompt(reader *bufio.Reader, text string) (string, error) {
	fmt.Print(text)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func promptConfirm(reader *bufio.Reader, text string) (bool, error) {
	input, err := prompt(reader, text)
	if err != nil {
		return false, err
	}
	input = strings.ToLower(input)
	return input == "" || input == "y" || input == "yes", nil
}

// NewProgress returns a progress bar over total cases.
func NewProgress(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("generating cases"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// PrintSummary renders the end-of-run report.
func PrintSummary(meta *gen.Metadata, path string, elapsed time.Duration) {
	fmt.Println()
	fmt.Println(successStyle.Render("  ✓ Generation complete"))
	fmt.Println()
	fmt.Printf("  %s %s\n", mutedStyle.Render("Events:"), titleStyle.Render(fmt.Sprintf("%d", meta.TotalEvents)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Cases:"), titleStyle.Render(fmt.Sprintf("%d", meta.UniqueCases)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Mean case length:"), titleStyle.Render(fmt.Sprintf("%.1f", meta.MeanCaseLength)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Bottlenecks:"), titleStyle.Render(fmt.Sprintf("%.1f%%", meta.BottleneckPct)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Errors:"), titleStyle.Render(fmt.Sprintf("%.1f%%", meta.ErrorRatePct)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Seed:"), titleStyle.Render(fmt.Sprintf("%d", meta.Seed)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Run ID:"), titleStyle.Render(meta.RunID))
	fmt.Println()

	fmt.Println(accentStyle.Render("  Workflow distribution"))
	for _, wf := range sortedKeys(meta.WorkflowDistribution) {
		fmt.Printf("    %s %s\n",
			mutedStyle.Render(fmt.Sprintf("%-20s", wf)),
			titleStyle.Render(fmt.Sprintf("%d", meta.WorkflowDistribution[wf])))
	}
	fmt.Println()

	fmt.Println(accentStyle.Render("  Top activities"))
	for _, ac := range meta.TopActivities {
		fmt.Printf("    %s %s\n",
			mutedStyle.Render(fmt.Sprintf("%-20s", ac.Activity)),
			titleStyle.Render(fmt.Sprintf("%d", ac.Count)))
	}
	fmt.Println()

	fmt.Printf("  %s %s %s\n", mutedStyle.Render("Output:"), titleStyle.Render(path),
		mutedStyle.Render(fmt.Sprintf("(%.2fs)", elapsed.Seconds())))
	fmt.Println()
}

// PrintReport renders an inspect report.
func PrintReport(m *quality.LogMetrics) {
	fmt.Println()
	fmt.Println(titleStyle.Render("  LOG REPORT ") + mutedStyle.Render(m.Path))
	fmt.Println()
	fmt.Printf("  %s %s\n", mutedStyle.Render("Rows:"), titleStyle.Render(fmt.Sprintf("%d", m.RowCount)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Cases:"), titleStyle.Render(fmt.Sprintf("%d", m.CaseCount)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Activities:"), titleStyle.Render(fmt.Sprintf("%d", m.ActivityCount)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Workflows:"), titleStyle.Render(fmt.Sprintf("%d", m.WorkflowCount)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Mean case length:"), titleStyle.Render(fmt.Sprintf("%.1f", m.MeanCaseLength)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Bottlenecks:"), titleStyle.Render(fmt.Sprintf("%.1f%%", m.BottleneckPct)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Errors:"), titleStyle.Render(fmt.Sprintf("%.1f%%", m.ErrorPct)))
	fmt.Println()

	if len(m.Violations) == 0 {
		fmt.Println(successStyle.Render("  ✓ All invariants hold"))
	} else {
		fmt.Println(errorStyle.Render("  ✗ Invariant violations"))
		for _, v := range m.Violations {
			fmt.Printf("    %s\n", errorStyle.Render(v))
		}
	}
	fmt.Printf("  %s\n", mutedStyle.Render(fmt.Sprintf("analyzed in %.2fs", m.ComputeTime.Seconds())))
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
