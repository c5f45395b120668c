// TraceForge - Labeled synthetic system-call event log generator
// Produces process-mining ready CSV logs with bottleneck ground truth.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/traceforge/traceforge/pkg/catalog"
	"github.com/traceforge/traceforge/pkg/config"
	"github.com/traceforge/traceforge/pkg/gen"
	"github.com/traceforge/traceforge/pkg/quality"
	"github.com/traceforge/traceforge/pkg/tui"
	"github.com/traceforge/traceforge/pkg/writer"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	numCases      int
	timeSpanHours float64
	seed          int64
	presetName    string
	outputDir     string
	outputPrefix  string
	workers       int
	verbose       bool
	noProgress    bool

	// Inspect flags
	inputFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "traceforge",
	Short: "TraceForge - Generate labeled system-call event logs",
	Long: `TraceForge generates realistic, labeled synthetic system-call event logs
for process-mining style bottleneck investigation.

Each log is built from weighted workflow templates (document editing, web
browsing, file management, antivirus scans, system maintenance) with
dual-regime durations that give bottleneck detectors a recoverable ground
truth.

Run without arguments to launch the interactive wizard.`,
	Version: fmt.Sprintf("%s (%s)", version, commit),
	RunE:    runWizard,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an event log",
	Long: `Generate a labeled system-call event log and write it as CSV.

Examples:
  traceforge generate --preset medium
  traceforge generate --cases 5000 --hours 24
  traceforge generate --cases 1000 --hours 12 --seed 42 --workers 8
  traceforge generate --preset large --output-dir ./data`,
	RunE: runGenerate,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a generated log",
	Long: `Analyze a generated CSV log with embedded SQL: aggregate statistics
plus verification of the generator's labeling invariants (duration
regimes, anomaly bounds, alias columns).

Examples:
  traceforge inspect -i system_call_log_38412_events_20260823_101500.csv`,
	RunE: runInspect,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List configured dataset size presets",
	RunE:  runPresets,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	generateCmd.Flags().IntVar(&numCases, "cases", 0, "Number of cases to generate")
	generateCmd.Flags().Float64Var(&timeSpanHours, "hours", 24, "Time span for case start jitter (hours)")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = derive from clock)")
	generateCmd.Flags().StringVar(&presetName, "preset", "", "Size preset (small, medium, large)")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory")
	generateCmd.Flags().StringVar(&outputPrefix, "prefix", "", "Output filename prefix")
	generateCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent case generation workers (0 = sequential)")
	generateCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	inspectCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Generated CSV log to inspect (required)")
	inspectCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(presetsCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	result, err := tui.RunWizard(cfg)
	if err != nil {
		return err
	}
	if result == nil {
		return nil // cancelled
	}

	return generate(cfg, result.Cases, result.Hours)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cases, hours := numCases, timeSpanHours
	if presetName != "" {
		preset, ok := cfg.Presets[presetName]
		if !ok {
			return fmt.Errorf("unknown preset %q (have: %v)", presetName, cfg.PresetNames())
		}
		if cases == 0 {
			cases = preset.Cases
		}
		if !cmd.Flags().Changed("hours") {
			hours = preset.Hours
		}
	}
	if cases == 0 {
		preset := cfg.Presets["medium"]
		cases = preset.Cases
		if !cmd.Flags().Changed("hours") {
			hours = preset.Hours
		}
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if outputPrefix != "" {
		cfg.Output.Prefix = outputPrefix
	}

	return generate(cfg, cases, hours)
}

func generate(cfg *config.Config, cases int, hours float64) error {
	runSeed := cfg.Seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	acts := catalog.NewActivityCatalog()
	workflows, err := catalog.NewWorkflowCatalog(acts)
	if err != nil {
		return err
	}
	assembler := gen.NewAssembler(workflows, gen.NewCaseGenerator(acts, gen.NewPathResolver()))

	opts := gen.Options{
		NumCases:      cases,
		TimeSpanHours: hours,
		Seed:          runSeed,
		Workers:       cfg.Workers,
	}

	if verbose {
		fmt.Printf("Cases:   %d\n", cases)
		fmt.Printf("Span:    %.1fh\n", hours)
		fmt.Printf("Seed:    %d\n", runSeed)
		fmt.Printf("Workers: %d\n", cfg.Workers)
		fmt.Printf("Output:  %s\n", cfg.Output.Dir)
	}

	if !noProgress {
		bar := tui.NewProgress(cases)
		opts.Progress = func() { bar.Add(1) }
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, aborting...")
		cancel()
	}()

	start := time.Now()
	events, meta, err := assembler.Generate(ctx, opts)
	if err != nil {
		return err
	}

	path, err := writer.WriteFile(cfg.Output.Dir, cfg.Output.Prefix, events)
	if err != nil {
		return err
	}

	tui.PrintSummary(meta, path, time.Since(start))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	validator, err := quality.NewValidator()
	if err != nil {
		return err
	}
	defer validator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	metrics, err := validator.AnalyzeLog(ctx, inputFile)
	if err != nil {
		return err
	}

	tui.PrintReport(metrics)
	if len(metrics.Violations) > 0 {
		os.Exit(1)
	}
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for _, name := range cfg.PresetNames() {
		p := cfg.Presets[name]
		fmt.Printf("%-10s %6d cases over %.0fh\n", name, p.Cases, p.Hours)
	}
	return nil
}
