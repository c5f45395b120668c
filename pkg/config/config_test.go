package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name  string
		cases int
		hours float64
	}{
		{"small", 500, 12},
		{"medium", 2000, 18},
		{"large", 5000, 24},
	}

	for _, tt := range tests {
		p, ok := cfg.Presets[tt.name]
		if !ok {
			t.Errorf("missing preset %q", tt.name)
			continue
		}
		if p.Cases != tt.cases || p.Hours != tt.hours {
			t.Errorf("preset %q = %+v, want {%d %v}", tt.name, p, tt.cases, tt.hours)
		}
	}

	if cfg.Output.Prefix == "" {
		t.Error("expected a default output prefix")
	}
}

func TestMergeFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "traceforge.yaml")
	data := `
seed: 42
workers: 4
output:
  dir: /data/logs
presets:
  huge:
    cases: 20000
    hours: 48
  small:
    cases: 100
    hours: 1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := mergeFile(cfg, path); err != nil {
		t.Fatal(err)
	}

	if cfg.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Seed)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	if cfg.Output.Dir != "/data/logs" {
		t.Errorf("output dir = %q, want /data/logs", cfg.Output.Dir)
	}
	// Unset fields keep their defaults.
	if cfg.Output.Prefix != "system_call_log" {
		t.Errorf("prefix = %q, want default", cfg.Output.Prefix)
	}

	// New presets are added, existing ones overridden.
	if p := cfg.Presets["huge"]; p.Cases != 20000 || p.Hours != 48 {
		t.Errorf("huge preset = %+v", p)
	}
	if p := cfg.Presets["small"]; p.Cases != 100 || p.Hours != 1 {
		t.Errorf("small preset not overridden: %+v", p)
	}
	if p := cfg.Presets["medium"]; p.Cases != 2000 {
		t.Errorf("medium preset lost: %+v", p)
	}
}

func TestMergeFile_MissingIsFine(t *testing.T) {
	cfg := Default()
	if err := mergeFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file should merge as no-op: %v", err)
	}
}

func TestMergeFile_RejectsBadPreset(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	data := "presets:\n  broken:\n    cases: -1\n    hours: 2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if err := mergeFile(Default(), path); err == nil {
		t.Fatal("expected error for non-positive preset case count")
	}
}

func TestPresetNames(t *testing.T) {
	names := Default().PresetNames()
	want := []string{"large", "medium", "small"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
