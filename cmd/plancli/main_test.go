package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func raceIn(weeks int) string {
	return time.Now().AddDate(0, 0, weeks*7+3).Format("2006-01-02")
}

func TestZonesCommand(t *testing.T) {
	out, err := runCLI(t, "zones", "--time", "50", "--distance", "10")
	if err != nil {
		t.Fatalf("zones: %v", err)
	}
	if !strings.Contains(out, "VDOT 40.0") {
		t.Fatalf("missing VDOT line:\n%s", out)
	}
	for _, zone := range []string{"repetition", "interval", "tempo", "marathon", "easy", "recovery"} {
		if !strings.Contains(out, zone) {
			t.Fatalf("zone %s missing:\n%s", zone, out)
		}
	}
}

func TestZonesCommandRejectsBadInput(t *testing.T) {
	if _, err := runCLI(t, "zones", "--time", "0", "--distance", "10"); err == nil {
		t.Fatalf("zero time accepted")
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := runCLI(t, "generate", "--race-date", raceIn(12), "--time", "50", "--distance", "10",
		"--base-km", "25", "--days", "1,3,6", "--format", "json")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var view planView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(view.Weeks) != 12 || view.PeakWeeklyKm != 43 {
		t.Fatalf("weeks=%d peak=%v, want 12 and 43", len(view.Weeks), view.PeakWeeklyKm)
	}
	for _, w := range view.Weeks {
		if len(w.Workouts) != 3 {
			t.Fatalf("week %d has %d workouts", w.Week, len(w.Workouts))
		}
	}
}

func TestGenerateYAMLWithConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := []byte("planner:\n  growth_rate_high_base: 1.0\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), cfg, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "--config-dir", dir, "generate", "--race-date", raceIn(16), "--time", "45",
		"--distance", "10", "--base-km", "40", "--days", "0,2,4,6", "--format", "yaml")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var view planView
	if err := yaml.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if len(view.Weeks) != 16 {
		t.Fatalf("weeks = %d, want 16", len(view.Weeks))
	}
	// Without growth the peak week equals the base.
	if view.PeakWeeklyKm != 40 {
		t.Fatalf("peak weekly km = %v, want 40 with growth disabled", view.PeakWeeklyKm)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad date", []string{"generate", "--race-date", "soon", "--time", "50", "--distance", "10", "--days", "1,3,5"}},
		{"too few days", []string{"generate", "--race-date", raceIn(12), "--time", "50", "--distance", "10", "--days", "1,3"}},
		{"bad format", []string{"generate", "--race-date", raceIn(12), "--time", "50", "--distance", "10", "--days", "1,3,5", "--format", "xml"}},
		{"missing days", []string{"generate", "--race-date", raceIn(12), "--time", "50", "--distance", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
