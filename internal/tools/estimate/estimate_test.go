package estimate

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/threepoint/internal/pert"
	estimatorsqlite "github.com/louisbranch/threepoint/internal/services/estimator/storage/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-o", "2", "-m", "4", "-p", "10"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Optimistic != 2 || cfg.MostLikely != 4 || cfg.Pessimistic != 10 {
		t.Fatalf("points = %+v, want 2 4 10", cfg)
	}
	if cfg.Lambda != pert.DefaultLambda {
		t.Fatalf("lambda = %v, want %v", cfg.Lambda, pert.DefaultLambda)
	}
	if cfg.Percentiles != defaultPercentiles {
		t.Fatalf("percentiles = %q, want %q", cfg.Percentiles, defaultPercentiles)
	}
	if cfg.Unit != "hours" {
		t.Fatalf("unit = %q, want hours", cfg.Unit)
	}
	if cfg.DBPath != filepath.Join("data", "estimator.db") {
		t.Fatalf("db path = %q, want default", cfg.DBPath)
	}
	if cfg.JSONOutput || cfg.Save {
		t.Fatalf("expected json and save off by default, got %+v", cfg)
	}
}

func TestParseConfigRequiresPoints(t *testing.T) {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	_, err := ParseConfig(fs, []string{"-o", "2", "-m", "4"})
	if err == nil {
		t.Fatal("expected missing flag error")
	}
	if !strings.Contains(err.Error(), "-p is required") {
		t.Fatalf("error = %q, want -p is required", err)
	}
}

func TestParseConfigReadsEnvDBPath(t *testing.T) {
	t.Setenv("THREEPOINT_ESTIMATOR_DB_PATH", "/tmp/custom.db")

	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-o", "2", "-m", "4", "-p", "10"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Fatalf("db path = %q, want env value", cfg.DBPath)
	}
}

func TestRunWritesSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := Config{
		Optimistic:  2,
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      pert.DefaultLambda,
		Percentiles: "80,90",
		Unit:        "hours",
	}
	if err := Run(context.Background(), cfg, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, marker := range []string{"hours", "4.67", "1.33", "P80:", "5.79", "P90:", "6.38"} {
		if !strings.Contains(out, marker) {
			t.Fatalf("output missing %q:\n%s", marker, out)
		}
	}
	if strings.Contains(out, "Saved:") {
		t.Fatalf("compute-only output mentions a save:\n%s", out)
	}
}

func TestRunWritesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := Config{
		Optimistic:  2,
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      pert.DefaultLambda,
		Percentiles: "90",
		Unit:        "hours",
		JSONOutput:  true,
	}
	if err := Run(context.Background(), cfg, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, marker := range []string{`"mean": 4.67`, `"sigma": 1.33`, `"90": 6.38`, `"unit": "hours"`} {
		if !strings.Contains(out, marker) {
			t.Fatalf("output missing %q:\n%s", marker, out)
		}
	}
}

func TestRunSavesEstimate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "estimator.db")
	buf := &bytes.Buffer{}
	cfg := Config{
		Optimistic:  2,
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      pert.DefaultLambda,
		Percentiles: "90",
		Unit:        "hours",
		Note:        "sprint planning",
		Save:        true,
		DBPath:      dbPath,
	}
	if err := Run(context.Background(), cfg, buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "Saved:") {
		t.Fatalf("output missing save line:\n%s", buf.String())
	}

	store, err := estimatorsqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	entries, err := store.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Note != "sprint planning" {
		t.Fatalf("note = %q, want sprint planning", entries[0].Note)
	}
}

func TestRunRejectsBadPercentile(t *testing.T) {
	cfg := Config{
		Optimistic:  2,
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      pert.DefaultLambda,
		Percentiles: "abc",
		Unit:        "hours",
	}
	err := Run(context.Background(), cfg, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected percentile error")
	}
	if !strings.Contains(err.Error(), "is not a number") {
		t.Fatalf("error = %q, want is not a number", err)
	}
}

func TestRunSurfacesValidationError(t *testing.T) {
	cfg := Config{
		Optimistic:  10,
		MostLikely:  4,
		Pessimistic: 2,
		Lambda:      pert.DefaultLambda,
		Unit:        "hours",
	}
	err := Run(context.Background(), cfg, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "most likely") {
		t.Fatalf("error = %q, want ordering message", err)
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected output error")
	}
}
