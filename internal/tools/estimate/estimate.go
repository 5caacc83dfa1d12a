// Package estimate computes one-shot three-point estimates for terminals.
package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/louisbranch/threepoint/internal/pert"
	"github.com/louisbranch/threepoint/internal/services/estimator"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
	estimatorsqlite "github.com/louisbranch/threepoint/internal/services/estimator/storage/sqlite"
)

// defaultPercentiles is the percentile list applied when the flag is unset.
const defaultPercentiles = "80,85,90,95"

// Config holds estimate command configuration.
type Config struct {
	Optimistic  float64
	MostLikely  float64
	Pessimistic float64
	Lambda      float64
	Percentiles string
	Unit        string
	Note        string
	JSONOutput  bool
	Save        bool
	DBPath      string `env:"THREEPOINT_ESTIMATOR_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config. The three point
// flags are required; everything else carries a default.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "estimator.db")
	}
	cfg.Lambda = pert.DefaultLambda
	cfg.Percentiles = defaultPercentiles
	cfg.Unit = string(estimator.UnitHours)

	fs.Float64Var(&cfg.Optimistic, "o", 0, "optimistic estimate (required)")
	fs.Float64Var(&cfg.MostLikely, "m", 0, "most likely estimate (required)")
	fs.Float64Var(&cfg.Pessimistic, "p", 0, "pessimistic estimate (required)")
	fs.Float64Var(&cfg.Lambda, "lambda", cfg.Lambda, "weight on the most likely estimate")
	fs.StringVar(&cfg.Percentiles, "percentiles", cfg.Percentiles, "comma-separated completion percentiles (80, 85, 90, 95)")
	fs.StringVar(&cfg.Unit, "unit", cfg.Unit, "estimate unit: hours or days")
	fs.StringVar(&cfg.Note, "note", "", "note stored with the estimate")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output the JSON estimation payload")
	fs.BoolVar(&cfg.Save, "save", false, "persist the estimate to the history store")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "history sqlite path used with -save (default: THREEPOINT_ESTIMATOR_DB_PATH or data/estimator.db)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	for _, name := range []string{"o", "m", "p"} {
		if !seen[name] {
			return Config{}, fmt.Errorf("flag -%s is required", name)
		}
	}
	return cfg, nil
}

// Run computes the estimate, optionally persists it, and writes the result
// to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}

	levels, err := parsePercentiles(cfg.Percentiles)
	if err != nil {
		return err
	}

	lambda := cfg.Lambda
	req := estimator.EstimateRequest{
		Optimistic:  cfg.Optimistic,
		MostLikely:  cfg.MostLikely,
		Pessimistic: cfg.Pessimistic,
		Lambda:      &lambda,
		Unit:        cfg.Unit,
		Percentiles: levels,
		Note:        cfg.Note,
	}

	if cfg.Save {
		store, err := openHistoryStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "close history store: %v\n", closeErr)
			}
		}()

		entry, err := estimator.NewService(store, nil, nil).EstimateAndSave(ctx, req)
		if err != nil {
			return err
		}
		return writeEntry(out, cfg.JSONOutput, entry)
	}

	estimation, err := estimator.NewService(nil, nil, nil).Estimate(ctx, req)
	if err != nil {
		return err
	}
	return writeEstimation(out, cfg.JSONOutput, estimation)
}

func writeEstimation(out io.Writer, asJSON bool, est estimator.Estimation) error {
	if asJSON {
		return encodePayload(out, api.NewEstimationResponse(est))
	}
	writeSummary(out, est)
	return nil
}

func writeEntry(out io.Writer, asJSON bool, entry storage.HistoryEntry) error {
	if asJSON {
		return encodePayload(out, api.NewHistoryEntry(entry))
	}
	writeSummary(out, estimator.Estimation{
		Optimistic:       entry.Optimistic,
		MostLikely:       entry.MostLikely,
		Pessimistic:      entry.Pessimistic,
		Lambda:           entry.Lambda,
		Unit:             estimator.Unit(entry.Unit),
		Percentiles:      entry.Percentiles,
		Mean:             entry.Mean,
		Sigma:            entry.Sigma,
		PercentileValues: entry.PercentileValues,
		Note:             entry.Note,
	})
	fmt.Fprintf(out, "%-12s %s (%s)\n", "Saved:", entry.ID, entry.CreatedAt.UTC().Format("2006-01-02 15:04"))
	return nil
}

func writeSummary(out io.Writer, est estimator.Estimation) {
	fmt.Fprintf(out, "%-12s %s\n", "Unit:", est.Unit)
	fmt.Fprintf(out, "%-12s %g\n", "Optimistic:", est.Optimistic)
	fmt.Fprintf(out, "%-12s %g\n", "Most likely:", est.MostLikely)
	fmt.Fprintf(out, "%-12s %g\n", "Pessimistic:", est.Pessimistic)
	fmt.Fprintf(out, "%-12s %g\n", "Lambda:", est.Lambda)
	fmt.Fprintf(out, "%-12s %.2f\n", "Mean:", est.Mean)
	fmt.Fprintf(out, "%-12s %.2f\n", "Sigma:", est.Sigma)
	for _, p := range est.Percentiles {
		fmt.Fprintf(out, "%-12s %.2f\n", p.String()+":", est.PercentileValues[p])
	}
	if est.Note != "" {
		fmt.Fprintf(out, "%-12s %s\n", "Note:", est.Note)
	}
}

func encodePayload(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode estimation: %w", err)
	}
	return nil
}

// parsePercentiles splits a comma-separated percentile list into levels. The
// estimator rejects unsupported levels during validation.
func parsePercentiles(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	levels := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		level, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("percentile %q is not a number", part)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func openHistoryStore(path string) (storage.HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	store, err := estimatorsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history store: %w", err)
	}
	return store, nil
}
