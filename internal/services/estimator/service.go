package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/louisbranch/threepoint/internal/pert"
	"github.com/louisbranch/threepoint/internal/platform/id"
	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
)

// DefaultHistoryLimit is the history page size when a caller does not choose
// one; MaxHistoryLimit caps a single page.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Service orchestrates estimate computation and history lifecycle behavior.
type Service struct {
	store storage.HistoryStore
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs estimator use-cases. The store may be nil for
// compute-only callers; clock and newID default to the real implementations.
func NewService(store storage.HistoryStore, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store: store,
		clock: clock,
		newID: newID,
	}
}

// Estimate validates the request and computes mean, sigma, and the requested
// percentile values. Nothing is persisted.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (Estimation, error) {
	if err := ctx.Err(); err != nil {
		return Estimation{}, err
	}
	if err := req.Validate(); err != nil {
		return Estimation{}, err
	}

	lambda := req.lambdaOrDefault()
	unit, err := ParseUnit(req.Unit)
	if err != nil {
		return Estimation{}, err
	}
	percentiles := req.percentileSet()

	result := pert.Calculate(pert.Input{
		Optimistic:  req.Optimistic,
		MostLikely:  req.MostLikely,
		Pessimistic: req.Pessimistic,
		Lambda:      lambda,
		Percentiles: percentiles,
	})

	return Estimation{
		Optimistic:       req.Optimistic,
		MostLikely:       req.MostLikely,
		Pessimistic:      req.Pessimistic,
		Lambda:           lambda,
		Unit:             unit,
		Percentiles:      percentiles,
		Mean:             result.Mean,
		Sigma:            result.Sigma,
		PercentileValues: result.Percentiles,
		Note:             strings.TrimSpace(req.Note),
	}, nil
}

// EstimateAndSave computes the estimate and persists it as a new history
// entry with a generated id and a UTC timestamp.
func (s *Service) EstimateAndSave(ctx context.Context, req EstimateRequest) (storage.HistoryEntry, error) {
	if s == nil || s.store == nil {
		return storage.HistoryEntry{}, apperrors.E(apperrors.KindUnavailable, "history store is not configured")
	}
	estimation, err := s.Estimate(ctx, req)
	if err != nil {
		return storage.HistoryEntry{}, err
	}

	entryID, err := s.newID()
	if err != nil {
		return storage.HistoryEntry{}, fmt.Errorf("generate entry id: %w", err)
	}
	entry := storage.HistoryEntry{
		ID:               entryID,
		Optimistic:       estimation.Optimistic,
		MostLikely:       estimation.MostLikely,
		Pessimistic:      estimation.Pessimistic,
		Lambda:           estimation.Lambda,
		Unit:             string(estimation.Unit),
		Percentiles:      estimation.Percentiles,
		Mean:             estimation.Mean,
		Sigma:            estimation.Sigma,
		PercentileValues: estimation.PercentileValues,
		Note:             estimation.Note,
		CreatedAt:        s.nowUTC(),
	}
	if err := s.store.Save(ctx, entry); err != nil {
		return storage.HistoryEntry{}, fmt.Errorf("save history entry: %w", err)
	}
	return entry, nil
}

// ClampHistoryPage normalizes paging values: non-positive limits fall back
// to DefaultHistoryLimit, oversized limits are capped at MaxHistoryLimit,
// and negative offsets become zero.
func ClampHistoryPage(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// History lists saved estimates newest first. A non-positive limit falls
// back to the default page size; oversized limits are capped.
func (s *Service) History(ctx context.Context, limit, offset int) ([]storage.HistoryEntry, error) {
	if s == nil || s.store == nil {
		return nil, apperrors.E(apperrors.KindUnavailable, "history store is not configured")
	}
	limit, offset = ClampHistoryPage(limit, offset)
	entries, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	return entries, nil
}

// DeleteHistoryEntry removes one saved estimate by id.
func (s *Service) DeleteHistoryEntry(ctx context.Context, entryID string) error {
	if s == nil || s.store == nil {
		return apperrors.E(apperrors.KindUnavailable, "history store is not configured")
	}
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "entry id is required")
	}
	if err := s.store.Delete(ctx, entryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.E(apperrors.KindNotFound, "history entry not found")
		}
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}

// ClearHistory removes every saved estimate.
func (s *Service) ClearHistory(ctx context.Context) error {
	if s == nil || s.store == nil {
		return apperrors.E(apperrors.KindUnavailable, "history store is not configured")
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Convert reinterprets value in the opposite unit and converts it to the
// target: hours in when to is days, days in when to is hours.
func (s *Service) Convert(value float64, to Unit) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperrors.E(apperrors.KindInvalidInput, "value must be a finite number")
	}
	switch to {
	case UnitDays:
		return pert.HoursToDays(value), nil
	case UnitHours:
		return pert.DaysToHours(value), nil
	}
	return 0, apperrors.E(apperrors.KindInvalidInput, "unit must be hours or days")
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
