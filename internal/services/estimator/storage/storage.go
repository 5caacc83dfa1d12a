// Package storage defines persistence contracts for estimator history state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/threepoint/internal/pert"
)

var (
	// ErrNotFound indicates a requested history record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a history record with the same id already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// HistoryEntry stores one estimate snapshot: the inputs, the derived values,
// and the creation time in UTC.
type HistoryEntry struct {
	ID               string
	Optimistic       float64
	MostLikely       float64
	Pessimistic      float64
	Lambda           float64
	Unit             string
	Percentiles      []pert.Percentile
	Mean             float64
	Sigma            float64
	PercentileValues map[pert.Percentile]float64
	Note             string
	CreatedAt        time.Time
}

// HistoryStore persists estimate history records in newest-first order.
// List skips records whose persisted form can no longer be decoded; a fully
// unreadable history loads as an empty list, never as an error.
type HistoryStore interface {
	Save(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context, limit, offset int) ([]HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Close() error
}
