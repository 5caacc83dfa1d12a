// Package sqlite provides a SQLite-backed estimator history implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/threepoint/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists estimator history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite history store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts one history entry.
func (s *Store) Save(ctx context.Context, entry storage.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		return fmt.Errorf("entry id is required")
	}
	createdAt := entry.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	percentiles, err := json.Marshal(entry.Percentiles)
	if err != nil {
		return fmt.Errorf("encode percentiles: %w", err)
	}
	percentileValues, err := json.Marshal(entry.PercentileValues)
	if err != nil {
		return fmt.Errorf("encode percentile values: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO history_entries (
		   id,
		   optimistic,
		   most_likely,
		   pessimistic,
		   lambda,
		   unit,
		   percentiles,
		   mean,
		   sigma,
		   percentile_values,
		   note,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		entry.Optimistic,
		entry.MostLikely,
		entry.Pessimistic,
		entry.Lambda,
		strings.TrimSpace(entry.Unit),
		string(percentiles),
		entry.Mean,
		entry.Sigma,
		string(percentileValues),
		strings.TrimSpace(entry.Note),
		toMillis(createdAt),
	)
	if err != nil {
		if isHistoryEntryUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("save history entry: %w", err)
	}
	return nil
}

// List returns history entries newest first. Rows whose stored JSON no
// longer decodes are skipped rather than surfaced as errors.
func (s *Store) List(ctx context.Context, limit, offset int) ([]storage.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, optimistic, most_likely, pessimistic, lambda, unit,
		        percentiles, mean, sigma, percentile_values, note, created_at
		   FROM history_entries
		  ORDER BY created_at DESC, id DESC
		  LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.HistoryEntry, 0, limit)
	for rows.Next() {
		var entry storage.HistoryEntry
		var percentiles string
		var percentileValues string
		var createdAt int64
		if err := rows.Scan(
			&entry.ID,
			&entry.Optimistic,
			&entry.MostLikely,
			&entry.Pessimistic,
			&entry.Lambda,
			&entry.Unit,
			&percentiles,
			&entry.Mean,
			&entry.Sigma,
			&percentileValues,
			&entry.Note,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list history entries: %w", err)
		}
		if err := json.Unmarshal([]byte(percentiles), &entry.Percentiles); err != nil {
			log.Printf("skip corrupt history entry id=%s: decode percentiles: %v", entry.ID, err)
			continue
		}
		if err := json.Unmarshal([]byte(percentileValues), &entry.PercentileValues); err != nil {
			log.Printf("skip corrupt history entry id=%s: decode percentile values: %v", entry.ID, err)
			continue
		}
		entry.CreatedAt = fromMillis(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	return entries, nil
}

// Delete removes one history entry by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("entry id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM history_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Clear removes every history entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM history_entries`); err != nil {
		return fmt.Errorf("clear history entries: %w", err)
	}
	return nil
}

func isHistoryEntryUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "history_entries.id")
}

var _ storage.HistoryStore = (*Store)(nil)
