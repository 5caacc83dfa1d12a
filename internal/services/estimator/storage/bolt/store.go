// Package bolt provides a BoltDB blob-backed estimator history implementation.
//
// The whole history lives under one bucket key as a JSON-encoded list,
// newest first. Save rewrites the blob with the new entry prepended. A blob
// that no longer decodes loads as an empty list, never as an error.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
	"go.etcd.io/bbolt"
)

const (
	historyBucket = "history"
	historyKey    = "entries"
)

// Store provides a BoltDB-backed history store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save prepends one history entry and rewrites the stored list.
func (s *Store) Save(ctx context.Context, entry storage.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("entry id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	} else {
		entry.CreatedAt = entry.CreatedAt.UTC()
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket is missing")
		}
		entries := decodeEntries(bucket.Get([]byte(historyKey)))
		for _, existing := range entries {
			if existing.ID == entry.ID {
				return storage.ErrAlreadyExists
			}
		}
		entries = append([]storage.HistoryEntry{entry}, entries...)
		payload, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal history entries: %w", err)
		}
		return bucket.Put([]byte(historyKey), payload)
	})
}

// List returns history entries newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]storage.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	var entries []storage.HistoryEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket is missing")
		}
		entries = decodeEntries(bucket.Get([]byte(historyKey)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if offset >= len(entries) {
		return []storage.HistoryEntry{}, nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	page := make([]storage.HistoryEntry, end-offset)
	copy(page, entries[offset:end])
	return page, nil
}

// Delete removes one history entry by id and rewrites the stored list.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("entry id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket is missing")
		}
		entries := decodeEntries(bucket.Get([]byte(historyKey)))
		kept := entries[:0]
		found := false
		for _, entry := range entries {
			if entry.ID == id {
				found = true
				continue
			}
			kept = append(kept, entry)
		}
		if !found {
			return storage.ErrNotFound
		}
		payload, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("marshal history entries: %w", err)
		}
		return bucket.Put([]byte(historyKey), payload)
	})
}

// Clear rewrites the stored list as empty.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket is missing")
		}
		return bucket.Put([]byte(historyKey), []byte("[]"))
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		if err != nil {
			return fmt.Errorf("create history bucket: %w", err)
		}
		return nil
	})
}

// decodeEntries falls back to an empty list when the blob is missing or no
// longer decodes.
func decodeEntries(payload []byte) []storage.HistoryEntry {
	if len(payload) == 0 {
		return []storage.HistoryEntry{}
	}
	var entries []storage.HistoryEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		log.Printf("reset corrupt history blob: %v", err)
		return []storage.HistoryEntry{}
	}
	if entries == nil {
		return []storage.HistoryEntry{}
	}
	return entries
}

var _ storage.HistoryStore = (*Store)(nil)
