// Package estimatorfakes provides in-memory estimator fakes for tests.
package estimatorfakes

import (
	"context"

	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
)

// HistoryStore is a configurable in-memory HistoryStore fake for tests.
// Entries are held newest first, matching the real stores.
type HistoryStore struct {
	Entries []storage.HistoryEntry

	SaveErr   error
	ListErr   error
	DeleteErr error
	ClearErr  error
	CloseErr  error

	LastListLimit  int
	LastListOffset int

	Closed bool
}

// NewHistoryStore constructs an empty HistoryStore fake.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{Entries: []storage.HistoryEntry{}}
}

// Save prepends the entry, or returns the configured error.
func (s *HistoryStore) Save(_ context.Context, entry storage.HistoryEntry) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	for _, existing := range s.Entries {
		if existing.ID == entry.ID {
			return storage.ErrAlreadyExists
		}
	}
	s.Entries = append([]storage.HistoryEntry{entry}, s.Entries...)
	return nil
}

// List records the window and returns it, or the configured error.
func (s *HistoryStore) List(_ context.Context, limit, offset int) ([]storage.HistoryEntry, error) {
	s.LastListLimit = limit
	s.LastListOffset = offset
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	if offset >= len(s.Entries) {
		return []storage.HistoryEntry{}, nil
	}
	end := offset + limit
	if end > len(s.Entries) {
		end = len(s.Entries)
	}
	page := make([]storage.HistoryEntry, end-offset)
	copy(page, s.Entries[offset:end])
	return page, nil
}

// Delete removes the entry with the given id, or returns the configured error.
func (s *HistoryStore) Delete(_ context.Context, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for idx, entry := range s.Entries {
		if entry.ID == id {
			s.Entries = append(s.Entries[:idx], s.Entries[idx+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// Clear drops all entries, or returns the configured error.
func (s *HistoryStore) Clear(_ context.Context) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Entries = []storage.HistoryEntry{}
	return nil
}

// Close records the close, or returns the configured error.
func (s *HistoryStore) Close() error {
	if s.CloseErr != nil {
		return s.CloseErr
	}
	s.Closed = true
	return nil
}

var _ storage.HistoryStore = (*HistoryStore)(nil)
