// Package history keeps a bounded in-memory record of terminated rounds.
package history

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fairlines/engine/internal/domain"
)

// Source supplies previously settled rounds, newest first. Satisfied by the
// postgres round archive.
type Source interface {
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// DefaultCapacity bounds the ring when no capacity is configured.
const DefaultCapacity = 100

// Store is a fixed-capacity, oldest-evicted-first record of round summaries.
// Entries are only ever appended and listed, so the LRU's recency order
// degenerates to insertion order: a ring buffer with keyed lookup.
type Store struct {
	entries *lru.Cache[uint64, domain.HistoryEntry]
}

// NewStore creates a history store holding at most capacity entries.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[uint64, domain.HistoryEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{entries: entries}, nil
}

// Record appends a settled round's summary, evicting the oldest entry once
// capacity is reached.
func (s *Store) Record(entry domain.HistoryEntry) {
	s.entries.Add(entry.Sequence, entry)
}

// Get returns the summary for a round sequence, if still retained. Peek
// avoids touching recency so eviction stays strictly oldest-first.
func (s *Store) Get(sequence uint64) (domain.HistoryEntry, bool) {
	return s.entries.Peek(sequence)
}

// List returns retained summaries oldest first.
func (s *Store) List() []domain.HistoryEntry {
	keys := s.entries.Keys()
	out := make([]domain.HistoryEntry, 0, len(keys))
	for _, k := range keys {
		if entry, ok := s.entries.Peek(k); ok {
			out = append(out, entry)
		}
	}
	return out
}

// WarmFrom seeds the ring from an archive so recent rounds survive a restart.
// Entries are replayed oldest first to preserve eviction and listing order.
// Returns the highest sequence loaded, so the caller can resume numbering.
func (s *Store) WarmFrom(ctx context.Context, src Source, limit int) (uint64, error) {
	entries, err := src.ListRecent(ctx, limit)
	if err != nil {
		return 0, err
	}

	var maxSequence uint64
	for i := len(entries) - 1; i >= 0; i-- {
		s.Record(entries[i])
		if entries[i].Sequence > maxSequence {
			maxSequence = entries[i].Sequence
		}
	}
	return maxSequence, nil
}

// Len returns the number of retained summaries.
func (s *Store) Len() int {
	return s.entries.Len()
}
