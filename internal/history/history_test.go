package history

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlines/engine/internal/domain"
)

func entry(sequence uint64) domain.HistoryEntry {
	return domain.HistoryEntry{
		RoundID:     uuid.New(),
		Sequence:    sequence,
		CrashPoint:  1.98,
		TotalStake:  decimal.NewFromInt(100),
		TotalPayout: decimal.NewFromInt(99),
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	e := entry(1)
	s.Record(e)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, e.RoundID, got.RoundID)

	_, ok = s.Get(2)
	assert.False(t, ok)
}

func TestStore_EvictsOldestFirst(t *testing.T) {
	s, err := NewStore(3)
	require.NoError(t, err)

	for seq := uint64(1); seq <= 5; seq++ {
		s.Record(entry(seq))
	}

	assert.Equal(t, 3, s.Len())

	_, ok := s.Get(1)
	assert.False(t, ok, "oldest evicted")
	_, ok = s.Get(2)
	assert.False(t, ok)
	_, ok = s.Get(5)
	assert.True(t, ok)
}

func TestStore_ListOldestFirst(t *testing.T) {
	s, err := NewStore(5)
	require.NoError(t, err)

	for seq := uint64(1); seq <= 4; seq++ {
		s.Record(entry(seq))
	}

	// Lookups must not disturb eviction order
	_, _ = s.Get(1)

	list := s.List()
	require.Len(t, list, 4)
	for i, e := range list {
		assert.Equal(t, uint64(i+1), e.Sequence)
	}
}

// archiveStub serves a fixed set of entries newest first, the way the
// postgres archive does.
type archiveStub struct {
	entries []domain.HistoryEntry
	err     error
}

func (a *archiveStub) ListRecent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	if a.err != nil {
		return nil, a.err
	}
	if limit > len(a.entries) {
		limit = len(a.entries)
	}
	return a.entries[:limit], nil
}

func TestStore_WarmFrom(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	src := &archiveStub{entries: []domain.HistoryEntry{entry(7), entry(6), entry(5)}}

	maxSeq, err := s.WarmFrom(context.Background(), src, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), maxSeq)

	// Restored entries list oldest first and remain addressable by sequence.
	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, uint64(5), list[0].Sequence)
	assert.Equal(t, uint64(7), list[2].Sequence)

	_, ok := s.Get(6)
	assert.True(t, ok)

	// New rounds append after the restored tail.
	s.Record(entry(8))
	list = s.List()
	assert.Equal(t, uint64(8), list[len(list)-1].Sequence)
}

func TestStore_WarmFrom_SourceError(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	src := &archiveStub{err: errors.New("connection refused")}
	_, err = s.WarmFrom(context.Background(), src, 10)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestStore_DefaultCapacity(t *testing.T) {
	s, err := NewStore(0)
	require.NoError(t, err)

	for seq := uint64(0); seq < DefaultCapacity+10; seq++ {
		s.Record(entry(seq))
	}
	assert.Equal(t, DefaultCapacity, s.Len())
}
