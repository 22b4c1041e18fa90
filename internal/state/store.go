package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/roomlog/internal/roomlog"
)

// Snapshot is the grouping result currently visible to the UI.
type Snapshot struct {
	Source   string
	Index    *roomlog.Index
	HasIndex bool
	Records  int
	Skipped  []*roomlog.ParseError
	Problems []error
	LoadedAt time.Time
	// Generation increases with every committed load.
	Generation uint64

	LastError           error
	LastAttempt         time.Time
	ConsecutiveFailures int
}

// Store owns the single active grouping result. A load either replaces it
// as a whole or leaves it untouched.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Load parses data and commits the new index. On failure the previous index
// stays in place and the error is recorded.
func (s *Store) Load(source string, data []byte, opts roomlog.ParseOptions) error {
	ix, res, err := roomlog.Load(data, opts)
	if err != nil {
		err = fmt.Errorf("load %s: %w", source, err)
		s.Update(source, nil, roomlog.Result{}, err)
		return err
	}
	s.Update(source, ix, res, nil)
	return nil
}

// Update replaces the stored snapshot. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(source string, ix *roomlog.Index, res roomlog.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastAttempt = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Source = source
	s.snapshot.Index = ix
	s.snapshot.HasIndex = ix != nil
	s.snapshot.Records = ix.Records()
	s.snapshot.Skipped = cloneSlice(res.Skipped)
	s.snapshot.Problems = res.Problems()
	s.snapshot.LoadedAt = now
	s.snapshot.Generation++
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot. The index itself is
// shared; it is never modified after Build returns it.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Skipped = cloneSlice(s.snapshot.Skipped)
	snap.Problems = cloneSlice(s.snapshot.Problems)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
