package site

import "sync/atomic"

// Store publishes the current snapshot to concurrent readers. Readers see
// either the previous or the next snapshot, never a partial one.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates a store holding initial, which may be nil.
func NewStore(initial *Snapshot) *Store {
	s := &Store{}
	if initial != nil {
		s.cur.Store(initial)
	}
	return s
}

// Current returns the published snapshot or nil.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Swap publishes next and returns the snapshot it replaced.
func (s *Store) Swap(next *Snapshot) *Snapshot {
	return s.cur.Swap(next)
}
