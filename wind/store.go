package wind

import (
	"sync"
	"time"
)

// Store keeps a rolling window of readings per buoy. It is the only stateful
// piece of the wind package; the analytics functions stay pure and read a
// snapshot of it.
type Store struct {
	capacity int
	lock     sync.RWMutex
	byBuoy   map[string][]Reading
}

// NewStore creates a store keeping at most capacity readings per buoy.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 30
	}
	return &Store{
		capacity: capacity,
		byBuoy:   make(map[string][]Reading),
	}
}

func (s *Store) Push(r Reading) {
	s.lock.Lock()
	defer s.lock.Unlock()

	rs := append(s.byBuoy[r.BuoyId], r)
	if len(rs) > s.capacity {
		rs = rs[len(rs)-s.capacity:]
	}
	s.byBuoy[r.BuoyId] = rs
}

// Recent returns every reading newer than now-window, across all buoys,
// sorted by time.
func (s *Store) Recent(window time.Duration) []Reading {
	cutoff := time.Now().Add(-window)

	s.lock.RLock()
	var out []Reading
	for _, rs := range s.byBuoy {
		for _, r := range rs {
			if r.Time.After(cutoff) {
				out = append(out, r)
			}
		}
	}
	s.lock.RUnlock()

	return sortByTime(out)
}

func (s *Store) Buoys() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	ids := make([]string, 0, len(s.byBuoy))
	for id := range s.byBuoy {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Size() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	n := 0
	for _, rs := range s.byBuoy {
		n += len(rs)
	}
	return n
}
