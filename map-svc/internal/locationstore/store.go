// Package locationstore holds the last known vendor stores and user position
// and broadcasts every change to its subscribers.
package locationstore

import (
	"sync"

	"gerobak/map-svc/internal/domain"
)

// Snapshot is an immutable view of the store. Receivers must not modify the
// Stores slice or anything it points to.
type Snapshot struct {
	Stores  []domain.Store
	User    *domain.LocationPoint
	Version uint64
}

// FindStore returns the store with the given id from the snapshot.
func (s Snapshot) FindStore(id int) (domain.Store, bool) {
	for _, store := range s.Stores {
		if store.StoreID == id {
			return store, true
		}
	}
	return domain.Store{}, false
}

// Store is a single-writer, multi-reader broadcast of Snapshots.
type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	committed uint64
	subs      map[int]chan Snapshot
	nextSubID int
}

func New() *Store {
	return &Store{
		snap: Snapshot{Stores: []domain.Store{}},
		subs: make(map[int]chan Snapshot),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe returns a channel that immediately carries the current snapshot
// and then every later one. Delivery is latest-value: a subscriber that falls
// behind skips intermediate snapshots but always receives the newest.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- s.snap
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// ReplaceStores swaps in a complete store list.
func (s *Store) ReplaceStores(stores []domain.Store) {
	s.CommitStores(0, func([]domain.Store) []domain.Store { return stores })
}

// CommitStores replaces the store list with mutate(current). seq is the
// sequence number the caller drew when its fetch started; a commit older than
// the last accepted one is dropped and reported as false. seq 0 skips the
// check. mutate must return a new slice rather than editing current.
func (s *Store) CommitStores(seq uint64, mutate func(current []domain.Store) []domain.Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != 0 {
		if seq < s.committed {
			return false
		}
		s.committed = seq
	}

	next := mutate(s.snap.Stores)
	if next == nil {
		next = []domain.Store{}
	}
	s.publishLocked(Snapshot{Stores: next, User: s.snap.User})
	return true
}

// SetUserLocation records the user position; nil clears it.
func (s *Store) SetUserLocation(p *domain.LocationPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *domain.LocationPoint
	if p != nil {
		copied := *p
		user = &copied
	}
	s.publishLocked(Snapshot{Stores: s.snap.Stores, User: user})
}

func (s *Store) publishLocked(next Snapshot) {
	next.Version = s.snap.Version + 1
	s.snap = next

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
