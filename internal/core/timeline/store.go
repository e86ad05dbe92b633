// Package timeline holds the day's authoritative task list.
package timeline

import (
	"sort"
	"sync"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// Listener is notified with a snapshot after every change.
type Listener func(model.Timeline)

// Store owns the ordered task list. All reads return copies.
type Store struct {
	mu        sync.RWMutex
	tasks     model.Timeline
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// ReplaceAll swaps in a new timeline, sorted by start time.
func (s *Store) ReplaceAll(tasks []model.Task) {
	next := model.Timeline(tasks).Clone()
	model.SortTimeline(next)

	s.mu.Lock()
	s.tasks = next
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// ToggleStatus flips the status of the task with the given id. Unknown ids
// leave the store untouched and report false.
func (s *Store) ToggleStatus(id string) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[idx].Status = s.tasks[idx].Status.Toggled()
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// Snapshot returns a copy of the current timeline.
func (s *Store) Snapshot() model.Timeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Clone()
}

// Get returns one task by id.
func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Find(id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Counts returns completed and total task counts.
func (s *Store) Counts() (completed, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Counts()
}

// CompletionRatio is completed/total, zero when empty.
func (s *Store) CompletionRatio() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.CompletionRatio()
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() (model.Timeline, []Listener) {
	if len(s.listeners) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids) // registration order
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	return s.tasks.Clone(), listeners
}

// notify runs outside the lock so listeners may read the store.
func notify(listeners []Listener, snapshot model.Timeline) {
	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
}
