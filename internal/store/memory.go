package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps all events in one insertion-ordered slice in process
// memory. Nothing is persisted across restarts. A single mutex guards the
// whole collection; the expected event count is small enough that nothing
// finer is warranted.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Insert adds the event with a fresh unique id. The calendarID is ignored;
// the memory store holds a single flat collection.
func (s *MemoryStore) Insert(_ context.Context, _ string, ev Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = uuid.NewString()
	ev.CreatedAt = s.now().UTC()
	ev.UpdatedAt = nil
	s.events = append(s.events, ev)
	return ev, nil
}

// List returns events whose start time satisfies the filter, in insertion
// order, truncated to the filter's limit.
func (s *MemoryStore) List(_ context.Context, _ string, f ListFilter) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, ev := range s.events {
		if !f.Matches(ev) {
			continue
		}
		out = append(out, ev)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Get returns the event with the given id.
func (s *MemoryStore) Get(_ context.Context, _, id string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return Event{}, ErrNotFound
}

// Update applies the patch to the event with the given id and stamps
// UpdatedAt. Fields absent from the patch keep their prior value; an empty
// patch is a no-op and leaves UpdatedAt alone.
func (s *MemoryStore) Update(_ context.Context, _, id string, p Patch) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != id {
			continue
		}
		ev := &s.events[i]
		if p.IsZero() {
			return *ev, nil
		}
		if p.Title != nil {
			ev.Title = *p.Title
		}
		if p.Description != nil {
			ev.Description = *p.Description
		}
		if p.StartTime != nil {
			ev.StartTime = *p.StartTime
		}
		if p.EndTime != nil {
			ev.EndTime = *p.EndTime
		}
		if p.Location != nil {
			ev.Location = *p.Location
		}
		if p.Attendees != nil {
			ev.Attendees = append([]string(nil), *p.Attendees...)
		}
		now := s.now().UTC()
		ev.UpdatedAt = &now
		return *ev, nil
	}
	return Event{}, ErrNotFound
}

// Delete removes the event with the given id and returns it. The id is never
// handed out again: fresh inserts always draw a new uuid.
func (s *MemoryStore) Delete(_ context.Context, _, id string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return ev, nil
		}
	}
	return Event{}, ErrNotFound
}

// Search performs a case-insensitive substring match against title and
// description, in insertion order, truncated to limit.
func (s *MemoryStore) Search(_ context.Context, _, query string, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var out []Event
	for _, ev := range s.events {
		if !strings.Contains(strings.ToLower(ev.Title), q) &&
			!strings.Contains(strings.ToLower(ev.Description), q) {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Len returns the number of stored events.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
