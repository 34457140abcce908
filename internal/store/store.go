package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a referenced event or calendar does not exist.
var ErrNotFound = errors.New("not found")

// Store is the contract every event backend implements.
//
// calendarID acts as a partition key for backends that scope events by
// calendar (the memory store ignores it). Implementations must be safe for
// concurrent use.
type Store interface {
	// Insert adds a new event and returns it with ID and CreatedAt set.
	Insert(ctx context.Context, calendarID string, ev Event) (Event, error)

	// List returns events matching the filter, in store order.
	List(ctx context.Context, calendarID string, f ListFilter) ([]Event, error)

	// Get returns the event with the given id, or ErrNotFound.
	Get(ctx context.Context, calendarID, id string) (Event, error)

	// Update applies a partial update and returns the updated event, or
	// ErrNotFound. UpdatedAt is set whenever the patch carries any field;
	// an empty patch returns the event unchanged.
	Update(ctx context.Context, calendarID, id string, p Patch) (Event, error)

	// Delete removes the event with the given id and returns the removed
	// event, or ErrNotFound.
	Delete(ctx context.Context, calendarID, id string) (Event, error)

	// Search returns events whose title or description matches the query,
	// at most limit entries when limit is positive.
	Search(ctx context.Context, calendarID, query string, limit int) ([]Event, error)
}

// CalendarLister is implemented by backends that expose multiple calendars.
type CalendarLister interface {
	Calendars(ctx context.Context, maxResults int) ([]CalendarInfo, error)
}
