package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"calmcp/internal/auth"
	"calmcp/internal/store"
)

// Client implements the Event Store contract against Google Calendar.
//
// The underlying service is created lazily on first use: at construction
// time the user may not have completed the authorization flow yet, and the
// router's auth gate keeps calls out until they have.
type Client struct {
	gate *auth.GoogleGate

	mu  sync.Mutex
	svc *calendar.Service
}

// NewClient creates a Calendar-backed store using the gate's credential.
func NewClient(gate *auth.GoogleGate) *Client {
	return &Client{gate: gate}
}

func (c *Client) service(ctx context.Context) (*calendar.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	ts, err := c.gate.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1; the Google API endpoints intermittently reset HTTP/2
	// streams under long-lived clients.
	if transport, ok := httpClient.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{ForceAttemptHTTP2: false}
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	c.svc = svc
	return svc, nil
}

// wrapAPIError translates provider failures, mapping HTTP 404 onto the
// store's not-found sentinel.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("failed to %s: %w", op, store.ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Insert creates the event in the given calendar.
func (c *Client) Insert(ctx context.Context, calendarID string, ev store.Event) (store.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return store.Event{}, err
	}

	created, err := svc.Events.Insert(calendarID, fromEvent(ev)).Context(ctx).Do()
	if err != nil {
		return store.Event{}, wrapAPIError("insert event", err)
	}
	return toEvent(created), nil
}

// List returns events in the calendar sorted by start time ascending, with
// recurring events expanded to single instances. The filter bounds become
// true timeMin/timeMax windows on the provider side.
func (c *Client) List(ctx context.Context, calendarID string, f store.ListFilter) ([]store.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	if f.Start != nil {
		call = call.TimeMin(f.Start.Format(time.RFC3339))
	}
	if f.End != nil {
		call = call.TimeMax(f.End.Format(time.RFC3339))
	}
	if f.Limit > 0 {
		call = call.MaxResults(int64(f.Limit))
	}

	list, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("list events", err)
	}

	events := make([]store.Event, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, toEvent(item))
	}
	return events, nil
}

// Get retrieves one event by id.
func (c *Client) Get(ctx context.Context, calendarID, id string) (store.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return store.Event{}, err
	}

	ev, err := svc.Events.Get(calendarID, id).Context(ctx).Do()
	if err != nil {
		return store.Event{}, wrapAPIError("get event", err)
	}
	return toEvent(ev), nil
}

// Update fetches the current remote representation, merges the patch
// locally, and writes the whole object back. A remote change between the two
// round trips is lost (documented consistency gap).
func (c *Client) Update(ctx context.Context, calendarID, id string, p store.Patch) (store.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return store.Event{}, err
	}

	existing, err := svc.Events.Get(calendarID, id).Context(ctx).Do()
	if err != nil {
		return store.Event{}, wrapAPIError("get event for update", err)
	}

	// An empty patch changes nothing; skip the write round trip.
	if p.IsZero() {
		return toEvent(existing), nil
	}

	applyPatch(existing, p)

	updated, err := svc.Events.Update(calendarID, id, existing).Context(ctx).Do()
	if err != nil {
		return store.Event{}, wrapAPIError("update event", err)
	}
	return toEvent(updated), nil
}

// Delete removes the event and returns its last known representation.
func (c *Client) Delete(ctx context.Context, calendarID, id string) (store.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return store.Event{}, err
	}

	// Fetch first so the caller gets the removed event's title back.
	existing, err := svc.Events.Get(calendarID, id).Context(ctx).Do()
	if err != nil {
		return store.Event{}, wrapAPIError("get event for delete", err)
	}

	if err := svc.Events.Delete(calendarID, id).Context(ctx).Do(); err != nil {
		return store.Event{}, wrapAPIError("delete event", err)
	}
	return toEvent(existing), nil
}

// Search delegates full-text matching to the provider's q operator instead
// of filtering locally.
func (c *Client) Search(ctx context.Context, calendarID, query string, limit int) ([]store.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(calendarID).
		Q(query).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if limit > 0 {
		call = call.MaxResults(int64(limit))
	}

	list, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("search events", err)
	}

	events := make([]store.Event, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, toEvent(item))
	}
	return events, nil
}

// Calendars lists up to maxResults calendars accessible to the user.
func (c *Client) Calendars(ctx context.Context, maxResults int) ([]store.CalendarInfo, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.CalendarList.List().Context(ctx)
	if maxResults > 0 {
		call = call.MaxResults(int64(maxResults))
	}

	list, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("list calendars", err)
	}

	calendars := make([]store.CalendarInfo, 0, len(list.Items))
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}
	return calendars, nil
}
