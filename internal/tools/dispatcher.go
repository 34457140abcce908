package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"calmcp/internal/instrumentation"
	"calmcp/internal/logging"
	"calmcp/internal/store"
)

// Content is one human-readable block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of one tool invocation: a summary line plus the
// structured payload for the operation that ran.
type Result struct {
	Content        []Content            `json:"content"`
	Event          *store.Event         `json:"event,omitempty"`
	Events         []store.Event        `json:"events,omitempty"`
	Calendars      []store.CalendarInfo `json:"calendars,omitempty"`
	DeletedEventID string               `json:"deleted_event_id,omitempty"`
}

func textResult(format string, args ...any) *Result {
	return &Result{Content: []Content{{Type: "text", Text: fmt.Sprintf(format, args...)}}}
}

// Dispatcher resolves a tool name plus argument object to exactly one Event
// Store operation. It never mutates an event in place: all writes go through
// the store's update path so the remote backend's read-modify-write round
// trip stays the single source of truth.
type Dispatcher struct {
	registry *Registry
	store    store.Store
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
}

// NewDispatcher wires the dispatcher to its collaborators. metrics may be nil.
func NewDispatcher(registry *Registry, st store.Store, logger *slog.Logger, metrics *instrumentation.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		store:    st,
		logger:   logger,
		metrics:  metrics,
	}
}

// Dispatch validates the arguments against the tool's schema and runs the
// matching store operation.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (*Result, error) {
	def, ok := d.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := ValidateArguments(def, args); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := d.call(ctx, name, args)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	d.metrics.RecordToolInvocation(ctx, name, status, duration)
	d.logger.Debug("tool dispatched",
		logging.Tool(name),
		logging.Status(status),
		logging.Duration(duration),
		logging.Err(err),
	)

	return result, err
}

func (d *Dispatcher) call(ctx context.Context, name string, args map[string]any) (*Result, error) {
	switch name {
	case ToolCreateEvent:
		return d.createEvent(ctx, args)
	case ToolListEvents:
		return d.listEvents(ctx, args)
	case ToolGetEvent:
		return d.getEvent(ctx, args)
	case ToolUpdateEvent:
		return d.updateEvent(ctx, args)
	case ToolDeleteEvent:
		return d.deleteEvent(ctx, args)
	case ToolSearchEvents:
		return d.searchEvents(ctx, args)
	case ToolListCalendars:
		return d.listCalendars(ctx, args)
	}
	// Unreachable while registry and switch stay in sync.
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func (d *Dispatcher) createEvent(ctx context.Context, args map[string]any) (*Result, error) {
	startTime, err := timeArg(args, "start_time")
	if err != nil {
		return nil, err
	}
	endTime, err := timeArg(args, "end_time")
	if err != nil {
		return nil, err
	}

	title := stringArg(args, "title", "")
	if title == "" {
		return nil, fmt.Errorf("%w: create_event: title must be a non-empty string", ErrInvalidArguments)
	}

	ev := store.Event{
		Title:       title,
		Description: stringArg(args, "description", ""),
		StartTime:   startTime,
		EndTime:     endTime,
		Location:    stringArg(args, "location", ""),
		Attendees:   stringSliceArg(args, "attendees"),
	}

	created, err := d.store.Insert(ctx, calendarArg(args), ev)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	result := textResult("Created event %q (%s)", created.Title, created.ID)
	result.Event = &created
	return result, nil
}

func (d *Dispatcher) listEvents(ctx context.Context, args map[string]any) (*Result, error) {
	limit, err := limitArg(args, "limit", DefaultLimit)
	if err != nil {
		return nil, err
	}
	filter := store.ListFilter{Limit: limit}

	if _, ok := args["start_date"]; ok {
		t, err := timeArg(args, "start_date")
		if err != nil {
			return nil, err
		}
		filter.Start = &t
	}
	if _, ok := args["end_date"]; ok {
		t, err := timeArg(args, "end_date")
		if err != nil {
			return nil, err
		}
		filter.End = &t
	}

	events, err := d.store.List(ctx, calendarArg(args), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := textResult("Found %d events", len(events))
	result.Events = events
	return result, nil
}

func (d *Dispatcher) getEvent(ctx context.Context, args map[string]any) (*Result, error) {
	id := stringArg(args, "event_id", "")

	ev, err := d.store.Get(ctx, calendarArg(args), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}

	result := textResult("Event %q (%s)", ev.Title, ev.ID)
	result.Event = &ev
	return result, nil
}

func (d *Dispatcher) updateEvent(ctx context.Context, args map[string]any) (*Result, error) {
	id := stringArg(args, "event_id", "")

	// Only fields present in the argument object are written; an explicitly
	// provided empty value overwrites.
	var patch store.Patch
	if v, ok := args["title"].(string); ok {
		patch.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		patch.Description = &v
	}
	if v, ok := args["location"].(string); ok {
		patch.Location = &v
	}
	if _, ok := args["start_time"]; ok {
		t, err := timeArg(args, "start_time")
		if err != nil {
			return nil, err
		}
		patch.StartTime = &t
	}
	if _, ok := args["end_time"]; ok {
		t, err := timeArg(args, "end_time")
		if err != nil {
			return nil, err
		}
		patch.EndTime = &t
	}
	if _, ok := args["attendees"]; ok {
		attendees := stringSliceArg(args, "attendees")
		patch.Attendees = &attendees
	}

	updated, err := d.store.Update(ctx, calendarArg(args), id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}

	result := textResult("Updated event %q (%s)", updated.Title, updated.ID)
	result.Event = &updated
	return result, nil
}

func (d *Dispatcher) deleteEvent(ctx context.Context, args map[string]any) (*Result, error) {
	id := stringArg(args, "event_id", "")

	removed, err := d.store.Delete(ctx, calendarArg(args), id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete event %s: %w", id, err)
	}

	result := textResult("Deleted event %q (%s)", removed.Title, removed.ID)
	result.DeletedEventID = removed.ID
	return result, nil
}

func (d *Dispatcher) searchEvents(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query", "")
	limit, err := limitArg(args, "limit", DefaultLimit)
	if err != nil {
		return nil, err
	}

	events, err := d.store.Search(ctx, calendarArg(args), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	result := textResult("Found %d events matching %q", len(events), query)
	result.Events = events
	return result, nil
}

func (d *Dispatcher) listCalendars(ctx context.Context, args map[string]any) (*Result, error) {
	lister, ok := d.store.(store.CalendarLister)
	if !ok {
		return nil, fmt.Errorf("calendar listing is not supported by this backend")
	}

	maxResults, err := limitArg(args, "max_results", DefaultLimit)
	if err != nil {
		return nil, err
	}

	calendars, err := lister.Calendars(ctx, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	result := textResult("Found %d calendars", len(calendars))
	result.Calendars = calendars
	return result, nil
}
