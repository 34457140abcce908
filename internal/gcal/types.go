package gcal

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"calmcp/internal/store"
)

// parseEventTime reads a Google EventDateTime, which carries either a
// timed DateTime or an all-day Date.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

func eventTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: "UTC",
	}
}

// toEvent converts a Google Calendar event to the canonical Event shape.
func toEvent(ev *calendar.Event) store.Event {
	out := store.Event{
		ID:          ev.Id,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		StartTime:   parseEventTime(ev.Start),
		EndTime:     parseEventTime(ev.End),
	}

	for _, att := range ev.Attendees {
		out.Attendees = append(out.Attendees, att.Email)
	}

	if ev.Created != "" {
		if t, err := time.Parse(time.RFC3339, ev.Created); err == nil {
			out.CreatedAt = t
		}
	}
	if ev.Updated != "" {
		if t, err := time.Parse(time.RFC3339, ev.Updated); err == nil {
			out.UpdatedAt = &t
		}
	}

	return out
}

// fromEvent converts a canonical Event into the provider representation for
// an insert. The id is omitted; Google assigns it.
func fromEvent(ev store.Event) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       eventTime(ev.StartTime),
		End:         eventTime(ev.EndTime),
	}
	for _, email := range ev.Attendees {
		out.Attendees = append(out.Attendees, &calendar.EventAttendee{Email: email})
	}
	return out
}

// applyPatch merges a partial update into the remote representation fetched
// by the read half of the read-modify-write update.
func applyPatch(ev *calendar.Event, p store.Patch) {
	if p.Title != nil {
		ev.Summary = *p.Title
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	if p.Location != nil {
		ev.Location = *p.Location
	}
	if p.StartTime != nil {
		ev.Start = eventTime(*p.StartTime)
	}
	if p.EndTime != nil {
		ev.End = eventTime(*p.EndTime)
	}
	if p.Attendees != nil {
		ev.Attendees = nil
		for _, email := range *p.Attendees {
			ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
		}
	}
}

// toCalendarInfo converts a calendar list entry.
func toCalendarInfo(entry *calendar.CalendarListEntry) store.CalendarInfo {
	return store.CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
		AccessRole:  entry.AccessRole,
	}
}
