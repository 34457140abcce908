package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"

	"calmcp/internal/store"
)

func TestToEvent(t *testing.T) {
	in := &calendar.Event{
		Id:          "evt-1",
		Summary:     "Standup",
		Description: "Daily sync",
		Location:    "Room A",
		Start:       &calendar.EventDateTime{DateTime: "2024-01-15T10:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2024-01-15T10:15:00Z"},
		Attendees: []*calendar.EventAttendee{
			{Email: "alice@example.com"},
			{Email: "bob@example.com"},
		},
		Created: "2024-01-01T08:00:00Z",
		Updated: "2024-01-02T09:30:00Z",
	}

	out := toEvent(in)

	assert.Equal(t, "evt-1", out.ID)
	assert.Equal(t, "Standup", out.Title)
	assert.Equal(t, "Daily sync", out.Description)
	assert.Equal(t, "Room A", out.Location)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), out.StartTime)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 15, 0, 0, time.UTC), out.EndTime)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, out.Attendees)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), out.CreatedAt)
	require.NotNil(t, out.UpdatedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC), *out.UpdatedAt)
}

func TestToEvent_AllDayDates(t *testing.T) {
	in := &calendar.Event{
		Id:    "evt-2",
		Start: &calendar.EventDateTime{Date: "2024-03-01"},
		End:   &calendar.EventDateTime{Date: "2024-03-02"},
	}

	out := toEvent(in)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), out.StartTime)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), out.EndTime)
	assert.Nil(t, out.UpdatedAt)
}

func TestFromEventRoundTrip(t *testing.T) {
	ev := store.Event{
		Title:       "Planning",
		Description: "Q3 planning",
		Location:    "HQ",
		StartTime:   time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC),
		Attendees:   []string{"carol@example.com"},
	}

	remote := fromEvent(ev)
	assert.Empty(t, remote.Id, "the provider assigns ids")
	assert.Equal(t, "Planning", remote.Summary)
	require.NotNil(t, remote.Start)
	assert.Equal(t, "2024-06-01T14:00:00Z", remote.Start.DateTime)

	back := toEvent(remote)
	assert.Equal(t, ev.Title, back.Title)
	assert.Equal(t, ev.Description, back.Description)
	assert.Equal(t, ev.Location, back.Location)
	assert.Equal(t, ev.StartTime, back.StartTime)
	assert.Equal(t, ev.EndTime, back.EndTime)
	assert.Equal(t, ev.Attendees, back.Attendees)
}

func TestApplyPatch(t *testing.T) {
	existing := &calendar.Event{
		Id:          "evt-3",
		Summary:     "Old title",
		Description: "Old description",
		Location:    "Old location",
		Start:       &calendar.EventDateTime{DateTime: "2024-01-15T10:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2024-01-15T11:00:00Z"},
		Attendees:   []*calendar.EventAttendee{{Email: "old@example.com"}},
	}

	title := "New title"
	empty := ""
	start := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	attendees := []string{"new@example.com"}
	applyPatch(existing, store.Patch{
		Title:       &title,
		Description: &empty,
		StartTime:   &start,
		Attendees:   &attendees,
	})

	assert.Equal(t, "New title", existing.Summary)
	assert.Empty(t, existing.Description, "explicit empty value overwrites")
	assert.Equal(t, "Old location", existing.Location, "absent field untouched")
	assert.Equal(t, "2024-01-16T10:00:00Z", existing.Start.DateTime)
	assert.Equal(t, "2024-01-15T11:00:00Z", existing.End.DateTime)
	require.Len(t, existing.Attendees, 1)
	assert.Equal(t, "new@example.com", existing.Attendees[0].Email)
}

func TestApplyPatch_ZeroPatchChangesNothing(t *testing.T) {
	existing := &calendar.Event{Summary: "Untouched", Location: "Here"}

	applyPatch(existing, store.Patch{})
	assert.Equal(t, "Untouched", existing.Summary)
	assert.Equal(t, "Here", existing.Location)
}

func TestToCalendarInfo(t *testing.T) {
	entry := &calendar.CalendarListEntry{
		Id:         "primary",
		Summary:    "Work",
		TimeZone:   "Europe/Berlin",
		Primary:    true,
		AccessRole: "owner",
	}

	info := toCalendarInfo(entry)
	assert.Equal(t, store.CalendarInfo{
		ID:         "primary",
		Summary:    "Work",
		TimeZone:   "Europe/Berlin",
		Primary:    true,
		AccessRole: "owner",
	}, info)
}
