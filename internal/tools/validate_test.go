package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArguments(t *testing.T) {
	registry := NewRegistry(true)

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr string
	}{
		{
			name: "create with all required fields",
			tool: ToolCreateEvent,
			args: map[string]any{
				"title":      "Standup",
				"start_time": "2024-01-15T10:00:00Z",
				"end_time":   "2024-01-15T10:15:00Z",
			},
		},
		{
			name:    "create missing title",
			tool:    ToolCreateEvent,
			args:    map[string]any{"start_time": "2024-01-15T10:00:00Z", "end_time": "2024-01-15T10:15:00Z"},
			wantErr: `missing required field "title"`,
		},
		{
			name:    "null counts as missing",
			tool:    ToolGetEvent,
			args:    map[string]any{"event_id": nil},
			wantErr: `missing required field "event_id"`,
		},
		{
			name:    "wrong type for string field",
			tool:    ToolGetEvent,
			args:    map[string]any{"event_id": 42},
			wantErr: `field "event_id" must be a string`,
		},
		{
			name: "integer accepted as float64",
			tool: ToolListEvents,
			args: map[string]any{"limit": float64(5)},
		},
		{
			name:    "fractional number rejected for integer field",
			tool:    ToolListEvents,
			args:    map[string]any{"limit": 2.5},
			wantErr: `field "limit" must be an integer`,
		},
		{
			name: "attendees array of strings",
			tool: ToolUpdateEvent,
			args: map[string]any{"event_id": "abc", "attendees": []any{"a@example.com", "b@example.com"}},
		},
		{
			name:    "attendees with non-string item",
			tool:    ToolUpdateEvent,
			args:    map[string]any{"event_id": "abc", "attendees": []any{"a@example.com", 7}},
			wantErr: `must be a string`,
		},
		{
			name:    "attendees not an array",
			tool:    ToolCreateEvent,
			args:    map[string]any{"title": "t", "start_time": "2024-01-15T10:00:00Z", "end_time": "2024-01-15T11:00:00Z", "attendees": "a@example.com"},
			wantErr: `field "attendees" must be an array`,
		},
		{
			name: "unknown arguments ignored",
			tool: ToolSearchEvents,
			args: map[string]any{"query": "meeting", "bogus": 1},
		},
		{
			name: "optional fields may be absent",
			tool: ToolListCalendars,
			args: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := registry.Lookup(tt.tool)
			require.True(t, ok)

			err := ValidateArguments(def, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArguments)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryCatalog(t *testing.T) {
	withCalendars := NewRegistry(true)
	withoutCalendars := NewRegistry(false)

	assert.Len(t, withCalendars.Definitions(), 7)
	assert.Len(t, withoutCalendars.Definitions(), 6)

	_, ok := withoutCalendars.Lookup(ToolListCalendars)
	assert.False(t, ok)

	for _, def := range withCalendars.Definitions() {
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Description)
		assert.Equal(t, "object", def.InputSchema.Type)
		for _, req := range def.InputSchema.Required {
			_, ok := def.InputSchema.Properties[req]
			assert.True(t, ok, "%s: required field %q has no property", def.Name, req)
		}
	}
}
