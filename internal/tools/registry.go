package tools

// Tool names. Dispatch is a switch over this closed set.
const (
	ToolCreateEvent   = "create_event"
	ToolListEvents    = "list_events"
	ToolGetEvent      = "get_event"
	ToolUpdateEvent   = "update_event"
	ToolDeleteEvent   = "delete_event"
	ToolSearchEvents  = "search_events"
	ToolListCalendars = "list_calendars"
)

// DefaultLimit is applied when a tool's limit/max_results argument is absent.
const DefaultLimit = 10

// Property describes one input field of a tool schema.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Format      string    `json:"format,omitempty"`
	Default     any       `json:"default,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// InputSchema is the JSON-Schema-shaped input contract of a tool.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// ToolDefinition is a static tool descriptor as returned by tools/list.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// Registry is the immutable tool catalog.
type Registry struct {
	defs   []ToolDefinition
	byName map[string]ToolDefinition
}

// NewRegistry builds the catalog. withCalendars controls whether
// list_calendars is exposed; only backends that span multiple calendars
// register it.
func NewRegistry(withCalendars bool) *Registry {
	defs := []ToolDefinition{
		{
			Name:        ToolCreateEvent,
			Description: "Create a new calendar event",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"title":       {Type: "string", Description: "Event title"},
					"description": {Type: "string", Description: "Event description"},
					"start_time":  {Type: "string", Format: "date-time", Description: "Start time (ISO 8601, e.g. '2024-01-15T10:00:00Z')"},
					"end_time":    {Type: "string", Format: "date-time", Description: "End time (ISO 8601)"},
					"location":    {Type: "string", Description: "Event location"},
					"attendees":   {Type: "array", Items: &Property{Type: "string"}, Description: "Attendee email addresses"},
					"calendar_id": {Type: "string", Description: "Calendar ID (default: 'primary')"},
				},
				Required: []string{"title", "start_time", "end_time"},
			},
		},
		{
			Name:        ToolListEvents,
			Description: "List calendar events, optionally filtered by start date",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"start_date":  {Type: "string", Format: "date-time", Description: "Keep events starting at or after this time"},
					"end_date":    {Type: "string", Format: "date-time", Description: "Keep events starting at or before this time"},
					"limit":       {Type: "integer", Default: DefaultLimit, Description: "Maximum number of events to return"},
					"calendar_id": {Type: "string", Description: "Calendar ID (default: 'primary')"},
				},
			},
		},
		{
			Name:        ToolGetEvent,
			Description: "Get a calendar event by its ID",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"event_id":    {Type: "string", Description: "The ID of the event"},
					"calendar_id": {Type: "string", Description: "Calendar ID (default: 'primary')"},
				},
				Required: []string{"event_id"},
			},
		},
		{
			Name:        ToolUpdateEvent,
			Description: "Update an existing calendar event; only provided fields are changed",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"event_id":    {Type: "string", Description: "The ID of the event to update"},
					"title":       {Type: "string", Description: "New event title"},
					"description": {Type: "string", Description: "New event description"},
					"start_time":  {Type: "string", Format: "date-time", Description: "New start time (ISO 8601)"},
					"end_time":    {Type: "string", Format: "date-time", Description: "New end time (ISO 8601)"},
					"location":    {Type: "string", Description: "New event location"},
					"attendees":   {Type: "array", Items: &Property{Type: "string"}, Description: "New attendee email addresses"},
					"calendar_id": {Type: "string", Description: "Calendar ID (default: 'primary')"},
				},
				Required: []string{"event_id"},
			},
		},
		{
			Name:        ToolDeleteEvent,
			Description: "Delete a calendar event by its ID",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"event_id":    {Type: "string", Description: "The ID of the event to delete"},
					"calendar_id": {Type: "string", Description: "Calendar ID (default: 'primary')"},
				},
				Required: []string{"event_id"},
			},
		},
		{
			Name:        ToolSearchEvents,
			Description: "Search events by text in title or description (case-insensitive)",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":       {Type: "string", Description: "Search text"},
					"limit":       {Type: "integer", Default: DefaultLimit, Description: "Maximum number of matches to return"},
					"calendar_id": {Type: "string", Description: "Calendar ID (default: 'primary')"},
				},
				Required: []string{"query"},
			},
		},
	}

	if withCalendars {
		defs = append(defs, ToolDefinition{
			Name:        ToolListCalendars,
			Description: "List calendars accessible to the user",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"max_results": {Type: "integer", Default: DefaultLimit, Description: "Maximum number of calendars to return"},
				},
			},
		})
	}

	byName := make(map[string]ToolDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	return &Registry{defs: defs, byName: byName}
}

// Definitions returns the full catalog in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	return r.defs
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	def, ok := r.byName[name]
	return def, ok
}
