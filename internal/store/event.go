package store

import "time"

// Event is the canonical calendar event shape.
//
// ID is generated by the store on insert and never reused, even after
// deletion. UpdatedAt is nil until the first successful update. No ordering
// constraint is enforced between StartTime and EndTime.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Location    string     `json:"location"`
	Attendees   []string   `json:"attendees"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Patch describes a partial update. Nil fields are left untouched; non-nil
// fields overwrite, including explicitly provided empty values.
type Patch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Location    *string
	Attendees   *[]string
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Location == nil && p.Attendees == nil
}

// ListFilter narrows a List call. Both bounds are evaluated against the
// event's StartTime, each side independently inclusive. A Limit of zero or
// less means no truncation.
type ListFilter struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

// Matches reports whether the event's start time satisfies the filter bounds.
func (f ListFilter) Matches(ev Event) bool {
	if f.Start != nil && ev.StartTime.Before(*f.Start) {
		return false
	}
	if f.End != nil && ev.StartTime.After(*f.End) {
		return false
	}
	return true
}

// CalendarInfo describes a calendar accessible to the user.
type CalendarInfo struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"time_zone,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
	AccessRole  string `json:"access_role,omitempty"`
}
