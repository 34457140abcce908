// Package store defines the calendar event model and the Store contract
// shared by all backends.
//
// The Store owns the canonical event collection. Two realizations exist: an
// in-process memory store (this package) and a Google Calendar backed store
// (package gcal). The dispatch core is identical regardless of backend.
package store
