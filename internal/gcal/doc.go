// Package gcal implements the Event Store contract on top of the Google
// Calendar v3 API.
//
// Every operation is forwarded as an authenticated HTTP request, translating
// between this system's event shape and the provider's native representation
// (title maps to summary, start and end times to nested EventDateTime
// objects). Updates are read-modify-write: the current remote event is
// fetched, the patch is merged locally, and the whole object is sent back.
// A concurrent change between the two round trips is lost; this is a known
// consistency gap, not silently worked around.
package gcal
