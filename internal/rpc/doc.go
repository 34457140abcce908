// Package rpc implements the JSON-RPC 2.0 dispatch core of the server:
// envelope validation, method routing (initialize, notifications/initialized,
// tools/list, tools/call), the authentication gate check, and the mapping of
// handler outcomes onto JSON-RPC success and error responses.
//
// The router is stateless between calls and transport-agnostic: both the
// stdio loop and the HTTP handler feed it one decoded envelope at a time.
package rpc
