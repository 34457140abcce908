// Package logging provides slog setup and shared log attribute helpers so
// attribute names stay consistent across the codebase.
//
// Logs always go to stderr: in stdio transport mode stdout carries the
// JSON-RPC protocol stream and must stay clean.
package logging
