// Package tools holds the tool catalog and the dispatcher that maps a tool
// name plus argument object onto exactly one Event Store operation.
//
// The catalog is a fixed, versionless set: adding or removing a tool is a
// code change, not runtime configuration. Arguments are validated against
// each tool's input schema before dispatch, so missing or ill-typed fields
// surface as a uniform invalid-arguments error rather than a backend failure.
package tools
