// Package server provides the transport scaffolding around the RPC router:
// the stdio loop speaking newline-delimited JSON-RPC, and the HTTP server
// with the /mcp endpoint, Kubernetes-style health probes, and the Prometheus
// scrape endpoint.
package server
