// Package instrumentation provides the OpenTelemetry metrics pipeline for the
// server: a meter provider backed by the Prometheus exporter, and a Metrics
// recorder with counters and histograms for JSON-RPC requests and tool
// invocations. Metrics are exposed for scraping on the HTTP /metrics endpoint.
package instrumentation
