package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordRPCRequest(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordRPCRequest(ctx, "tools/call", 0, 50*time.Millisecond)
	metrics.RecordRPCRequest(ctx, "tools/call", -32602, 10*time.Millisecond)
	metrics.RecordRPCRequest(ctx, "initialize", 0, time.Millisecond)

	byName := collect(t, reader)

	counter, ok := byName["rpc_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range counter.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)

	hist, ok := byName["rpc_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var observations uint64
	for _, dp := range hist.DataPoints {
		observations += dp.Count
	}
	assert.Equal(t, uint64(3), observations)
}

func TestRecordToolInvocation(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordToolInvocation(ctx, "create_event", StatusSuccess, 5*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "create_event", StatusError, 2*time.Millisecond)

	byName := collect(t, reader)

	counter, ok := byName["tool_invocations_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, counter.DataPoints, 2, "success and error series are separate")
}

func TestMetrics_NoOpWhenZeroValue(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRPCRequest(context.Background(), "initialize", 0, time.Second)
		m.RecordToolInvocation(context.Background(), "create_event", StatusSuccess, time.Second)
	})

	zero := &Metrics{}
	assert.NotPanics(t, func() {
		zero.RecordRPCRequest(context.Background(), "initialize", 0, time.Second)
		zero.RecordToolInvocation(context.Background(), "create_event", StatusSuccess, time.Second)
	})
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())
	assert.NotPanics(t, func() {
		provider.Metrics().RecordRPCRequest(context.Background(), "initialize", 0, time.Second)
	})
	assert.NoError(t, provider.Shutdown(context.Background()))
}
