package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	inst, err := NewInstruments(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	inst.OrderCreated(ctx)
	inst.OrderCreated(ctx)
	inst.StockReserved(ctx, "p1", 3)
	inst.StockReserved(ctx, "p2", 2)
	inst.StockReleased(ctx, "p1", 1)
	inst.Rejected(ctx, "add_item", ReasonInsufficientStock)
	inst.OrderTotal(ctx, "Shipped", 9000)

	metrics := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, metrics["catalog.orders.created"]))
	assert.Equal(t, int64(5), sumOf(t, metrics["catalog.stock.reserved"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["catalog.stock.released"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["catalog.operations.rejected"]))

	hist, ok := metrics["catalog.order.total"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, 9000.0, hist.DataPoints[0].Sum)
}
