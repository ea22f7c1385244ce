package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Rejection reasons recorded on the rejected-operations counter.
const (
	ReasonInvalidQuantity   = "invalid_quantity"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonNotFound          = "not_found"
	ReasonInvalidStatus     = "invalid_status"
	ReasonInvalidInput      = "invalid_input"
)

// Instruments holds the catalog's domain metrics.
type Instruments struct {
	ordersCreated metric.Int64Counter
	stockReserved metric.Int64Counter
	stockReleased metric.Int64Counter
	rejected      metric.Int64Counter
	orderTotal    metric.Float64Histogram
}

func NewInstruments(meter metric.Meter) (*Instruments, error) {
	ordersCreated, err := meter.Int64Counter("catalog.orders.created",
		metric.WithDescription("Orders created"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	stockReserved, err := meter.Int64Counter("catalog.stock.reserved",
		metric.WithDescription("Units reserved from product stock by order lines"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	stockReleased, err := meter.Int64Counter("catalog.stock.released",
		metric.WithDescription("Units returned to product stock by order line removals"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter("catalog.operations.rejected",
		metric.WithDescription("Catalog operations rejected without mutation"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	orderTotal, err := meter.Float64Histogram("catalog.order.total",
		metric.WithDescription("Order total at each status change"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		ordersCreated: ordersCreated,
		stockReserved: stockReserved,
		stockReleased: stockReleased,
		rejected:      rejected,
		orderTotal:    orderTotal,
	}, nil
}

func (i *Instruments) OrderCreated(ctx context.Context) {
	i.ordersCreated.Add(ctx, 1)
}

func (i *Instruments) StockReserved(ctx context.Context, productID string, units int) {
	i.stockReserved.Add(ctx, int64(units), metric.WithAttributes(attribute.String("product_id", productID)))
}

func (i *Instruments) StockReleased(ctx context.Context, productID string, units int) {
	i.stockReleased.Add(ctx, int64(units), metric.WithAttributes(attribute.String("product_id", productID)))
}

func (i *Instruments) Rejected(ctx context.Context, operation, reason string) {
	i.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}

func (i *Instruments) OrderTotal(ctx context.Context, status string, total float64) {
	i.orderTotal.Record(ctx, total, metric.WithAttributes(attribute.String("status", status)))
}
