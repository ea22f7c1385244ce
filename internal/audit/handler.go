package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joao-fontenele/storefront/internal/domain"
)

// OrderTrail is what the audit worker has seen of one order.
type OrderTrail struct {
	OrderNumber string
	Status      domain.OrderStatus
	Events      int
	// Reserved is the net number of units held by the order's lines.
	Reserved int
}

// Handler consumes order events and keeps a trail per order. Unknown event
// types are logged and skipped so a newer producer cannot wedge the worker.
type Handler struct {
	logger *slog.Logger

	mu     sync.Mutex
	trails map[string]*OrderTrail
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		trails: make(map[string]*OrderTrail),
	}
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var meta domain.EventMeta
	if err := json.Unmarshal(payload, &meta); err != nil {
		return fmt.Errorf("unmarshal event meta: %w", err)
	}

	switch meta.Type {
	case domain.EventOrderCreated:
		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal %s: %w", meta.Type, err)
		}
		h.record(meta, func(t *OrderTrail) { t.Status = domain.StatusPreparing })
		h.logger.InfoContext(ctx, "audit: order created",
			"order_id", event.OrderID,
			"order_number", event.OrderNumber,
			"customer", event.CustomerName,
		)

	case domain.EventOrderItemAdded:
		var event domain.OrderItemAddedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal %s: %w", meta.Type, err)
		}
		h.record(meta, func(t *OrderTrail) { t.Reserved += event.Quantity })
		h.logger.InfoContext(ctx, "audit: stock reserved",
			"order_id", event.OrderID,
			"product_id", event.ProductID,
			"product", event.ProductName,
			"quantity", event.Quantity,
			"unit_price", event.UnitPrice.StringFixed(2),
			"stock_left", event.StockLeft,
		)

	case domain.EventOrderItemRemoved:
		var event domain.OrderItemRemovedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal %s: %w", meta.Type, err)
		}
		h.record(meta, func(t *OrderTrail) { t.Reserved -= event.Restored })
		h.logger.InfoContext(ctx, "audit: stock released",
			"order_id", event.OrderID,
			"product_id", event.ProductID,
			"product", event.ProductName,
			"restored", event.Restored,
			"stock_left", event.StockLeft,
		)

	case domain.EventOrderStatusChanged:
		var event domain.OrderStatusChangedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal %s: %w", meta.Type, err)
		}
		h.record(meta, func(t *OrderTrail) { t.Status = event.ToStatus })
		h.logger.InfoContext(ctx, "audit: status changed",
			"order_id", event.OrderID,
			"from", event.FromStatus,
			"to", event.ToStatus,
			"total", event.Total.StringFixed(2),
		)

	default:
		h.logger.WarnContext(ctx, "audit: skipping unknown event", "type", meta.Type, "order_id", meta.OrderID)
	}
	return nil
}

func (h *Handler) record(meta domain.EventMeta, apply func(*OrderTrail)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.trails[meta.OrderID]
	if !ok {
		t = &OrderTrail{OrderNumber: meta.OrderNumber}
		h.trails[meta.OrderID] = t
	}
	t.Events++
	apply(t)
}

// Trail returns a copy of the trail recorded for orderID.
func (h *Handler) Trail(orderID string) (OrderTrail, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.trails[orderID]
	if !ok {
		return OrderTrail{}, false
	}
	return *t, true
}
