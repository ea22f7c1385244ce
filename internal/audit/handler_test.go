package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func meta(eventType string) domain.EventMeta {
	return domain.EventMeta{
		Type:        eventType,
		OrderID:     "order-1",
		OrderNumber: "ORD-20261015-142530-ABCDEF12",
		Timestamp:   time.Date(2026, 10, 15, 14, 25, 30, 0, time.UTC),
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the order trail", func(t *testing.T) {
		var logs bytes.Buffer
		h := NewHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

		events := []any{
			domain.OrderCreatedEvent{EventMeta: meta(domain.EventOrderCreated), CustomerName: "Jane Doe"},
			domain.OrderItemAddedEvent{
				EventMeta: meta(domain.EventOrderItemAdded), ProductID: "p1", ProductName: "Phone",
				Quantity: 3, UnitPrice: decimal.NewFromInt(4500), StockLeft: 7,
			},
			domain.OrderItemRemovedEvent{
				EventMeta: meta(domain.EventOrderItemRemoved), ProductID: "p1", ProductName: "Phone",
				Restored: 1, StockLeft: 8,
			},
			domain.OrderStatusChangedEvent{
				EventMeta: meta(domain.EventOrderStatusChanged), FromStatus: domain.StatusPreparing,
				ToStatus: domain.StatusShipped, Total: decimal.NewFromInt(9000),
			},
		}
		for _, e := range events {
			require.NoError(t, h.Handle(ctx, mustJSON(t, e)))
		}

		trail, ok := h.Trail("order-1")
		require.True(t, ok)
		assert.Equal(t, OrderTrail{
			OrderNumber: "ORD-20261015-142530-ABCDEF12",
			Status:      domain.StatusShipped,
			Events:      4,
			Reserved:    2,
		}, trail)
		assert.Contains(t, logs.String(), `"msg":"audit: status changed"`)
		assert.Contains(t, logs.String(), `"total":"9000.00"`)
	})

	t.Run("skips unknown event types", func(t *testing.T) {
		var logs bytes.Buffer
		h := NewHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

		err := h.Handle(ctx, mustJSON(t, meta("order.refunded")))

		require.NoError(t, err)
		_, ok := h.Trail("order-1")
		assert.False(t, ok)
		assert.Contains(t, logs.String(), "skipping unknown event")
	})

	t.Run("rejects undecodable payloads", func(t *testing.T) {
		h := NewHandler(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

		err := h.Handle(ctx, []byte("not json"))

		assert.Error(t, err)
	})

	t.Run("rejects a malformed known event", func(t *testing.T) {
		h := NewHandler(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

		err := h.Handle(ctx, []byte(`{"type":"order.item_added","order_id":"order-1","quantity":"three"}`))

		assert.ErrorContains(t, err, domain.EventOrderItemAdded)
	})
}
