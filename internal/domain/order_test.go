package domain

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhone(t *testing.T) (*Category, *Product) {
	t.Helper()
	c := NewCategory("Electronics", "All electronics")
	p := NewProduct("Phone", decimal.NewFromInt(5000), 10, c, WithDiscount(decimal.NewFromInt(10)))
	return c, p
}

func newOrder(t *testing.T, opts ...OrderOption) *Order {
	t.Helper()
	o, err := NewOrder("Jane Doe", opts...)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("initial state", func(t *testing.T) {
		created := time.Date(2026, 10, 15, 14, 25, 30, 0, time.UTC)
		o := newOrder(t,
			WithEmail("jane@example.com"),
			WithAddress("Istanbul"),
			WithOrderOptions(WithClock(func() time.Time { return created })),
		)

		assert.NotEmpty(t, o.ID)
		assert.Equal(t, "Jane Doe", o.CustomerName)
		assert.Equal(t, "jane@example.com", o.CustomerEmail)
		assert.Equal(t, "Istanbul", o.CustomerAddress)
		assert.Equal(t, created, o.CreatedAt)
		assert.Equal(t, StatusPreparing, o.Status())
		assert.Empty(t, o.Items())
		assert.True(t, o.Total().IsZero())
		assert.Regexp(t, regexp.MustCompile(`^ORD-20261015-142530-[0-9A-F]{8}$`), o.Number)
	})

	t.Run("customer name is required", func(t *testing.T) {
		o, err := NewOrder("   ")

		assert.Nil(t, o)
		assert.ErrorIs(t, err, ErrCustomerNameRequired)
	})

	t.Run("same customer and second get distinct numbers", func(t *testing.T) {
		created := time.Date(2026, 10, 15, 14, 25, 30, 0, time.UTC)
		clock := WithOrderOptions(WithClock(func() time.Time { return created }))

		a := newOrder(t, clock)
		b := newOrder(t, clock)

		assert.NotEqual(t, a.Number, b.Number)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("reserves stock", func(t *testing.T) {
		_, p := newPhone(t)
		o := newOrder(t)

		require.NoError(t, o.AddItem(p, 2))

		assert.Equal(t, 8, p.Stock())
		assert.Equal(t, []LineItem{{Product: p, Quantity: 2}}, o.Items())
		assert.Equal(t, "9000.00", o.Total().StringFixed(2))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, p := newPhone(t)
		o := newOrder(t)

		for _, q := range []int{0, -1} {
			err := o.AddItem(p, q)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
		}
		assert.Equal(t, 10, p.Stock())
		assert.Empty(t, o.Items())
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		_, p := newPhone(t)
		o := newOrder(t)

		err := o.AddItem(p, 11)

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 10, p.Stock())
		assert.Empty(t, o.Items())
	})

	t.Run("repeated adds create separate lines", func(t *testing.T) {
		_, p := newPhone(t)
		o := newOrder(t)

		require.NoError(t, o.AddItem(p, 1))
		require.NoError(t, o.AddItem(p, 3))

		items := o.Items()
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, 3, items[1].Quantity)
		assert.Equal(t, 6, p.Stock())
	})

	t.Run("earlier lines survive a later failure", func(t *testing.T) {
		c, phone := newPhone(t)
		tablet := NewProduct("Tablet", decimal.NewFromInt(3000), 1, c)
		o := newOrder(t)

		require.NoError(t, o.AddItem(phone, 2))
		err := o.AddItem(tablet, 2)

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Len(t, o.Items(), 1)
		assert.Equal(t, 8, phone.Stock())
		assert.Equal(t, 1, tablet.Stock())
	})
}

func TestOrder_RemoveItem(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantRestored int
		wantStock    int
		wantLines    []int
	}{
		{name: "remove all", quantity: RemoveAll, wantRestored: 4, wantStock: 10, wantLines: nil},
		{name: "quantity equal to line", quantity: 4, wantRestored: 4, wantStock: 10, wantLines: nil},
		{name: "quantity above line", quantity: 9, wantRestored: 4, wantStock: 10, wantLines: nil},
		{name: "partial removal", quantity: 1, wantRestored: 1, wantStock: 7, wantLines: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := newPhone(t)
			o := newOrder(t)
			require.NoError(t, o.AddItem(p, 4))

			restored, err := o.RemoveItem(p, tt.quantity)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRestored, restored)
			assert.Equal(t, tt.wantStock, p.Stock())

			var lines []int
			for _, item := range o.Items() {
				lines = append(lines, item.Quantity)
			}
			assert.Equal(t, tt.wantLines, lines)
		})
	}

	t.Run("only the first matching line is affected", func(t *testing.T) {
		_, p := newPhone(t)
		o := newOrder(t)
		require.NoError(t, o.AddItem(p, 2))
		require.NoError(t, o.AddItem(p, 3))

		restored, err := o.RemoveItem(p, RemoveAll)

		require.NoError(t, err)
		assert.Equal(t, 2, restored)
		items := o.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, 7, p.Stock())
	})

	t.Run("missing product is reported without mutation", func(t *testing.T) {
		c, phone := newPhone(t)
		tablet := NewProduct("Tablet", decimal.NewFromInt(3000), 5, c)
		o := newOrder(t)
		require.NoError(t, o.AddItem(phone, 1))

		restored, err := o.RemoveItem(tablet, RemoveAll)

		assert.ErrorIs(t, err, ErrProductNotInOrder)
		assert.Zero(t, restored)
		assert.Len(t, o.Items(), 1)
		assert.Equal(t, 5, tablet.Stock())
		assert.Equal(t, 9, phone.Stock())
	})
}

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("any known status is reachable from any other", func(t *testing.T) {
		o := newOrder(t)
		for _, from := range ValidStatuses() {
			for _, to := range ValidStatuses() {
				require.NoError(t, o.UpdateStatus(from))
				require.NoError(t, o.UpdateStatus(to))
				assert.Equal(t, to, o.Status())
			}
		}
	})

	t.Run("delivered can go back to preparing", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.UpdateStatus(StatusDelivered))
		require.NoError(t, o.UpdateStatus(StatusPreparing))
		assert.Equal(t, StatusPreparing, o.Status())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.UpdateStatus(StatusShipped))

		err := o.UpdateStatus(OrderStatus("Lost"))

		assert.ErrorIs(t, err, ErrInvalidStatus)
		var statusErr *InvalidStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "Lost", statusErr.Value)
		assert.Equal(t, ValidStatuses(), statusErr.Valid)
		assert.Contains(t, err.Error(), "Preparing, Shipped, Delivered, Cancelled")
		assert.Equal(t, StatusShipped, o.Status())
	})
}

func TestOrder_TotalFollowsProductChanges(t *testing.T) {
	c, phone := newPhone(t)
	tablet := NewProduct("Tablet", decimal.NewFromInt(3000), 5, c)
	o := newOrder(t)
	require.NoError(t, o.AddItem(phone, 2))
	require.NoError(t, o.AddItem(tablet, 1))

	assert.Equal(t, "12000.00", o.Total().StringFixed(2))

	phone.ApplyDiscount(decimal.NewFromInt(50))
	assert.Equal(t, "8000.00", o.Total().StringFixed(2))

	tablet.SetPrice(decimal.NewFromInt(1000))
	assert.Equal(t, "6000.00", o.Total().StringFixed(2))
}

func TestOrder_ElectronicsScenario(t *testing.T) {
	_, p := newPhone(t)
	assert.Equal(t, "4500.00", p.DiscountedPrice().StringFixed(2))

	o := newOrder(t)
	require.NoError(t, o.AddItem(p, 2))
	assert.Equal(t, 8, p.Stock())
	assert.Equal(t, "9000.00", o.Total().StringFixed(2))

	_, err := o.RemoveItem(p, RemoveAll)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock())
	assert.Equal(t, "0.00", o.Total().StringFixed(2))
}

func TestOrder_Details(t *testing.T) {
	created := time.Date(2026, 10, 15, 14, 25, 30, 0, time.UTC)
	c, phone := newPhone(t)
	tablet := NewProduct("Tablet", decimal.NewFromInt(3000), 5, c)

	t.Run("full report", func(t *testing.T) {
		o := newOrder(t,
			WithEmail("jane@example.com"),
			WithAddress("Istanbul"),
			WithOrderOptions(WithClock(func() time.Time { return created })),
		)
		require.NoError(t, o.AddItem(phone, 2))
		require.NoError(t, o.AddItem(tablet, 1))

		var buf bytes.Buffer
		require.NoError(t, o.Details(&buf))
		out := buf.String()

		assert.Contains(t, out, "Order No: "+o.Number)
		assert.Contains(t, out, "Customer: Jane Doe")
		assert.Contains(t, out, "Email: jane@example.com")
		assert.Contains(t, out, "Address: Istanbul")
		assert.Contains(t, out, "Date: 15.10.2026 14:25")
		assert.Contains(t, out, "Status: Preparing")
		assert.Contains(t, out, "1. Phone x 2 = 9000.00 TL")
		assert.Contains(t, out, "2. Tablet x 1 = 3000.00 TL")
		assert.Contains(t, out, "Total: 12000.00 TL")
	})

	t.Run("optional contact lines are omitted", func(t *testing.T) {
		o := newOrder(t)

		var buf bytes.Buffer
		require.NoError(t, o.Details(&buf))

		assert.NotContains(t, buf.String(), "Email:")
		assert.NotContains(t, buf.String(), "Address:")
		assert.Contains(t, buf.String(), "Total: 0.00 TL")
	})

	t.Run("summary string", func(t *testing.T) {
		o := newOrder(t)
		assert.Equal(t, "Order #"+o.Number+" - Jane Doe - 0.00 TL - Preparing", o.String())
	})
}
