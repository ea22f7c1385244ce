package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "TL"

const reportTimeLayout = "02.01.2006 15:04"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// FormatMoney renders amount with two fractional digits followed by the currency code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

func clampPrice(price decimal.Decimal) decimal.Decimal {
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

func clampDiscount(pct decimal.Decimal) decimal.Decimal {
	switch {
	case pct.IsNegative():
		return decimal.Zero
	case pct.GreaterThan(hundred):
		return hundred
	default:
		return pct
	}
}

func clampStock(stock int) int {
	if stock < 0 {
		return 0
	}
	return stock
}

type settings struct {
	now      func() time.Time
	currency string
}

// Option configures cross-cutting behavior shared by every entity constructor.
type Option func(*settings)

// WithClock overrides the time source used for creation and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCurrency sets the currency code used in rendered reports.
func WithCurrency(currency string) Option {
	return func(s *settings) {
		if currency != "" {
			s.currency = currency
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, currency: DefaultCurrency}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
