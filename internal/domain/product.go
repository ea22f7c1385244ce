package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item with a unit price, a discount percentage and a
// stock level. Price and stock are never negative and the discount always
// stays within [0, 100]; out-of-range inputs are clamped, not rejected.
type Product struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time

	price    decimal.Decimal
	discount decimal.Decimal
	stock    int
	category *Category
	settings settings
}

type productConfig struct {
	description string
	discount    decimal.Decimal
	opts        []Option
}

// ProductOption configures optional product attributes.
type ProductOption func(*productConfig)

func WithDescription(description string) ProductOption {
	return func(c *productConfig) {
		c.description = description
	}
}

func WithDiscount(pct decimal.Decimal) ProductOption {
	return func(c *productConfig) {
		c.discount = pct
	}
}

// WithProductOptions forwards shared entity options such as the clock.
func WithProductOptions(opts ...Option) ProductOption {
	return func(c *productConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// NewProduct builds a product and registers it into category. A nil category
// leaves the product unattached.
func NewProduct(name string, price decimal.Decimal, stock int, category *Category, opts ...ProductOption) *Product {
	cfg := productConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := newSettings(cfg.opts)

	p := &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: cfg.description,
		CreatedAt:   s.now(),
		price:       clampPrice(price),
		discount:    clampDiscount(cfg.discount),
		stock:       clampStock(stock),
		category:    category,
		settings:    s,
	}
	if category != nil {
		category.AddProduct(p)
	}
	return p
}

func (p *Product) Price() decimal.Decimal {
	return p.price
}

func (p *Product) Discount() decimal.Decimal {
	return p.discount
}

func (p *Product) Stock() int {
	return p.stock
}

// Category returns the category the product was created in. It is not
// cleared when the category later drops the product.
func (p *Product) Category() *Category {
	return p.category
}

func (p *Product) Currency() string {
	return p.settings.currency
}

// DiscountedPrice is price × (1 − discount/100), computed on every call.
func (p *Product) DiscountedPrice() decimal.Decimal {
	return p.price.Mul(one.Sub(p.discount.Div(hundred)))
}

// SetPrice assigns a new unit price, clamped to zero.
func (p *Product) SetPrice(price decimal.Decimal) {
	p.price = clampPrice(price)
}

// ApplyDiscount assigns a new discount percentage, clamped to [0, 100].
func (p *Product) ApplyDiscount(pct decimal.Decimal) {
	p.discount = clampDiscount(pct)
}

// UpdateStock applies delta when the result stays non-negative. A positive
// delta restocks, a negative one consumes.
func (p *Product) UpdateStock(delta int) error {
	if p.stock+delta < 0 {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, p.Name, p.stock, -delta)
	}
	p.stock += delta
	return nil
}

func (p *Product) Display() string {
	price := FormatMoney(p.DiscountedPrice(), p.settings.currency)
	if p.discount.IsPositive() {
		price += fmt.Sprintf(" (%%%s off, list price %s)", p.discount.String(), FormatMoney(p.price, p.settings.currency))
	}

	categoryName := ""
	if p.category != nil {
		categoryName = p.category.Name
	}
	return fmt.Sprintf("%s - %s - Stock: %d - Category: %s", p.Name, price, p.stock, categoryName)
}

func (p *Product) String() string {
	return p.Display()
}
