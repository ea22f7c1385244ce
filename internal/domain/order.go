package domain

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RemoveAll passed as the quantity to RemoveItem drops the whole line.
const RemoveAll = 0

const orderNumberTimeLayout = "20060102-150405"

// LineItem is one (product, quantity) entry of an order. Adding the same
// product twice produces two lines.
type LineItem struct {
	Product  *Product
	Quantity int
}

// Subtotal uses the product's current discounted price.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order reserves product stock for each line it holds. Every mutation is
// independent; a failed call leaves earlier successful calls in place.
type Order struct {
	ID              string
	Number          string
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	CreatedAt       time.Time

	status   OrderStatus
	items    []*LineItem
	settings settings
}

type orderConfig struct {
	email   string
	address string
	opts    []Option
}

// OrderOption configures optional customer details.
type OrderOption func(*orderConfig)

func WithEmail(email string) OrderOption {
	return func(c *orderConfig) {
		c.email = email
	}
}

func WithAddress(address string) OrderOption {
	return func(c *orderConfig) {
		c.address = address
	}
}

// WithOrderOptions forwards shared entity options such as the clock.
func WithOrderOptions(opts ...Option) OrderOption {
	return func(c *orderConfig) {
		c.opts = append(c.opts, opts...)
	}
}

func NewOrder(customerName string, opts ...OrderOption) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, ErrCustomerNameRequired
	}

	cfg := orderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := newSettings(cfg.opts)

	id := uuid.New()
	createdAt := s.now()
	return &Order{
		ID:              id.String(),
		Number:          orderNumber(createdAt, id),
		CustomerName:    customerName,
		CustomerEmail:   cfg.email,
		CustomerAddress: cfg.address,
		CreatedAt:       createdAt,
		status:          StatusPreparing,
		settings:        s,
	}, nil
}

func orderNumber(createdAt time.Time, id uuid.UUID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return "ORD-" + createdAt.Format(orderNumberTimeLayout) + "-" + suffix
}

func (o *Order) Status() OrderStatus {
	return o.status
}

func (o *Order) Currency() string {
	return o.settings.currency
}

// Items returns a snapshot of the line items.
func (o *Order) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	for i, item := range o.items {
		out[i] = *item
	}
	return out
}

// AddItem appends a new line for quantity units of p and reserves them from
// its stock.
func (o *Order) AddItem(p *Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if p.stock < quantity {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, p.Name, p.stock, quantity)
	}

	o.items = append(o.items, &LineItem{Product: p, Quantity: quantity})
	p.stock -= quantity
	return nil
}

// RemoveItem releases units of p from the first line that holds it. A
// quantity of RemoveAll, or one at least the line quantity, drops the line.
// It returns the number of units restored to stock.
func (o *Order) RemoveItem(p *Product, quantity int) (int, error) {
	for i, item := range o.items {
		if item.Product != p {
			continue
		}

		if quantity <= RemoveAll || quantity >= item.Quantity {
			restored := item.Quantity
			p.stock += restored
			o.items = append(o.items[:i], o.items[i+1:]...)
			return restored, nil
		}

		item.Quantity -= quantity
		p.stock += quantity
		return quantity, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrProductNotInOrder, p.Name)
}

// UpdateStatus moves the order to status. Any known status is accepted from
// any other.
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return &InvalidStatusError{Value: string(status), Valid: ValidStatuses()}
	}
	o.status = status
	return nil
}

// Total sums the line subtotals at current product prices.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Details writes the order report.
func (o *Order) Details(w io.Writer) error {
	currency := o.settings.currency

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", reportRule)
	b.WriteString("ORDER DETAILS\n")
	fmt.Fprintf(&b, "Order No: %s\n", o.Number)
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	if o.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", o.CustomerEmail)
	}
	if o.CustomerAddress != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.CustomerAddress)
	}
	fmt.Fprintf(&b, "Date: %s\n", o.CreatedAt.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Status: %s\n", o.status)
	b.WriteString("\nItems:\n")
	for i, item := range o.items {
		fmt.Fprintf(&b, "%d. %s x %d = %s\n", i+1, item.Product.Name, item.Quantity, FormatMoney(item.Subtotal(), currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatMoney(o.Total(), currency))
	b.WriteString(reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (o *Order) String() string {
	return fmt.Sprintf("Order #%s - %s - %s - %s", o.Number, o.CustomerName, FormatMoney(o.Total(), o.settings.currency), o.status)
}
