package domain

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

const reportRule = "=================================================="

// Category groups products. It owns the ordered membership list; a product
// appears in it at most once.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	products []*Product
	settings settings
}

func NewCategory(name, description string, opts ...Option) *Category {
	s := newSettings(opts)
	now := s.now()
	return &Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		settings:    s,
	}
}

// AddProduct appends p unless it is already a member. It reports whether the
// membership changed.
func (c *Category) AddProduct(p *Product) bool {
	if p == nil || c.Contains(p) {
		return false
	}
	c.products = append(c.products, p)
	c.UpdatedAt = c.settings.now()
	return true
}

// RemoveProduct drops p from the membership list. The product keeps its own
// reference to c.
func (c *Category) RemoveProduct(p *Product) error {
	for i, member := range c.products {
		if member == p {
			c.products = append(c.products[:i], c.products[i+1:]...)
			c.UpdatedAt = c.settings.now()
			return nil
		}
	}
	return ErrProductNotInCategory
}

func (c *Category) Contains(p *Product) bool {
	for _, member := range c.products {
		if member == p {
			return true
		}
	}
	return false
}

// Products returns a copy of the membership list in insertion order.
func (c *Category) Products() []*Product {
	out := make([]*Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Category) Len() int {
	return len(c.products)
}

// ListProducts writes a human-readable report of the category and its products.
func (c *Category) ListProducts(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", reportRule)
	fmt.Fprintf(&b, "%s\n", c)
	fmt.Fprintf(&b, "Created: %s\n", c.CreatedAt.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Last updated: %s\n", c.UpdatedAt.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Description: %s\n", c.Description)
	b.WriteString("\nProducts:\n")
	for i, p := range c.products {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Display())
	}
	b.WriteString(reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (c *Category) String() string {
	return fmt.Sprintf("%s category (%d products)", c.Name, len(c.products))
}
