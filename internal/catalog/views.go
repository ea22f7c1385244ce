package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
)

// Views are snapshots taken under the service lock; they share no state with
// the live entities.

type ProductView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Stock           int             `json:"stock"`
	CategoryID      string          `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	Display         string          `json:"display"`
	CreatedAt       time.Time       `json:"created_at"`
}

type CategoryView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Products    []ProductView `json:"products"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type LineItemView struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	CustomerAddress string             `json:"customer_address,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	Items           []LineItemView     `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	Currency        string             `json:"currency"`
	CreatedAt       time.Time          `json:"created_at"`
}

func newProductView(p *domain.Product) ProductView {
	v := ProductView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price(),
		Discount:        p.Discount(),
		DiscountedPrice: p.DiscountedPrice(),
		Stock:           p.Stock(),
		Display:         p.Display(),
		CreatedAt:       p.CreatedAt,
	}
	if c := p.Category(); c != nil {
		v.CategoryID = c.ID
		v.CategoryName = c.Name
	}
	return v
}

func newCategoryView(c *domain.Category) CategoryView {
	products := c.Products()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Products:    views,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newOrderView(o *domain.Order) OrderView {
	items := o.Items()
	views := make([]LineItemView, 0, len(items))
	for _, item := range items {
		views = append(views, LineItemView{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.DiscountedPrice(),
			Subtotal:    item.Subtotal(),
		})
	}
	return OrderView{
		ID:              o.ID,
		Number:          o.Number,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		Status:          o.Status(),
		Items:           views,
		Total:           o.Total(),
		Currency:        o.Currency(),
		CreatedAt:       o.CreatedAt,
	}
}
