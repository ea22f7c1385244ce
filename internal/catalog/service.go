package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

var tracer = otel.Tracer("catalog")

// EventPublisher delivers order events. messaging.Producer implements it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service keeps categories, products and orders in memory and exposes the
// domain operations by ID. Every call is applied on its own; there is no
// grouping or rollback across calls.
type Service struct {
	mu          sync.Mutex
	categories  map[string]*domain.Category
	products    map[string]*domain.Product
	orders      map[string]*domain.Order
	categoryIDs []string
	orderIDs    []string

	publisher   EventPublisher
	instruments *telemetry.Instruments
	logger      *slog.Logger
	opts        []domain.Option
}

// NewService builds a Service. A nil publisher disables event publishing.
// opts are applied to every entity the service creates.
func NewService(publisher EventPublisher, logger *slog.Logger, opts ...domain.Option) (*Service, error) {
	instruments, err := telemetry.NewInstruments(otel.Meter("catalog"))
	if err != nil {
		return nil, fmt.Errorf("create instruments: %w", err)
	}

	return &Service{
		categories:  make(map[string]*domain.Category),
		products:    make(map[string]*domain.Product),
		orders:      make(map[string]*domain.Order),
		publisher:   publisher,
		instruments: instruments,
		logger:      logger,
		opts:        opts,
	}, nil
}

type NewProductInput struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	CategoryID  string
	Description string
	Discount    decimal.Decimal
}

type NewOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (CategoryView, error) {
	ctx, span := tracer.Start(ctx, "catalog.CreateCategory")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		err := fmt.Errorf("%w: category name is required", ErrInvalidInput)
		s.reject(ctx, span, "create_category", err)
		return CategoryView{}, err
	}

	s.mu.Lock()
	c := domain.NewCategory(name, description, s.opts...)
	s.categories[c.ID] = c
	s.categoryIDs = append(s.categoryIDs, c.ID)
	view := newCategoryView(c)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("category.id", c.ID))
	s.logger.Info("category created", "category_id", c.ID, "name", name)
	return view, nil
}

func (s *Service) Category(ctx context.Context, id string) (CategoryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return CategoryView{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return newCategoryView(c), nil
}

func (s *Service) Categories(ctx context.Context) []CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]CategoryView, 0, len(s.categoryIDs))
	for _, id := range s.categoryIDs {
		views = append(views, newCategoryView(s.categories[id]))
	}
	return views
}

// CategoryReport writes the category's product listing to w.
func (s *Service) CategoryReport(ctx context.Context, id string, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c.ListProducts(w)
}

// CreateProduct creates a product inside an existing category. Out-of-range
// price, stock and discount are clamped by the domain.
func (s *Service) CreateProduct(ctx context.Context, in NewProductInput) (ProductView, error) {
	ctx, span := tracer.Start(ctx, "catalog.CreateProduct", trace.WithAttributes(attribute.String("category.id", in.CategoryID)))
	defer span.End()

	if strings.TrimSpace(in.Name) == "" {
		err := fmt.Errorf("%w: product name is required", ErrInvalidInput)
		s.reject(ctx, span, "create_product", err)
		return ProductView{}, err
	}

	s.mu.Lock()
	c, ok := s.categories[in.CategoryID]
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("category %s: %w", in.CategoryID, ErrNotFound)
		s.reject(ctx, span, "create_product", err)
		return ProductView{}, err
	}
	p := domain.NewProduct(in.Name, in.Price, in.Stock, c,
		domain.WithDescription(in.Description),
		domain.WithDiscount(in.Discount),
		domain.WithProductOptions(s.opts...),
	)
	s.products[p.ID] = p
	view := newProductView(p)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("product.id", p.ID))
	s.logger.Info("product created",
		"product_id", p.ID,
		"name", view.Name,
		"category_id", c.ID,
		"price", view.Price.String(),
		"stock", view.Stock,
		"discount", view.Discount.String(),
	)
	return view, nil
}

func (s *Service) Product(ctx context.Context, id string) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ProductView{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return newProductView(p), nil
}

// AttachProduct adds an existing product to a category. It reports false
// when the product was already a member.
func (s *Service) AttachProduct(ctx context.Context, categoryID, productID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "catalog.AttachProduct", trace.WithAttributes(
		attribute.String("category.id", categoryID),
		attribute.String("product.id", productID),
	))
	defer span.End()

	s.mu.Lock()
	c, p, err := s.lookupMembership(categoryID, productID)
	var added bool
	if err == nil {
		added = c.AddProduct(p)
	}
	s.mu.Unlock()

	if err != nil {
		s.reject(ctx, span, "attach_product", err)
		return false, err
	}
	if !added {
		s.logger.Info("product already in category", "category_id", categoryID, "product_id", productID)
		return false, nil
	}
	s.logger.Info("product added to category", "category_id", categoryID, "product_id", productID)
	return true, nil
}

// DetachProduct removes a product from a category's list. The product keeps
// pointing at the category it was created in.
func (s *Service) DetachProduct(ctx context.Context, categoryID, productID string) error {
	ctx, span := tracer.Start(ctx, "catalog.DetachProduct", trace.WithAttributes(
		attribute.String("category.id", categoryID),
		attribute.String("product.id", productID),
	))
	defer span.End()

	s.mu.Lock()
	c, p, err := s.lookupMembership(categoryID, productID)
	if err == nil {
		err = c.RemoveProduct(p)
	}
	s.mu.Unlock()

	if err != nil {
		s.reject(ctx, span, "detach_product", err)
		return err
	}
	s.logger.Info("product removed from category", "category_id", categoryID, "product_id", productID)
	return nil
}

func (s *Service) lookupMembership(categoryID, productID string) (*domain.Category, *domain.Product, error) {
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, nil, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return c, p, nil
}

func (s *Service) UpdateStock(ctx context.Context, productID string, delta int) (ProductView, error) {
	ctx, span := tracer.Start(ctx, "catalog.UpdateStock", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("stock.delta", delta),
	))
	defer span.End()

	view, err := s.mutateProduct(productID, func(p *domain.Product) error {
		return p.UpdateStock(delta)
	})
	if err != nil {
		s.reject(ctx, span, "update_stock", err)
		return ProductView{}, err
	}

	s.logger.Info("stock updated", "product_id", productID, "delta", delta, "stock", view.Stock)
	return view, nil
}

func (s *Service) ApplyDiscount(ctx context.Context, productID string, pct decimal.Decimal) (ProductView, error) {
	ctx, span := tracer.Start(ctx, "catalog.ApplyDiscount", trace.WithAttributes(attribute.String("product.id", productID)))
	defer span.End()

	view, err := s.mutateProduct(productID, func(p *domain.Product) error {
		p.ApplyDiscount(pct)
		return nil
	})
	if err != nil {
		s.reject(ctx, span, "apply_discount", err)
		return ProductView{}, err
	}

	s.logger.Info("discount applied", "product_id", productID, "requested", pct.String(), "discount", view.Discount.String())
	return view, nil
}

func (s *Service) SetPrice(ctx context.Context, productID string, price decimal.Decimal) (ProductView, error) {
	ctx, span := tracer.Start(ctx, "catalog.SetPrice", trace.WithAttributes(attribute.String("product.id", productID)))
	defer span.End()

	view, err := s.mutateProduct(productID, func(p *domain.Product) error {
		p.SetPrice(price)
		return nil
	})
	if err != nil {
		s.reject(ctx, span, "set_price", err)
		return ProductView{}, err
	}

	s.logger.Info("price updated", "product_id", productID, "requested", price.String(), "price", view.Price.String())
	return view, nil
}

func (s *Service) mutateProduct(productID string, fn func(*domain.Product) error) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return ProductView{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err := fn(p); err != nil {
		return ProductView{}, err
	}
	return newProductView(p), nil
}

func (s *Service) CreateOrder(ctx context.Context, in NewOrderInput) (OrderView, error) {
	ctx, span := tracer.Start(ctx, "catalog.CreateOrder")
	defer span.End()

	o, err := domain.NewOrder(in.CustomerName,
		domain.WithEmail(in.CustomerEmail),
		domain.WithAddress(in.CustomerAddress),
		domain.WithOrderOptions(s.opts...),
	)
	if err != nil {
		s.reject(ctx, span, "create_order", err)
		return OrderView{}, err
	}

	s.mu.Lock()
	s.orders[o.ID] = o
	s.orderIDs = append(s.orderIDs, o.ID)
	view := newOrderView(o)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("order.id", o.ID), attribute.String("order.number", o.Number))
	s.instruments.OrderCreated(ctx)
	s.logger.Info("order created", "order_id", o.ID, "order_number", o.Number, "customer", o.CustomerName)

	s.publish(ctx, o.ID, domain.OrderCreatedEvent{
		EventMeta:     domain.NewEventMeta(domain.EventOrderCreated, o, time.Now().UTC()),
		CustomerName:  view.CustomerName,
		CustomerEmail: view.CustomerEmail,
	})
	return view, nil
}

func (s *Service) Order(ctx context.Context, id string) (OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return OrderView{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return newOrderView(o), nil
}

func (s *Service) Orders(ctx context.Context) []OrderView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]OrderView, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		views = append(views, newOrderView(s.orders[id]))
	}
	return views
}

// OrderDetails writes the order report to w.
func (s *Service) OrderDetails(ctx context.Context, id string, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return o.Details(w)
}

// AddItem reserves quantity units of a product on a new order line.
func (s *Service) AddItem(ctx context.Context, orderID, productID string, quantity int) (OrderView, error) {
	ctx, span := tracer.Start(ctx, "catalog.AddItem", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	))
	defer span.End()

	s.mu.Lock()
	o, p, err := s.lookupLine(orderID, productID)
	if err == nil {
		err = o.AddItem(p, quantity)
	}
	if err != nil {
		s.mu.Unlock()
		s.reject(ctx, span, "add_item", err)
		return OrderView{}, err
	}
	view := newOrderView(o)
	event := domain.OrderItemAddedEvent{
		EventMeta:   domain.NewEventMeta(domain.EventOrderItemAdded, o, time.Now().UTC()),
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.DiscountedPrice(),
		StockLeft:   p.Stock(),
	}
	s.mu.Unlock()

	s.instruments.StockReserved(ctx, productID, quantity)
	s.logger.Info("item added to order",
		"order_id", orderID,
		"product_id", productID,
		"quantity", quantity,
		"stock_left", event.StockLeft,
	)
	s.publish(ctx, orderID, event)
	return view, nil
}

// RemoveItem releases units from the first order line holding the product.
// quantity <= 0 removes the whole line.
func (s *Service) RemoveItem(ctx context.Context, orderID, productID string, quantity int) (OrderView, error) {
	ctx, span := tracer.Start(ctx, "catalog.RemoveItem", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	))
	defer span.End()

	s.mu.Lock()
	o, p, err := s.lookupLine(orderID, productID)
	var restored int
	if err == nil {
		restored, err = o.RemoveItem(p, quantity)
	}
	if err != nil {
		s.mu.Unlock()
		s.reject(ctx, span, "remove_item", err)
		return OrderView{}, err
	}
	view := newOrderView(o)
	event := domain.OrderItemRemovedEvent{
		EventMeta:   domain.NewEventMeta(domain.EventOrderItemRemoved, o, time.Now().UTC()),
		ProductID:   p.ID,
		ProductName: p.Name,
		Restored:    restored,
		StockLeft:   p.Stock(),
	}
	s.mu.Unlock()

	s.instruments.StockReleased(ctx, productID, restored)
	s.logger.Info("item removed from order",
		"order_id", orderID,
		"product_id", productID,
		"restored", restored,
		"stock_left", event.StockLeft,
	)
	s.publish(ctx, orderID, event)
	return view, nil
}

func (s *Service) lookupLine(orderID, productID string) (*domain.Order, *domain.Product, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return o, p, nil
}

// UpdateStatus sets the order status. status is matched case-insensitively.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (OrderView, error) {
	ctx, span := tracer.Start(ctx, "catalog.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", status),
	))
	defer span.End()

	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		s.reject(ctx, span, "update_status", err)
		return OrderView{}, err
	}

	s.mu.Lock()
	o, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		s.reject(ctx, span, "update_status", err)
		return OrderView{}, err
	}
	previous := o.Status()
	if err := o.UpdateStatus(next); err != nil {
		s.mu.Unlock()
		s.reject(ctx, span, "update_status", err)
		return OrderView{}, err
	}
	view := newOrderView(o)
	event := domain.OrderStatusChangedEvent{
		EventMeta:  domain.NewEventMeta(domain.EventOrderStatusChanged, o, time.Now().UTC()),
		FromStatus: previous,
		ToStatus:   next,
		Total:      view.Total,
	}
	s.mu.Unlock()

	total, _ := view.Total.Float64()
	s.instruments.OrderTotal(ctx, next.String(), total)
	s.logger.Info("order status updated", "order_id", orderID, "from", previous, "to", next)
	s.publish(ctx, orderID, event)
	return view, nil
}

func (s *Service) publish(ctx context.Context, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Error("failed to publish order event", "error", err, "order_id", key)
	}
}

func (s *Service) reject(ctx context.Context, span trace.Span, operation string, err error) {
	reason := rejectionReason(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	s.instruments.Rejected(ctx, operation, reason)
	s.logger.Warn("operation rejected", "operation", operation, "reason", reason, "error", err)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return telemetry.ReasonInvalidQuantity
	case errors.Is(err, domain.ErrInsufficientStock):
		return telemetry.ReasonInsufficientStock
	case errors.Is(err, ErrNotFound),
		errors.Is(err, domain.ErrProductNotInCategory),
		errors.Is(err, domain.ErrProductNotInOrder):
		return telemetry.ReasonNotFound
	case errors.Is(err, domain.ErrInvalidStatus):
		return telemetry.ReasonInvalidStatus
	default:
		return telemetry.ReasonInvalidInput
	}
}
