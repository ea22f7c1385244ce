// Command demo walks through a small catalog and order scenario and prints
// the category and order reports to stdout. Progress is logged to stderr.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/config"
	"github.com/joao-fontenele/storefront/internal/domain"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := run(os.Stdout, logger, domain.WithCurrency(cfg.Currency)); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(out io.Writer, logger *slog.Logger, opts ...domain.Option) error {
	electronics := domain.NewCategory("Electronics", "All electronics products", opts...)
	home := domain.NewCategory("Home & Living", "Home and living products", opts...)

	shared := domain.WithProductOptions(opts...)
	phone := domain.NewProduct("Smartphone", decimal.NewFromInt(5000), 10, electronics,
		domain.WithDescription("Latest model smartphone"), domain.WithDiscount(decimal.NewFromInt(10)), shared)
	tablet := domain.NewProduct("Tablet", decimal.NewFromInt(3000), 5, electronics,
		domain.WithDescription("10 inch tablet"), shared)
	vacuum := domain.NewProduct("Robot Vacuum", decimal.NewFromInt(2500), 8, home,
		domain.WithDescription("Smart robot vacuum"), domain.WithDiscount(decimal.NewFromInt(15)), shared)

	for _, c := range []*domain.Category{electronics, home} {
		if err := c.ListProducts(out); err != nil {
			return fmt.Errorf("list %s: %w", c.Name, err)
		}
	}

	order, err := domain.NewOrder("Jane Doe",
		domain.WithEmail("jane@example.com"),
		domain.WithAddress("Istanbul, Turkey"),
		domain.WithOrderOptions(opts...),
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	logger.Info("order created", "order_number", order.Number, "customer", order.CustomerName)

	lines := []struct {
		product  *domain.Product
		quantity int
	}{
		{phone, 2},
		{tablet, 1},
		{vacuum, 1},
	}
	for _, line := range lines {
		if err := order.AddItem(line.product, line.quantity); err != nil {
			return fmt.Errorf("add %s: %w", line.product.Name, err)
		}
		logger.Info("item added", "product", line.product.Name, "quantity", line.quantity, "stock_left", line.product.Stock())
	}

	if err := order.Details(out); err != nil {
		return fmt.Errorf("order details: %w", err)
	}

	if err := order.UpdateStatus(domain.StatusShipped); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	logger.Info("order status updated", "status", order.Status())

	restored, err := order.RemoveItem(tablet, domain.RemoveAll)
	if err != nil {
		return fmt.Errorf("remove %s: %w", tablet.Name, err)
	}
	logger.Info("item removed", "product", tablet.Name, "restored", restored, "stock_left", tablet.Stock())

	if err := order.Details(out); err != nil {
		return fmt.Errorf("order details: %w", err)
	}
	_, err = fmt.Fprintln(out, order)
	return err
}
