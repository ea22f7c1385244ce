package domain

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrProductNotInCategory = errors.New("product not found in category")
	ErrProductNotInOrder    = errors.New("product not found in order")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrCustomerNameRequired = errors.New("customer name is required")
)

// InvalidStatusError reports a rejected status value together with the accepted ones.
type InvalidStatusError struct {
	Value string
	Valid []OrderStatus
}

func (e *InvalidStatusError) Error() string {
	valid := make([]string, len(e.Valid))
	for i, s := range e.Valid {
		valid[i] = string(s)
	}
	return "invalid order status " + strconv.Quote(e.Value) + ": valid statuses are " + strings.Join(valid, ", ")
}

func (e *InvalidStatusError) Is(target error) bool {
	return target == ErrInvalidStatus
}
