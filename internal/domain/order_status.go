package domain

import "strings"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPreparing OrderStatus = "Preparing"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

var validStatuses = []OrderStatus{
	StatusPreparing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidStatuses returns the accepted statuses in lifecycle order.
func ValidStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validStatuses))
	copy(out, validStatuses)
	return out
}

// ParseOrderStatus matches value against the known statuses, ignoring case
// and surrounding whitespace.
func ParseOrderStatus(value string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(value)
	for _, v := range validStatuses {
		if strings.EqualFold(trimmed, string(v)) {
			return v, nil
		}
	}
	return "", &InvalidStatusError{Value: value, Valid: ValidStatuses()}
}
