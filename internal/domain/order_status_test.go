package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{name: "exact", input: "Shipped", want: StatusShipped},
		{name: "lower case", input: "delivered", want: StatusDelivered},
		{name: "surrounding spaces", input: "  Cancelled ", want: StatusCancelled},
		{name: "preparing", input: "PREPARING", want: StatusPreparing},
		{name: "unknown", input: "Lost", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range ValidStatuses() {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestValidStatuses_ReturnsCopy(t *testing.T) {
	statuses := ValidStatuses()
	statuses[0] = "Mutated"

	assert.Equal(t, StatusPreparing, ValidStatuses()[0])
}
