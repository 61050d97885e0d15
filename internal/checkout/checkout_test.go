package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/leopoldus11/vibecoding/internal/domain"
)

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{33300, "333.00"},
		{33350, "333.50"},
		{5, "0.05"},
		{0, "0.00"},
		{99, "0.99"},
		{100, "1.00"},
		{-150, "-1.50"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatAmount(tc.cents))
	}
}

func TestNewOrder(t *testing.T) {
	booking := &domain.Booking{
		ID:                 "booking-1",
		PaymentAmountCents: 33300,
	}

	order := NewOrder(booking)

	assert.Equal(t, "333.00", order.Amount)
	assert.Equal(t, "EUR", order.Currency)
	assert.Equal(t, "booking-1", order.CustomID)
}
