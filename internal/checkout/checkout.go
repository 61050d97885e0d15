// Package checkout is the seam to the client-side payment widget. Amounts
// live as integer minor units everywhere else in the service; the display
// string is produced here and only here.
package checkout

import (
	"fmt"

	"github.com/leopoldus11/vibecoding/internal/domain"
)

const DefaultCurrency = "EUR"

// Order is the input contract of the payment widget: it renders a pay button
// for Amount/Currency and passes CustomID through as the correlation key the
// webhook brings back.
type Order struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	CustomID string `json:"custom_id"`
}

func NewOrder(b *domain.Booking) Order {
	return Order{
		Amount:   FormatAmount(b.PaymentAmountCents),
		Currency: DefaultCurrency,
		CustomID: b.ID,
	}
}

// FormatAmount renders minor units as the provider's decimal string,
// e.g. 33300 -> "333.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
