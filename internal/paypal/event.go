// Package paypal models the slice of the PayPal webhook payload this service
// cares about. The same logical field can sit at different nesting depths
// depending on the event type, so lookups run through ordered fallback chains
// instead of ad hoc conditionals.
package paypal

const (
	EventCheckoutOrderApproved   = "CHECKOUT.ORDER.APPROVED"
	EventPaymentCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
)

type Event struct {
	ID        string   `json:"id"`
	EventType string   `json:"event_type"`
	Resource  Resource `json:"resource"`
}

type Resource struct {
	ID            string         `json:"id"`
	CustomID      string         `json:"custom_id"`
	Custom        string         `json:"custom"`
	Payer         *Payer         `json:"payer"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

type PurchaseUnit struct {
	CustomID string    `json:"custom_id"`
	Payments *Payments `json:"payments"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type Capture struct {
	ID string `json:"id"`
}

type Payer struct {
	EmailAddress string `json:"email_address"`
}

// IsPaymentCompletion reports whether the event is one of the two "payment
// went through" notifications. Everything else is acknowledged and dropped so
// PayPal does not retry benign events forever.
func (e *Event) IsPaymentCompletion() bool {
	return e.EventType == EventCheckoutOrderApproved || e.EventType == EventPaymentCaptureCompleted
}

// bookingIDFields is the ordered correlation-id fallback chain. The booking id
// is passed to PayPal as custom_id at order creation and comes back at a
// depth that depends on the event type.
var bookingIDFields = []func(*Resource) string{
	func(r *Resource) string { return r.CustomID },
	func(r *Resource) string {
		if len(r.PurchaseUnits) > 0 {
			return r.PurchaseUnits[0].CustomID
		}
		return ""
	},
	func(r *Resource) string { return r.Custom },
}

// BookingID resolves the correlation id, trying each known payload location
// in order. ok is false when no location yields one.
func (e *Event) BookingID() (string, bool) {
	for _, field := range bookingIDFields {
		if id := field(&e.Resource); id != "" {
			return id, true
		}
	}
	return "", false
}

// TransactionID returns the provider order or capture id for the event.
func (e *Event) TransactionID() string {
	if e.Resource.ID != "" {
		return e.Resource.ID
	}
	if len(e.Resource.PurchaseUnits) > 0 {
		if p := e.Resource.PurchaseUnits[0].Payments; p != nil && len(p.Captures) > 0 {
			return p.Captures[0].ID
		}
	}
	return ""
}

func (e *Event) PayerEmail() string {
	if e.Resource.Payer != nil {
		return e.Resource.Payer.EmailAddress
	}
	return ""
}
