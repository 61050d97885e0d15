package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type Booking struct {
	ID                 string
	BatchID            string
	PreferredEmail     string
	PaymentStatus      PaymentStatus
	PaymentAmountCents int64
	SeatLockedAt       time.Time
	SeatLockExpiresAt  time.Time
	PayPalOrderID      string
	PayPalEmail        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LockExpired reports whether the seat lock window has passed. The lock is
// advisory: an expired pending booking may still be completed by the
// payment webhook.
func (b *Booking) LockExpired(now time.Time) bool {
	return now.After(b.SeatLockExpiresAt)
}
