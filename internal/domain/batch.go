package domain

import "time"

// Session is one live block of a batch. Start/End are compact UTC stamps
// (20260115T170000Z) so they can be pasted straight into calendar links.
type Session struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Batch struct {
	ID         string
	Topic      string
	Date       string
	Sessions   []Session
	TimeSlots  string
	MaxSeats   int
	IsActive   bool
	PriceCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BatchAvailability is a batch together with its derived seat count.
type BatchAvailability struct {
	Batch
	SeatsLeft int
}

func (a BatchAvailability) Full() bool {
	return a.SeatsLeft <= 0
}
