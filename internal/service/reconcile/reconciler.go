// Package reconcile turns asynchronous payment-provider truth into
// authoritative booking state. This is the only code path that moves a
// booking to completed.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/paypal"
	"github.com/leopoldus11/vibecoding/internal/repository"
)

// ErrNoCorrelationID means none of the known payload locations carried a
// booking id. Terminal for the event: it is rejected at the boundary and left
// for manual reconciliation.
var ErrNoCorrelationID = errors.New("webhook payload carries no booking id")

type Outcome int

const (
	// OutcomeIgnored: event type is not a payment completion; acknowledged
	// without any state change.
	OutcomeIgnored Outcome = iota
	// OutcomeCompleted: exactly one booking transitioned to completed and the
	// notifier was invoked.
	OutcomeCompleted
	// OutcomeDuplicate: the booking was already completed; acknowledged, no
	// second notification.
	OutcomeDuplicate
)

// Notifier sends the confirmation for a freshly completed booking. Invoked at
// most once per booking; failures are logged and never revert the completion.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking, batch *domain.Batch) error
}

type ReconcilerUseCase interface {
	Process(ctx context.Context, event *paypal.Event) (Outcome, *domain.Booking, error)
}

type Reconciler struct {
	bookings repository.BookingRepository
	batches  repository.BatchRepository
	notifier Notifier
	log      zerolog.Logger
}

func NewReconciler(bookings repository.BookingRepository, batches repository.BatchRepository, notifier Notifier, log zerolog.Logger) *Reconciler {
	return &Reconciler{bookings: bookings, batches: batches, notifier: notifier, log: log}
}

// Process finalizes a booking for a provider webhook event. Safe under
// at-least-once delivery: the underlying completion is a conditional update,
// so redelivered events either no-op (already completed) or retry cleanly
// after a storage failure.
func (r *Reconciler) Process(ctx context.Context, event *paypal.Event) (Outcome, *domain.Booking, error) {
	if !event.IsPaymentCompletion() {
		r.log.Debug().Str("event_type", event.EventType).Msg("ignoring non-relevant webhook event")
		return OutcomeIgnored, nil, nil
	}

	bookingID, ok := event.BookingID()
	if !ok {
		return OutcomeIgnored, nil, ErrNoCorrelationID
	}

	booking, err := r.bookings.Complete(ctx, bookingID, event.TransactionID(), event.PayerEmail())
	if errors.Is(err, domain.ErrAlreadyCompleted) {
		r.log.Info().Str("booking_id", bookingID).Str("event_id", event.ID).Msg("duplicate webhook delivery, booking already completed")
		return OutcomeDuplicate, nil, nil
	}
	if err != nil {
		return OutcomeIgnored, nil, err
	}

	if booking.LockExpired(time.Now()) {
		// Payment success wins over the soft lock timer, but a webhook this
		// late is worth a second look.
		r.log.Warn().Str("booking_id", booking.ID).Time("lock_expired_at", booking.SeatLockExpiresAt).Msg("webhook arrived after seat lock expiry")
	}

	batch, err := r.batches.GetByID(ctx, booking.BatchID)
	if err != nil {
		// The booking is already confirmed; a cosmetic lookup failure must not
		// roll it back. Fall back to placeholder display metadata.
		r.log.Warn().Err(err).Str("batch_id", booking.BatchID).Msg("could not fetch batch info for confirmation")
		batch = &domain.Batch{ID: booking.BatchID, Topic: "VibeCoding Intensive", Date: "Upcoming"}
	}

	if err := r.notifier.BookingConfirmed(ctx, booking, batch); err != nil {
		r.log.Error().Err(err).Str("booking_id", booking.ID).Msg("confirmation notification failed")
	}

	r.log.Info().Str("booking_id", booking.ID).Str("paypal_order_id", booking.PayPalOrderID).Msg("booking completed")
	return OutcomeCompleted, booking, nil
}

var _ ReconcilerUseCase = (*Reconciler)(nil)
