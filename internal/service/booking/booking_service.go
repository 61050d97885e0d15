package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/kafka"
	"github.com/leopoldus11/vibecoding/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// Guard blocks a second checkout for the same batch/email while one is
// outstanding.
type Guard interface {
	AcquireCheckoutGuard(ctx context.Context, batchID, email string, ttl time.Duration) (bool, error)
	ReleaseCheckoutGuard(ctx context.Context, batchID, email string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings    repository.BookingRepository
	batches     repository.BatchRepository
	guard       Guard
	producer    Producer
	eventsTopic string
	lockTTL     time.Duration
	validate    *validator.Validate
	log         zerolog.Logger
}

type CreateBookingInput struct {
	BatchID string `json:"batch_id" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

func NewBookingService(
	bookings repository.BookingRepository,
	batches repository.BatchRepository,
	guard Guard,
	producer Producer,
	eventsTopic string,
	lockTTL time.Duration,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:    bookings,
		batches:     batches,
		guard:       guard,
		producer:    producer,
		eventsTopic: eventsTopic,
		lockTTL:     lockTTL,
		validate:    validator.New(),
		log:         log,
	}
}

// CreateBooking opens a seat lock: a pending row with a fixed expiry window.
// The availability check here is advisory UX only; the capacity invariant is
// enforced when the webhook completes the booking.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking request: %w", err)
	}

	batch, err := s.batches.GetByID(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsActive {
		return nil, domain.ErrBatchInactive
	}
	completed, err := s.batches.CompletedCount(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	if completed >= batch.MaxSeats {
		return nil, domain.ErrBatchFull
	}

	guarded := false
	if s.guard != nil {
		ok, err := s.guard.AcquireCheckoutGuard(ctx, batch.ID, input.Email, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrCheckoutInFlight
		}
		guarded = true
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:                 uuid.NewString(),
		BatchID:            batch.ID,
		PreferredEmail:     input.Email,
		PaymentAmountCents: batch.PriceCents,
		SeatLockedAt:       now,
		SeatLockExpiresAt:  now.Add(s.lockTTL),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		if guarded {
			_ = s.guard.ReleaseCheckoutGuard(ctx, batch.ID, input.Email)
		}
		return nil, err
	}

	s.publish(ctx, "begin_checkout", booking)
	s.log.Info().Str("booking_id", booking.ID).Str("batch_id", batch.ID).Time("lock_expires_at", booking.SeatLockExpiresAt).Msg("seat locked")
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// CancelBooking is the courtesy pending -> cancelled transition. Cancelling a
// booking that already left pending is a no-op for expired/cancelled rows and
// an error for completed ones.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch current.PaymentStatus {
	case domain.PaymentStatusCancelled, domain.PaymentStatusExpired:
		return current, nil
	case domain.PaymentStatusCompleted:
		return nil, domain.ErrAlreadyCompleted
	}

	updated, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.guard != nil {
		_ = s.guard.ReleaseCheckoutGuard(ctx, updated.BatchID, updated.PreferredEmail)
	}
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

// ExpirePendingBookings sweeps pending rows whose lock window has passed.
// Rows are flipped to expired, never deleted; a late webhook may still
// complete them.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		b := &expired[i]
		if s.guard != nil {
			_ = s.guard.ReleaseCheckoutGuard(ctx, b.BatchID, b.PreferredEmail)
		}
		s.publish(ctx, "booking_expired", b)
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		BatchID:     booking.BatchID,
		Email:       booking.PreferredEmail,
		Status:      string(booking.PaymentStatus),
		AmountCents: booking.PaymentAmountCents,
		ExpiresAt:   booking.SeatLockExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		s.log.Warn().Err(err).Str("booking_id", booking.ID).Str("event", eventType).Msg("failed to publish booking event")
	}
}

var _ BookingUseCase = (*BookingService)(nil)
