package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leopoldus11/vibecoding/internal/domain"
)

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Complete(ctx context.Context, id, paypalOrderID, payerEmail string) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, batch_id, preferred_email, payment_status, payment_amount_cents, seat_locked_at, seat_lock_expires_at, coalesce(paypal_order_id, ''), coalesce(paypal_email, ''), created_at, updated_at`

func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var active bool
	if err := tx.QueryRow(ctx, `SELECT is_active FROM batches WHERE id=$1`, booking.BatchID).Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBatchNotFound
		}
		return err
	}
	if !active {
		return domain.ErrBatchInactive
	}

	booking.PaymentStatus = domain.PaymentStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, batch_id, preferred_email, payment_status, payment_amount_cents, seat_locked_at, seat_lock_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		booking.ID, booking.BatchID, booking.PreferredEmail, booking.PaymentStatus, booking.PaymentAmountCents, booking.SeatLockedAt, booking.SeatLockExpiresAt).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// Complete flips a booking to completed, stamping the provider transaction id
// and payer email. The transition is conditional: it holds the batch row lock
// so that the completed count can never pass max_seats, and it only fires for
// pending or expired bookings (payment truth wins over the soft lock timer).
// An already-completed booking returns ErrAlreadyCompleted so callers can
// treat duplicate webhook deliveries as a no-op.
func (r *PGBookingRepository) Complete(ctx context.Context, id, paypalOrderID, payerEmail string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var batchID string
	var status domain.PaymentStatus
	if err := tx.QueryRow(ctx, `SELECT batch_id, payment_status FROM bookings WHERE id=$1 FOR UPDATE`, id).Scan(&batchID, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	switch status {
	case domain.PaymentStatusCompleted:
		return nil, domain.ErrAlreadyCompleted
	case domain.PaymentStatusCancelled:
		return nil, domain.ErrBookingCancelled
	}

	var maxSeats int
	if err := tx.QueryRow(ctx, `SELECT max_seats FROM batches WHERE id=$1 FOR UPDATE`, batchID).Scan(&maxSeats); err != nil {
		return nil, err
	}
	var completed int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE batch_id=$1 AND payment_status=$2`, batchID, domain.PaymentStatusCompleted).Scan(&completed); err != nil {
		return nil, err
	}
	if completed >= maxSeats {
		return nil, domain.ErrBatchFull
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET payment_status=$1, paypal_order_id=$2, paypal_email=$3, updated_at=now()
		WHERE id=$4 AND payment_status = ANY($5)
		RETURNING `+bookingColumns,
		domain.PaymentStatusCompleted, paypalOrderID, payerEmail, id,
		[]string{string(domain.PaymentStatusPending), string(domain.PaymentStatusExpired)})
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET payment_status=$1, updated_at=now() WHERE id=$2 AND payment_status=$3 RETURNING `+bookingColumns,
		domain.PaymentStatusCancelled, id, domain.PaymentStatusPending)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET payment_status=$1, updated_at=now() WHERE payment_status=$2 AND seat_lock_expires_at <= $3 RETURNING `+bookingColumns,
		domain.PaymentStatusExpired, domain.PaymentStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.BatchID, &b.PreferredEmail, &b.PaymentStatus, &b.PaymentAmountCents, &b.SeatLockedAt, &b.SeatLockExpiresAt, &b.PayPalOrderID, &b.PayPalEmail, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
