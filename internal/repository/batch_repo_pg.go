package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leopoldus11/vibecoding/internal/domain"
)

type BatchRepository interface {
	List(ctx context.Context) ([]domain.Batch, error)
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	CompletedCount(ctx context.Context, batchID string) (int, error)
	CompletedCounts(ctx context.Context) (map[string]int, error)
}

type PGBatchRepository struct {
	db *pgxpool.Pool
}

func NewBatchRepository(db *pgxpool.Pool) BatchRepository {
	return &PGBatchRepository{db: db}
}

func (r *PGBatchRepository) List(ctx context.Context) ([]domain.Batch, error) {
	rows, err := r.db.Query(ctx, `SELECT id, topic, date, sessions, time_slots, max_seats, is_active, price_cents, created_at, updated_at FROM batches WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]domain.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

func (r *PGBatchRepository) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	row := r.db.QueryRow(ctx, `SELECT id, topic, date, sessions, time_slots, max_seats, is_active, price_cents, created_at, updated_at FROM batches WHERE id=$1`, id)
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBatchRepository) CompletedCount(ctx context.Context, batchID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE batch_id=$1 AND payment_status=$2`, batchID, domain.PaymentStatusCompleted).Scan(&count)
	return count, err
}

func (r *PGBatchRepository) CompletedCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT batch_id, count(*) FROM bookings WHERE payment_status=$1 GROUP BY batch_id`, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var batchID string
		var count int
		if err := rows.Scan(&batchID, &count); err != nil {
			return nil, err
		}
		counts[batchID] = count
	}
	return counts, rows.Err()
}

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var b domain.Batch
	var sessions []byte
	if err := row.Scan(&b.ID, &b.Topic, &b.Date, &sessions, &b.TimeSlots, &b.MaxSeats, &b.IsActive, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &b.Sessions); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

var _ BatchRepository = (*PGBatchRepository)(nil)
