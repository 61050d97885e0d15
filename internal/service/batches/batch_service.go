package batches

import (
	"context"

	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/repository"
)

type BatchUseCase interface {
	List(ctx context.Context) ([]domain.BatchAvailability, error)
	GetByID(ctx context.Context, id string) (*domain.BatchAvailability, error)
}

type Cache interface {
	GetBatchAvailability(ctx context.Context) ([]domain.BatchAvailability, error)
	SetBatchAvailability(ctx context.Context, batches []domain.BatchAvailability) error
}

// BatchService derives seat availability from the booking ledger. Only
// completed bookings count toward "full": pending locks on a near-full batch
// may transiently overcommit, the capacity invariant is enforced at
// completion time.
type BatchService struct {
	repo  repository.BatchRepository
	cache Cache
}

func NewBatchService(repo repository.BatchRepository, cache Cache) *BatchService {
	return &BatchService{repo: repo, cache: cache}
}

func (s *BatchService) List(ctx context.Context) ([]domain.BatchAvailability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBatchAvailability(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	batches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CompletedCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BatchAvailability, 0, len(batches))
	for _, b := range batches {
		out = append(out, domain.BatchAvailability{Batch: b, SeatsLeft: seatsLeft(b.MaxSeats, counts[b.ID])})
	}

	if s.cache != nil {
		_ = s.cache.SetBatchAvailability(ctx, out)
	}
	return out, nil
}

func (s *BatchService) GetByID(ctx context.Context, id string) (*domain.BatchAvailability, error) {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.CompletedCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.BatchAvailability{Batch: *batch, SeatsLeft: seatsLeft(batch.MaxSeats, completed)}, nil
}

// seatsLeft floors at zero: an over-booked batch reads as full, never
// negative.
func seatsLeft(maxSeats, completed int) int {
	left := maxSeats - completed
	if left < 0 {
		return 0
	}
	return left
}

var _ BatchUseCase = (*BatchService)(nil)
