package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/lending"
	"library-backend/pkg/logger"
)

type lendingService struct {
	repo lending.Repository
}

func NewLendingService(repo lending.Repository) lending.Service {
	return &lendingService{repo: repo}
}

func (s *lendingService) GetStatus(ctx context.Context, bookID uuid.UUID) (lending.Status, error) {
	status, found, err := s.repo.GetStatus(ctx, bookID)
	if err != nil {
		return lending.Status{}, err
	}
	if !found {
		return lending.Status{}, catalog.ErrBookNotFound
	}
	return status, nil
}

func (s *lendingService) Reserve(ctx context.Context, actor, bookID uuid.UUID) (lending.Status, error) {
	return s.apply(ctx, lending.ActionReserve, actor, bookID)
}

func (s *lendingService) CancelReservation(ctx context.Context, actor, bookID uuid.UUID) (lending.Status, error) {
	return s.apply(ctx, lending.ActionCancel, actor, bookID)
}

func (s *lendingService) Borrow(ctx context.Context, actor, bookID uuid.UUID) (lending.Status, error) {
	return s.apply(ctx, lending.ActionBorrow, actor, bookID)
}

func (s *lendingService) ReturnBook(ctx context.Context, actor, bookID uuid.UUID) (lending.Status, error) {
	return s.apply(ctx, lending.ActionReturn, actor, bookID)
}

// apply tries the move as a single compare-and-swap. When nothing was
// swapped, a fresh read decides which error the caller sees.
func (s *lendingService) apply(ctx context.Context, action lending.Action, actor, bookID uuid.UUID) (lending.Status, error) {
	from, to := lending.Plan(action, actor)

	swapped, err := s.repo.CompareAndSwap(ctx, bookID, from, to)
	if err != nil {
		return lending.Status{}, err
	}
	if swapped {
		logger.Info("book status changed", map[string]interface{}{
			"book_id": bookID.String(),
			"user_id": actor.String(),
			"action":  string(action),
			"from":    string(from.State()),
			"to":      string(to.State()),
		})
		return to, nil
	}

	current, found, err := s.repo.GetStatus(ctx, bookID)
	if err != nil {
		return lending.Status{}, err
	}
	if !found {
		return lending.Status{}, catalog.ErrBookNotFound
	}
	if _, err := lending.Transition(current, action, actor); err != nil {
		return lending.Status{}, err
	}

	// CAS thất bại nhưng state hiện tại lại hợp lệ: có request khác chen vào
	return lending.Status{}, lending.ErrConcurrentChange
}

func (s *lendingService) ListReserved(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error) {
	return s.repo.ListHeld(ctx, userID, lending.StateReserved)
}

func (s *lendingService) ListBorrowed(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error) {
	return s.repo.ListHeld(ctx, userID, lending.StateBorrowed)
}
