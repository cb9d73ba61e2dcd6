package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/lending"
	"library-backend/internal/shared/apperr"
)

// memoryRepository is a compare-and-swap store guarded by one mutex.
type memoryRepository struct {
	mu        sync.Mutex
	published map[uuid.UUID]bool
	status    map[uuid.UUID]lending.Status

	// afterMiss runs once when a swap does not match, to simulate a
	// concurrent writer between the swap and the follow-up read.
	afterMiss func()
}

func newMemoryRepository(books ...uuid.UUID) *memoryRepository {
	r := &memoryRepository{
		published: make(map[uuid.UUID]bool),
		status:    make(map[uuid.UUID]lending.Status),
	}
	for _, b := range books {
		r.published[b] = true
	}
	return r
}

func (r *memoryRepository) GetStatus(_ context.Context, bookID uuid.UUID) (lending.Status, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.published[bookID] {
		return lending.Available(), false, nil
	}
	return r.status[bookID], true, nil
}

func (r *memoryRepository) CompareAndSwap(_ context.Context, bookID uuid.UUID, from, to lending.Status) (bool, error) {
	r.mu.Lock()
	ok := r.published[bookID] && r.status[bookID] == from
	if ok {
		r.status[bookID] = to
	}
	hook := r.afterMiss
	if !ok {
		r.afterMiss = nil
	}
	r.mu.Unlock()

	if !ok && hook != nil {
		hook()
	}
	return ok, nil
}

func (r *memoryRepository) ListHeld(_ context.Context, userID uuid.UUID, state lending.State) ([]catalog.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	books := make([]catalog.Book, 0)
	for id, s := range r.status {
		if s.State() == state && s.Holder() != nil && *s.Holder() == userID {
			books = append(books, catalog.Book{ID: id, Status: string(state), BorrowerID: s.Holder()})
		}
	}
	return books, nil
}

type LendingServiceSuite struct {
	suite.Suite
	ctx   context.Context
	book  uuid.UUID
	alice uuid.UUID
	bob   uuid.UUID
	repo  *memoryRepository
	svc   lending.Service
}

func (s *LendingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.book = uuid.New()
	s.alice = uuid.New()
	s.bob = uuid.New()
	s.repo = newMemoryRepository(s.book)
	s.svc = NewLendingService(s.repo)
}

func (s *LendingServiceSuite) TestNoRecordIsAvailable() {
	status, err := s.svc.GetStatus(s.ctx, s.book)
	s.Require().NoError(err)
	s.Equal(lending.StateAvailable, status.State())
	s.Nil(status.Holder())
}

func (s *LendingServiceSuite) TestUnknownBook() {
	missing := uuid.New()

	_, err := s.svc.GetStatus(s.ctx, missing)
	s.ErrorIs(err, catalog.ErrBookNotFound)

	_, err = s.svc.Reserve(s.ctx, s.alice, missing)
	s.ErrorIs(err, catalog.ErrBookNotFound)
	s.Equal(apperr.KindNotFound, apperr.KindOf(err))
}

func (s *LendingServiceSuite) TestReserveCancelRoundTrip() {
	status, err := s.svc.Reserve(s.ctx, s.alice, s.book)
	s.Require().NoError(err)
	s.Equal(lending.Reserved(s.alice), status)

	status, err = s.svc.CancelReservation(s.ctx, s.alice, s.book)
	s.Require().NoError(err)
	s.Equal(lending.Available(), status)

	current, err := s.svc.GetStatus(s.ctx, s.book)
	s.Require().NoError(err)
	s.Equal(lending.Available(), current)
}

func (s *LendingServiceSuite) TestBorrowReturnRoundTrip() {
	_, err := s.svc.Borrow(s.ctx, s.alice, s.book)
	s.Require().NoError(err)

	loans, err := s.svc.ListBorrowed(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Len(loans, 1)

	_, err = s.svc.ReturnBook(s.ctx, s.alice, s.book)
	s.Require().NoError(err)

	current, err := s.svc.GetStatus(s.ctx, s.book)
	s.Require().NoError(err)
	s.True(current.IsAvailable())
}

func (s *LendingServiceSuite) TestOtherUserCannotCancelOrReturn() {
	_, err := s.svc.Reserve(s.ctx, s.alice, s.book)
	s.Require().NoError(err)

	_, err = s.svc.CancelReservation(s.ctx, s.bob, s.book)
	s.ErrorIs(err, lending.ErrNotReserver)
	current, _ := s.svc.GetStatus(s.ctx, s.book)
	s.Equal(lending.Reserved(s.alice), current)

	_, err = s.svc.Borrow(s.ctx, s.bob, s.book)
	s.ErrorIs(err, lending.ErrReservedCancelFirst)

	_, err = s.svc.CancelReservation(s.ctx, s.alice, s.book)
	s.Require().NoError(err)
	_, err = s.svc.Borrow(s.ctx, s.alice, s.book)
	s.Require().NoError(err)

	_, err = s.svc.ReturnBook(s.ctx, s.bob, s.book)
	s.ErrorIs(err, lending.ErrNotBorrower)
	current, _ = s.svc.GetStatus(s.ctx, s.book)
	s.Equal(lending.Borrowed(s.alice), current)
}

func (s *LendingServiceSuite) TestIllegalMovesOnAvailable() {
	_, err := s.svc.CancelReservation(s.ctx, s.alice, s.book)
	s.ErrorIs(err, lending.ErrNotReserved)

	_, err = s.svc.ReturnBook(s.ctx, s.alice, s.book)
	s.ErrorIs(err, lending.ErrNotBorrowed)
	s.Equal(apperr.KindConflict, apperr.KindOf(err))
}

func (s *LendingServiceSuite) TestLostRaceReportedAsConcurrentChange() {
	_, err := s.svc.Reserve(s.ctx, s.bob, s.book)
	s.Require().NoError(err)

	// bob cancels between alice's failed swap and the follow-up read
	s.repo.afterMiss = func() {
		_, err := s.svc.CancelReservation(s.ctx, s.bob, s.book)
		s.Require().NoError(err)
	}

	_, err = s.svc.Reserve(s.ctx, s.alice, s.book)
	s.ErrorIs(err, lending.ErrConcurrentChange)
}

func TestLendingServiceSuite(t *testing.T) {
	suite.Run(t, new(LendingServiceSuite))
}

func TestConcurrentReservesExactlyOneWins(t *testing.T) {
	book := uuid.New()
	svc := NewLendingService(newMemoryRepository(book))

	const n = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Reserve(context.Background(), uuid.New(), book)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if apperr.KindOf(err) == apperr.KindConflict {
				conflicts++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	status, err := svc.GetStatus(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, lending.StateReserved, status.State())
}
