package lending

import "library-backend/internal/shared/apperr"

var (
	ErrNotAvailable        = apperr.Conflict("BOOK_NOT_AVAILABLE", "book is not available")
	ErrReservedCancelFirst = apperr.Conflict("BOOK_RESERVED", "book is reserved; cancel the reservation first")
	ErrNotReserved         = apperr.Conflict("BOOK_NOT_RESERVED", "book is not reserved")
	ErrNotReserver         = apperr.Conflict("NOT_THE_RESERVER", "not the reserver")
	ErrNotBorrowed         = apperr.Conflict("BOOK_NOT_BORROWED", "book is not borrowed")
	ErrNotBorrower         = apperr.Conflict("NOT_THE_BORROWER", "not the borrower")
	ErrConcurrentChange    = apperr.Conflict("STATUS_CHANGED", "book status changed concurrently")
)
