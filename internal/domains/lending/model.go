// Package lending owns the circulation state of a book: who holds it and
// which moves between available, reserved and borrowed are legal.
package lending

import (
	"fmt"

	"github.com/google/uuid"
)

type State string

const (
	StateAvailable State = "available"
	StateReserved  State = "reserved"
	StateBorrowed  State = "borrowed"
)

// Status is the circulation state of one book. The zero value is
// Available; Reserved and Borrowed always carry their holder.
type Status struct {
	state  State
	holder uuid.UUID
}

func Available() Status { return Status{} }

func Reserved(by uuid.UUID) Status { return Status{state: StateReserved, holder: by} }

func Borrowed(by uuid.UUID) Status { return Status{state: StateBorrowed, holder: by} }

func (s Status) State() State {
	if s.state == "" {
		return StateAvailable
	}
	return s.state
}

func (s Status) IsAvailable() bool { return s.State() == StateAvailable }

// Holder returns the reserver or borrower, nil when available.
func (s Status) Holder() *uuid.UUID {
	if s.IsAvailable() {
		return nil
	}
	h := s.holder
	return &h
}

func (s Status) String() string {
	if s.IsAvailable() {
		return string(StateAvailable)
	}
	return fmt.Sprintf("%s(%s)", s.state, s.holder)
}

// StatusFromRecord rebuilds a Status from a book_status row. An absent
// row (empty state) is Available.
func StatusFromRecord(state string, borrower *uuid.UUID) (Status, error) {
	switch State(state) {
	case "", StateAvailable:
		if borrower != nil {
			return Status{}, fmt.Errorf("available record with borrower %s", *borrower)
		}
		return Available(), nil
	case StateReserved, StateBorrowed:
		if borrower == nil || *borrower == uuid.Nil {
			return Status{}, fmt.Errorf("%s record without borrower", state)
		}
		return Status{state: State(state), holder: *borrower}, nil
	default:
		return Status{}, fmt.Errorf("unknown status %q", state)
	}
}

type Action string

const (
	ActionReserve Action = "reserve"
	ActionCancel  Action = "cancel"
	ActionBorrow  Action = "borrow"
	ActionReturn  Action = "return"
)

// Plan returns the only state the action may start from and the state it
// leads to, for the given actor.
func Plan(action Action, actor uuid.UUID) (from, to Status) {
	switch action {
	case ActionReserve:
		return Available(), Reserved(actor)
	case ActionCancel:
		return Reserved(actor), Available()
	case ActionBorrow:
		return Available(), Borrowed(actor)
	case ActionReturn:
		return Borrowed(actor), Available()
	}
	panic(fmt.Sprintf("lending: unknown action %q", action))
}

// Transition applies action to current or explains why it is illegal.
func Transition(current Status, action Action, actor uuid.UUID) (Status, error) {
	from, to := Plan(action, actor)
	if current == from {
		return to, nil
	}

	switch action {
	case ActionReserve:
		return current, ErrNotAvailable
	case ActionBorrow:
		if current.State() == StateReserved {
			return current, ErrReservedCancelFirst
		}
		return current, ErrNotAvailable
	case ActionCancel:
		if current.State() != StateReserved {
			return current, ErrNotReserved
		}
		return current, ErrNotReserver
	default: // ActionReturn
		if current.State() != StateBorrowed {
			return current, ErrNotBorrowed
		}
		return current, ErrNotBorrower
	}
}

// StatusView is the JSON shape of a book's status.
type StatusView struct {
	BookID     uuid.UUID  `json:"book_id"`
	Status     State      `json:"status"`
	BorrowerID *uuid.UUID `json:"borrower_id"`
}

func NewStatusView(bookID uuid.UUID, s Status) StatusView {
	return StatusView{BookID: bookID, Status: s.State(), BorrowerID: s.Holder()}
}
