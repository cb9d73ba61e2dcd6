package lending

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusZeroValueIsAvailable(t *testing.T) {
	var s Status
	assert.Equal(t, Available(), s)
	assert.Equal(t, StateAvailable, s.State())
	assert.Nil(t, s.Holder())
	assert.Equal(t, "available", s.String())
}

func TestStatusHolder(t *testing.T) {
	u := uuid.New()
	s := Reserved(u)
	require.NotNil(t, s.Holder())
	assert.Equal(t, u, *s.Holder())
	assert.Equal(t, StateReserved, s.State())
	assert.NotEqual(t, Reserved(u), Borrowed(u))
	assert.NotEqual(t, Reserved(u), Reserved(uuid.New()))
}

func TestStatusFromRecord(t *testing.T) {
	u := uuid.New()

	s, err := StatusFromRecord("", nil)
	require.NoError(t, err)
	assert.Equal(t, Available(), s)

	s, err = StatusFromRecord("available", nil)
	require.NoError(t, err)
	assert.Equal(t, Available(), s)

	s, err = StatusFromRecord("borrowed", &u)
	require.NoError(t, err)
	assert.Equal(t, Borrowed(u), s)

	_, err = StatusFromRecord("reserved", nil)
	assert.Error(t, err)
	_, err = StatusFromRecord("available", &u)
	assert.Error(t, err)
	_, err = StatusFromRecord("lost", &u)
	assert.Error(t, err)
}

func TestTransition(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()

	cases := []struct {
		name    string
		current Status
		action  Action
		actor   uuid.UUID
		want    Status
		err     error
	}{
		{"reserve available", Available(), ActionReserve, alice, Reserved(alice), nil},
		{"reserve reserved", Reserved(bob), ActionReserve, alice, Reserved(bob), ErrNotAvailable},
		{"reserve borrowed", Borrowed(bob), ActionReserve, alice, Borrowed(bob), ErrNotAvailable},
		{"cancel own", Reserved(alice), ActionCancel, alice, Available(), nil},
		{"cancel other", Reserved(bob), ActionCancel, alice, Reserved(bob), ErrNotReserver},
		{"cancel available", Available(), ActionCancel, alice, Available(), ErrNotReserved},
		{"cancel borrowed", Borrowed(alice), ActionCancel, alice, Borrowed(alice), ErrNotReserved},
		{"borrow available", Available(), ActionBorrow, alice, Borrowed(alice), nil},
		{"borrow reserved by self", Reserved(alice), ActionBorrow, alice, Reserved(alice), ErrReservedCancelFirst},
		{"borrow reserved by other", Reserved(bob), ActionBorrow, alice, Reserved(bob), ErrReservedCancelFirst},
		{"borrow borrowed", Borrowed(bob), ActionBorrow, alice, Borrowed(bob), ErrNotAvailable},
		{"return own", Borrowed(alice), ActionReturn, alice, Available(), nil},
		{"return other", Borrowed(bob), ActionReturn, alice, Borrowed(bob), ErrNotBorrower},
		{"return available", Available(), ActionReturn, alice, Available(), ErrNotBorrowed},
		{"return reserved", Reserved(alice), ActionReturn, alice, Reserved(alice), ErrNotBorrowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.current, tc.action, tc.actor)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlanUnknownActionPanics(t *testing.T) {
	assert.Panics(t, func() { Plan(Action("burn"), uuid.New()) })
}

func TestNewStatusView(t *testing.T) {
	book, u := uuid.New(), uuid.New()

	v := NewStatusView(book, Available())
	assert.Equal(t, StateAvailable, v.Status)
	assert.Nil(t, v.BorrowerID)

	v = NewStatusView(book, Borrowed(u))
	assert.Equal(t, StateBorrowed, v.Status)
	assert.Equal(t, &u, v.BorrowerID)
}
