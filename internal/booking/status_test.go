package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_LegalEdges(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCheckedIn},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusNoShow},
		{StatusCheckedIn, StatusCheckedOut},
		{StatusCheckedIn, StatusNoShow},
		{StatusCheckedOut, StatusCompleted},
	}
	for _, tc := range legal {
		assert.NoError(t, Transition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransition_CheckoutFromPendingNamesRequiredState(t *testing.T) {
	err := Transition(StatusPending, StatusCheckedOut)
	require.Error(t, err)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusPending, te.From)
	assert.Equal(t, StatusCheckedOut, te.To)
	assert.Equal(t, []Status{StatusCheckedIn}, te.Required)
	assert.Contains(t, err.Error(), "checked_in")
}

func TestTransition_TerminalStatesHaveNoEdges(t *testing.T) {
	terminals := []Status{StatusCancelled, StatusRejected, StatusCompleted, StatusNoShow}
	all := []Status{
		StatusPending, StatusConfirmed, StatusRejected, StatusCancelled,
		StatusCheckedIn, StatusCheckedOut, StatusCompleted, StatusNoShow,
	}
	for _, term := range terminals {
		assert.True(t, term.Terminal(), "%s should be terminal", term)
		for _, to := range all {
			assert.Error(t, Transition(term, to), "%s -> %s must be rejected", term, to)
		}
	}
}

func TestTransition_NoShowRequiresConfirmedOrCheckedIn(t *testing.T) {
	assert.Error(t, Transition(StatusPending, StatusNoShow))
	assert.Error(t, Transition(StatusCheckedOut, StatusNoShow))
	assert.NoError(t, Transition(StatusConfirmed, StatusNoShow))
	assert.NoError(t, Transition(StatusCheckedIn, StatusNoShow))
}

func TestTransition_UnknownStatus(t *testing.T) {
	err := Transition(Status("archived"), StatusConfirmed)
	require.Error(t, err)
	var te *TransitionError
	assert.False(t, errors.As(err, &te), "unknown statuses are not transition conflicts")
}

func TestHoldsInventory(t *testing.T) {
	assert.True(t, StatusPending.HoldsInventory())
	assert.True(t, StatusConfirmed.HoldsInventory())
	for _, s := range []Status{
		StatusRejected, StatusCancelled, StatusCheckedIn,
		StatusCheckedOut, StatusCompleted, StatusNoShow,
	} {
		assert.False(t, s.HoldsInventory(), "%s must not hold inventory", s)
	}
	assert.Equal(t, []Status{StatusPending, StatusConfirmed}, HoldingStatuses())
}
