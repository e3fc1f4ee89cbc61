package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
)

// The status guard on transition UPDATEs must mirror the transition
// table exactly; a write from any other source state affects zero rows
// and surfaces as ErrConflict.
func TestSourceStatusClause(t *testing.T) {
	tests := []struct {
		to      booking.Status
		clause  string
		sources []any
	}{
		{booking.StatusConfirmed, "(?)", []any{"pending"}},
		{booking.StatusRejected, "(?)", []any{"pending"}},
		{booking.StatusCheckedIn, "(?)", []any{"confirmed"}},
		{booking.StatusCheckedOut, "(?)", []any{"checked_in"}},
		{booking.StatusCompleted, "(?)", []any{"checked_out"}},
		{booking.StatusCancelled, "(?,?)", []any{"pending", "confirmed"}},
		{booking.StatusNoShow, "(?,?)", []any{"confirmed", "checked_in"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.to), func(t *testing.T) {
			clause, args := sourceStatusClause(tc.to)
			assert.Equal(t, tc.clause, clause)
			assert.Equal(t, tc.sources, args)
		})
	}
}
