package booking

import "time"

// Refund statuses recorded on the booking once a cancellation has been
// processed.  pending means a nonzero amount awaits payout.
const (
	RefundNotApplicable = "not_applicable"
	RefundPending       = "pending"
	RefundPaid          = "paid"
)

// Actors that may cancel a booking, recorded in the cancellation
// sub-record.
const (
	CancelledByCustomer = "customer"
	CancelledByHotel    = "hotel"
	CancelledByAdmin    = "admin"
)

// RefundPercent returns the tiered refund percentage for a
// cancellation happening `at` for a stay starting at checkIn: more
// than 24h out refunds 80%, more than 12h refunds 50%, anything later
// refunds nothing.
func RefundPercent(checkIn, at time.Time) int {
	hours := checkIn.Sub(at).Hours()
	switch {
	case hours > 24:
		return 80
	case hours > 12:
		return 50
	default:
		return 0
	}
}

// RefundAmount computes the refund in cents for cancelling a booking
// with the given total, together with the resulting refund status.
func RefundAmount(totalCents int64, checkIn, at time.Time) (int64, string) {
	pct := RefundPercent(checkIn, at)
	amount := roundCents(float64(totalCents) * float64(pct) / 100)
	if amount <= 0 {
		return 0, RefundNotApplicable
	}
	return amount, RefundPending
}

// RemainingRooms derives free capacity from the physical room count
// and the rooms committed by overlapping holds, floored at zero.
func RemainingRooms(totalRooms, committed int) int {
	remaining := totalRooms - committed
	if remaining < 0 {
		return 0
	}
	return remaining
}
