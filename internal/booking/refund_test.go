package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundAmount_Tiers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		hoursAhead time.Duration
		total      int64
		amount     int64
		status     string
	}{
		{"30h out refunds 80%", 30 * time.Hour, 100_000, 80_000, RefundPending},
		{"18h out refunds 50%", 18 * time.Hour, 100_000, 50_000, RefundPending},
		{"6h out refunds nothing", 6 * time.Hour, 100_000, 0, RefundNotApplicable},
		{"exactly 24h falls into 50% tier", 24 * time.Hour, 100_000, 50_000, RefundPending},
		{"exactly 12h refunds nothing", 12 * time.Hour, 100_000, 0, RefundNotApplicable},
		{"after check-in refunds nothing", -2 * time.Hour, 100_000, 0, RefundNotApplicable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, status := RefundAmount(tc.total, now.Add(tc.hoursAhead), now)
			assert.Equal(t, tc.amount, amount)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestRemainingRooms(t *testing.T) {
	assert.Equal(t, 3, RemainingRooms(5, 2))
	assert.Equal(t, 0, RemainingRooms(5, 5))
	// Overbooked inventory floors at zero, never goes negative.
	assert.Equal(t, 0, RemainingRooms(5, 7))
	assert.Equal(t, 0, RemainingRooms(0, 0))
}
