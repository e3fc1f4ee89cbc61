package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		expected int
	}{
		{"two full nights", date(2025, 6, 1), date(2025, 6, 3), 2},
		{"single night", date(2025, 6, 1), date(2025, 6, 2), 1},
		{"partial day rounds up", date(2025, 6, 1), time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), 2},
		{"zero-length range", date(2025, 6, 1), date(2025, 6, 1), 0},
		{"inverted range", date(2025, 6, 3), date(2025, 6, 1), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Nights(tc.in, tc.out))
		})
	}
}

func TestNewQuote_TwoNightExample(t *testing.T) {
	// $1000/night, 10% tax, $50 service fee, 2 nights, 1 room.
	rc := RateCard{BasePriceCents: 100_000, TaxPercent: 10, ServiceFeeCents: 5_000}

	q, err := NewQuote(rc, date(2025, 6, 1), date(2025, 6, 3), 1, "")
	require.NoError(t, err)

	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, int64(200_000), q.BaseCents)
	assert.Equal(t, int64(20_000), q.TaxCents)
	assert.Equal(t, int64(5_000), q.ServiceFeeCents)
	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Equal(t, int64(225_000), q.TotalCents)
	assert.Equal(t, int64(45_000), q.DepositCents) // 20% of total
	assert.Equal(t, "USD", q.Currency)
}

func TestNewQuote_PromoCapped(t *testing.T) {
	// Base of $6000: 10% would be $600, capped at $500.
	rc := RateCard{BasePriceCents: 100_000, TaxPercent: 0}

	q, err := NewQuote(rc, date(2025, 7, 1), date(2025, 7, 7), 1, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, int64(600_000), q.BaseCents)
	assert.Equal(t, int64(50_000), q.DiscountCents)
	assert.Equal(t, "WELCOME10", q.PromoCode)
	assert.Equal(t, int64(550_000), q.TotalCents)
}

func TestNewQuote_PromoUnderCap(t *testing.T) {
	rc := RateCard{BasePriceCents: 50_000, TaxPercent: 0}

	q, err := NewQuote(rc, date(2025, 7, 1), date(2025, 7, 3), 1, "welcome10")
	require.NoError(t, err)
	// 10% of $1000 = $100, well under the $500 cap; codes are case-insensitive.
	assert.Equal(t, int64(10_000), q.DiscountCents)
}

func TestNewQuote_UnknownPromoRejected(t *testing.T) {
	rc := RateCard{BasePriceCents: 100_000}

	_, err := NewQuote(rc, date(2025, 7, 1), date(2025, 7, 3), 1, "FAKE20")
	assert.ErrorIs(t, err, ErrUnknownPromo)

	// Omitting the code is not an error and yields no discount.
	q, err := NewQuote(rc, date(2025, 7, 1), date(2025, 7, 3), 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.DiscountCents)
}

func TestNewQuote_MultipleRooms(t *testing.T) {
	rc := RateCard{BasePriceCents: 80_000, TaxPercent: 12.5, ServiceFeeCents: 2_500}

	q, err := NewQuote(rc, date(2025, 8, 10), date(2025, 8, 13), 3, "")
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, int64(720_000), q.BaseCents) // 800 * 3 nights * 3 rooms
	assert.Equal(t, int64(90_000), q.TaxCents)
	assert.Equal(t, int64(812_500), q.TotalCents)
	assert.Equal(t, int64(162_500), q.DepositCents)
}

func TestNewQuote_InvalidInputs(t *testing.T) {
	rc := RateCard{BasePriceCents: 100_000}

	_, err := NewQuote(rc, date(2025, 6, 3), date(2025, 6, 1), 1, "")
	assert.Error(t, err, "inverted range")

	_, err = NewQuote(rc, date(2025, 6, 1), date(2025, 6, 1), 1, "")
	assert.Error(t, err, "zero nights")

	_, err = NewQuote(rc, date(2025, 6, 1), date(2025, 6, 3), 0, "")
	assert.Error(t, err, "zero rooms")
}

func TestPromoDiscount(t *testing.T) {
	p, ok := LookupPromo("WELCOME10")
	require.True(t, ok)

	// 10% of $6000 is $600, capped at $500.
	assert.Equal(t, int64(50_000), p.Discount(600_000))
	// 10% of $1000 stays under the cap.
	assert.Equal(t, int64(10_000), p.Discount(100_000))
}

func TestDeposit(t *testing.T) {
	assert.Equal(t, int64(45_000), Deposit(225_000))
	assert.Equal(t, int64(0), Deposit(0))
	// Rounds half away from zero: 20% of $1.01 is 20.2 cents.
	assert.Equal(t, int64(20), Deposit(101))
}

func TestLookupPromo(t *testing.T) {
	p, ok := LookupPromo(" longstay20 ")
	require.True(t, ok)
	assert.Equal(t, 20, p.Percent)
	assert.Equal(t, int64(100_000), p.CapCents)

	_, ok = LookupPromo("FAKE20")
	assert.False(t, ok)
}
