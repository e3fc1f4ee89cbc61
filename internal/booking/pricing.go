package booking

import (
	"errors"
	"math"
	"strings"
	"time"
)

// All monetary amounts are integer cents.  Percentages are applied
// with float64 arithmetic and rounded half away from zero, matching
// how the totals are presented to clients.

// depositPercent is the fixed share of the total collected up front.
const depositPercent = 20

// ErrUnknownPromo is returned when a promo code is explicitly supplied
// but does not exist in the catalog.  Omitting the code entirely is
// not an error; it simply yields no discount.
var ErrUnknownPromo = errors.New("unknown promo code")

// Promo describes a percentage-of-base discount capped at an absolute
// ceiling in cents.
type Promo struct {
	Code     string
	Percent  int
	CapCents int64
}

// promoCatalog is the fixed set of redeemable codes.
var promoCatalog = map[string]Promo{
	"WELCOME10":  {Code: "WELCOME10", Percent: 10, CapCents: 50_000},
	"SUMMER15":   {Code: "SUMMER15", Percent: 15, CapCents: 75_000},
	"LONGSTAY20": {Code: "LONGSTAY20", Percent: 20, CapCents: 100_000},
}

// LookupPromo resolves a promo code case-insensitively.
func LookupPromo(code string) (Promo, bool) {
	p, ok := promoCatalog[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Discount returns the promo's discount on a base amount, capped at
// the promo's ceiling.  Every discount computation goes through here,
// whether at quote time or when a promo is applied to an existing
// booking.
func (p Promo) Discount(baseCents int64) int64 {
	d := roundCents(float64(baseCents) * float64(p.Percent) / 100)
	if d > p.CapCents {
		d = p.CapCents
	}
	return d
}

// Deposit returns the up-front deposit owed on a total.
func Deposit(totalCents int64) int64 {
	return roundCents(float64(totalCents) * depositPercent / 100)
}

// Nights returns the number of nights charged for the stay.  Any
// partial day rounds up to a full night.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// RateCard is the per-room pricing configuration a quote is computed
// from.  It mirrors the pricing columns on the rooms table.
type RateCard struct {
	BasePriceCents  int64
	TaxPercent      float64
	ServiceFeeCents int64
}

// Quote is the pricing snapshot attached to a booking.  Currency is
// fixed at the system level.
type Quote struct {
	Nights          int    `json:"nights"`
	BaseCents       int64  `json:"base_cents"`
	TaxCents        int64  `json:"tax_cents"`
	ServiceFeeCents int64  `json:"service_fee_cents"`
	DiscountCents   int64  `json:"discount_cents"`
	TotalCents      int64  `json:"total_cents"`
	DepositCents    int64  `json:"deposit_cents"`
	Currency        string `json:"currency"`
	PromoCode       string `json:"promo_code,omitempty"`
}

// NewQuote prices a stay.  promoCode may be empty, in which case no
// discount applies.  A non-empty code that is not in the catalog
// returns ErrUnknownPromo rather than silently pricing without it.
func NewQuote(rc RateCard, checkIn, checkOut time.Time, rooms int, promoCode string) (Quote, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return Quote{}, errors.New("check-out must be after check-in")
	}
	if rooms < 1 {
		return Quote{}, errors.New("at least one room required")
	}

	base := rc.BasePriceCents * int64(nights) * int64(rooms)
	tax := roundCents(float64(base) * rc.TaxPercent / 100)

	var discount int64
	var applied string
	if strings.TrimSpace(promoCode) != "" {
		p, ok := LookupPromo(promoCode)
		if !ok {
			return Quote{}, ErrUnknownPromo
		}
		discount = p.Discount(base)
		applied = p.Code
	}

	total := base + tax + rc.ServiceFeeCents - discount
	return Quote{
		Nights:          nights,
		BaseCents:       base,
		TaxCents:        tax,
		ServiceFeeCents: rc.ServiceFeeCents,
		DiscountCents:   discount,
		TotalCents:      total,
		DepositCents:    Deposit(total),
		Currency:        "USD",
		PromoCode:       applied,
	}, nil
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
