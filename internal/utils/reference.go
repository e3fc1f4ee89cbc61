package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewBookingReference produces a human-readable booking reference such
// as "HB-9F4C21AB".  Uniqueness is ultimately enforced by the unique
// index on bookings.reference; callers retry on a duplicate-key error.
func NewBookingReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "HB-" + id[:8]
}
