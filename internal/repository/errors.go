// Package repository implements the data access layer over MySQL.
// Sentinel errors defined here let handlers distinguish failure
// scenarios without inspecting SQL error strings: ErrForbidden maps to
// HTTP 403, ErrConflict to 409, ErrDuplicate to 409 on unique-key
// collisions.  sql.ErrNoRows is passed through for not-found cases.
package repository

import (
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a room that still has bookings
// holding inventory.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned on unique-key collisions (booking
// reference, favorite pair, one review per booking).
var ErrDuplicate = errors.New("duplicate")

// isDuplicateKey detects a MySQL 1062 duplicate-entry error.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// holdingStatusClause renders the inventory-holding statuses as a SQL
// IN clause fragment with its args.  Every query that counts committed
// rooms must use this so the definition of "holds inventory" lives in
// exactly one place (booking.Status.HoldsInventory).
func holdingStatusClause() (string, []any) {
	statuses := booking.HoldingStatuses()
	ph := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		ph[i] = "?"
		args[i] = string(s)
	}
	return "(" + strings.Join(ph, ",") + ")", args
}
