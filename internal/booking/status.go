// Package booking holds the pure business rules of the booking
// lifecycle: the status state machine, the pricing engine and the
// cancellation refund policy.  Nothing in this package touches the
// database or the network, which keeps every rule unit-testable.
package booking

import (
	"fmt"
	"strings"
)

// Status enumerates the lifecycle states of a booking.  A booking is
// created in StatusPending and only moves along the edges declared in
// the transition table below.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusNoShow     Status = "no_show"
)

// transitions maps each status to the set of statuses it may move to.
// Terminal statuses have no entry.  no_show is deliberately restricted
// to confirmed and checked_in: a guest who never arrived must have had
// a confirmed stay, and a guest who checked out can no longer be a
// no-show.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusCheckedOut, StatusNoShow},
	StatusCheckedOut: {StatusCompleted},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled,
		StatusCheckedIn, StatusCheckedOut, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// HoldsInventory reports whether a booking in this status counts
// against room capacity.  Every SQL filter over committed inventory
// must be built from this predicate (via HoldingStatuses) instead of
// re-enumerating status strings at the call site.  A cancelled or
// rejected booking releases its rooms simply by no longer matching.
func (s Status) HoldsInventory() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// HoldingStatuses returns the statuses that hold inventory, in a
// stable order suitable for building SQL IN clauses.
func HoldingStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

// stateOrder fixes the iteration order over the transition table so
// error messages are deterministic.
var stateOrder = []Status{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut}

// RequiredSources returns the statuses from which `to` may be entered.
func RequiredSources(to Status) []Status {
	var out []Status
	for _, from := range stateOrder {
		for _, t := range transitions[from] {
			if t == to {
				out = append(out, from)
			}
		}
	}
	return out
}

// CanTransition reports whether moving from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionError reports an illegal status transition.  It names the
// required source states so handlers can surface an actionable 409
// message ("check-out requires status checked_in, booking is pending").
type TransitionError struct {
	From     Status
	To       Status
	Required []Status
}

func (e *TransitionError) Error() string {
	req := make([]string, 0, len(e.Required))
	for _, s := range e.Required {
		req = append(req, string(s))
	}
	return fmt.Sprintf("cannot move booking from %s to %s: requires status %s",
		e.From, e.To, strings.Join(req, " or "))
}

// Transition validates the edge from -> to and returns a
// *TransitionError when it is illegal.  It never mutates anything;
// callers apply the side effects (timestamps, refunds) themselves once
// the edge is approved.
func Transition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("unknown booking status %q -> %q", from, to)
	}
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to, Required: RequiredSources(to)}
	}
	return nil
}
