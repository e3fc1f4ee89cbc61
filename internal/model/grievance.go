package model

import "time"

// Grievance statuses.
const (
	GrievanceOpen       = "open"
	GrievanceInProgress = "in_progress"
	GrievanceResolved   = "resolved"
	GrievanceDismissed  = "dismissed"
)

// ValidGrievanceStatus reports whether s is a recognised grievance status.
func ValidGrievanceStatus(s string) bool {
	switch s {
	case GrievanceOpen, GrievanceInProgress, GrievanceResolved, GrievanceDismissed:
		return true
	}
	return false
}

// Grievance is a customer support ticket, optionally tied to a
// booking, worked by admins.
type Grievance struct {
	ID          uint64    // grievances.id
	CustomerID  uint64    // grievances.customer_id
	BookingID   *uint64   // grievances.booking_id (nullable)
	Subject     string    // grievances.subject
	Description string    // grievances.description
	Status      string    // grievances.status
	Resolution  string    // grievances.resolution
	CreatedAt   time.Time // grievances.created_at
	UpdatedAt   time.Time // grievances.updated_at
}

// Favorite marks a hotel saved by a customer.  The
// (customer_id, hotel_id) pair is unique.
type Favorite struct {
	ID         uint64    // favorites.id
	CustomerID uint64    // favorites.customer_id
	HotelID    uint64    // favorites.hotel_id
	CreatedAt  time.Time // favorites.created_at
}
