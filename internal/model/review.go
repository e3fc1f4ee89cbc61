package model

import "time"

// Review is a customer's one-to-one review of a completed stay.  A
// booking carries at most one review, and only bookings that reached
// checked_out or completed are eligible.  Sub-ratings are optional.
// Only approved reviews feed the hotel's denormalized rating cache.
type Review struct {
	ID          uint64    // reviews.id
	BookingID   uint64    // reviews.booking_id (unique)
	CustomerID  uint64    // reviews.customer_id
	HotelID     uint64    // reviews.hotel_id
	Rating      int       // reviews.rating (1-5 overall)
	Cleanliness *int      // reviews.cleanliness (nullable, 1-5)
	Comfort     *int      // reviews.comfort (nullable, 1-5)
	Location    *int      // reviews.location (nullable, 1-5)
	Service     *int      // reviews.service (nullable, 1-5)
	Comment     string    // reviews.comment
	IsApproved  bool      // reviews.is_approved
	CreatedAt   time.Time // reviews.created_at
	UpdatedAt   time.Time // reviews.updated_at
}
