package model

import "time"

// Hotel is the aggregate root for rooms.  Each hotel is owned by
// exactly one user with the HOTEL role.  RatingAverage/RatingCount are
// a denormalized cache over approved reviews, kept in sync by an
// explicit recompute after every review mutation.  IsVerified gates
// all hotel-side mutating actions and customer-facing visibility until
// an admin approves the property.
type Hotel struct {
	ID            uint64    // hotels.id
	OwnerID       uint64    // hotels.owner_id (unique, references users.id)
	Name          string    // hotels.name
	Description   string    // hotels.description
	City          string    // hotels.city
	Address       string    // hotels.address
	Latitude      float64   // hotels.latitude
	Longitude     float64   // hotels.longitude
	Amenities     string    // hotels.amenities (comma separated)
	ImageURL      string    // hotels.image_url
	IsVerified    bool      // hotels.is_verified
	IsActive      bool      // hotels.is_active
	RatingAverage float64   // hotels.rating_average (one decimal place)
	RatingCount   int       // hotels.rating_count
	CreatedAt     time.Time // hotels.created_at
	UpdatedAt     time.Time // hotels.updated_at
}
