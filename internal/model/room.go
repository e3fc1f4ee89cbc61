package model

import "time"

// Room type categories.
const (
	RoomTypeStandard  = "standard"
	RoomTypeDeluxe    = "deluxe"
	RoomTypeSuite     = "suite"
	RoomTypeFamily    = "family"
	RoomTypeExecutive = "executive"
)

// ValidRoomType reports whether t is a recognised room category.
func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeFamily, RoomTypeExecutive:
		return true
	}
	return false
}

// Room describes one bookable room type within a hotel.  TotalRooms is
// the physical inventory count for the type; availability for a date
// range is TotalRooms minus the rooms committed by overlapping holds,
// never below zero.  Pricing columns feed the quote computation.
type Room struct {
	ID              uint64    // rooms.id
	HotelID         uint64    // rooms.hotel_id
	RoomType        string    // rooms.room_type
	Name            string    // rooms.name
	Description     string    // rooms.description
	MaxAdults       int       // rooms.max_adults
	MaxChildren     int       // rooms.max_children
	MaxInfants      int       // rooms.max_infants
	TotalRooms      int       // rooms.total_rooms (>= 0)
	BasePriceCents  int64     // rooms.base_price_cents (per night)
	TaxPercent      float64   // rooms.tax_percent
	ServiceFeeCents int64     // rooms.service_fee_cents (flat per booking)
	ImageURL        string    // rooms.image_url
	IsActive        bool      // rooms.is_active
	IsAvailable     bool      // rooms.is_available (hotel-side toggle)
	CreatedAt       time.Time // rooms.created_at
	UpdatedAt       time.Time // rooms.updated_at
}
