// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a hotel confirms a booking.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	Reference    string `json:"reference"`
	CustomerID   uint64 `json:"customer_id"`
	HotelID      uint64 `json:"hotel_id"`
	HotelName    string `json:"hotel_name"`
	RoomID       uint64 `json:"room_id"`
	RoomName     string `json:"room_name"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Nights       int    `json:"nights"`
	RoomsBooked  int    `json:"rooms_booked"`
	TotalCents   int64  `json:"total_cents"`
	DepositCents int64  `json:"deposit_cents"`
	ConfirmedAt  string `json:"confirmed_at"`
}
