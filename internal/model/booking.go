package model

import "time"

// Booking is one row in the append-mostly booking ledger.  A booking
// is never deleted; it is only transitioned through its status machine
// or annotated.  Reference is assigned at creation and immutable.
// Dates are DATE columns interpreted in UTC; Nights is recomputed on
// every date mutation.  Pricing fields snapshot the quote at creation
// or last modification.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – human-readable unique booking reference.
//  CustomerID      – user who booked.
//  HotelID         – hotel being booked (denormalized from the room).
//  RoomID          – room type being booked.
//  CheckIn         – arrival date (inclusive).
//  CheckOut        – departure date (exclusive; strictly after CheckIn).
//  Nights          – ceil((CheckOut-CheckIn)/24h).
//  Adults          – adult guest count (>= 1).
//  Children        – child guest count.
//  Infants         – infant guest count.
//  RoomsBooked     – number of room units reserved (>= 1).
//  BaseCents..DepositCents – pricing snapshot in cents.
//  PromoCode       – promo applied to the snapshot, if any.
//  DepositPaid     – whether the deposit has been collected.
//  Status          – current lifecycle status (see internal/booking).
//  ConfirmedAt     – when the hotel confirmed.
//  CheckedInAt     – actual check-in timestamp.
//  CheckedOutAt    – actual check-out timestamp.
//  CancelledAt/CancelledBy/CancelReason – cancellation sub-record.
//  RefundCents     – refund computed at cancellation time.
//  RefundStatus    – not_applicable | pending | paid.
//  DamageCents     – damage charges recorded at check-out.
//  Requests        – free-text additional requests.
type Booking struct {
	ID              uint64     // bookings.id
	Reference       string     // bookings.reference (unique)
	CustomerID      uint64     // bookings.customer_id
	HotelID         uint64     // bookings.hotel_id
	RoomID          uint64     // bookings.room_id
	CheckIn         time.Time  // bookings.check_in
	CheckOut        time.Time  // bookings.check_out
	Nights          int        // bookings.nights
	Adults          int        // bookings.adults
	Children        int        // bookings.children
	Infants         int        // bookings.infants
	RoomsBooked     int        // bookings.rooms_booked
	BaseCents       int64      // bookings.base_cents
	TaxCents        int64      // bookings.tax_cents
	ServiceFeeCents int64      // bookings.service_fee_cents
	DiscountCents   int64      // bookings.discount_cents
	TotalCents      int64      // bookings.total_cents
	Currency        string     // bookings.currency
	DepositCents    int64      // bookings.deposit_cents
	DepositPaid     bool       // bookings.deposit_paid
	PromoCode       string     // bookings.promo_code
	Status          string     // bookings.status
	ConfirmedAt     *time.Time // bookings.confirmed_at (nullable)
	CheckedInAt     *time.Time // bookings.checked_in_at (nullable)
	CheckedOutAt    *time.Time // bookings.checked_out_at (nullable)
	CancelledAt     *time.Time // bookings.cancelled_at (nullable)
	CancelledBy     string     // bookings.cancelled_by (customer|hotel|admin)
	CancelReason    string     // bookings.cancel_reason
	RefundCents     int64      // bookings.refund_cents
	RefundStatus    string     // bookings.refund_status
	DamageCents     int64      // bookings.damage_cents
	Requests        string     // bookings.requests
	CreatedAt       time.Time  // bookings.created_at
	UpdatedAt       time.Time  // bookings.updated_at
}
