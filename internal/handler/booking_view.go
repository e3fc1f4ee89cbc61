package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// bookingView renders a booking for API responses.  The same shape is
// shared by the customer, hotel and admin surfaces; ownership filtering
// happens before this point.
func bookingView(b *model.Booking) echo.Map {
	v := echo.Map{
		"id":                b.ID,
		"reference":         b.Reference,
		"customer_id":       b.CustomerID,
		"hotel_id":          b.HotelID,
		"room_id":           b.RoomID,
		"check_in":          b.CheckIn.Format(dateLayout),
		"check_out":         b.CheckOut.Format(dateLayout),
		"nights":            b.Nights,
		"adults":            b.Adults,
		"children":          b.Children,
		"infants":           b.Infants,
		"rooms_booked":      b.RoomsBooked,
		"base_cents":        b.BaseCents,
		"tax_cents":         b.TaxCents,
		"service_fee_cents": b.ServiceFeeCents,
		"discount_cents":    b.DiscountCents,
		"total_cents":       b.TotalCents,
		"currency":          b.Currency,
		"deposit_cents":     b.DepositCents,
		"deposit_paid":      b.DepositPaid,
		"status":            b.Status,
		"requests":          b.Requests,
		"created_at":        b.CreatedAt,
	}
	if b.PromoCode != "" {
		v["promo_code"] = b.PromoCode
	}
	if b.ConfirmedAt != nil {
		v["confirmed_at"] = b.ConfirmedAt
	}
	if b.CheckedInAt != nil {
		v["checked_in_at"] = b.CheckedInAt
	}
	if b.CheckedOutAt != nil {
		v["checked_out_at"] = b.CheckedOutAt
	}
	if b.CancelledAt != nil {
		v["cancelled_at"] = b.CancelledAt
		v["cancelled_by"] = b.CancelledBy
		v["cancel_reason"] = b.CancelReason
		v["refund_cents"] = b.RefundCents
		v["refund_status"] = b.RefundStatus
	}
	if b.DamageCents > 0 {
		v["damage_cents"] = b.DamageCents
	}
	return v
}

func bookingViews(bs []*model.Booking) []echo.Map {
	out := make([]echo.Map, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingView(b))
	}
	return out
}
