package handler

// Hotel-side booking lifecycle: confirm, reject, check-in, check-out,
// no-show and cancellation.  Every transition is validated against the
// status state machine before any write; illegal moves come back as
// 409 with a message naming the required source status.

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/queue"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-booking-marketplace/internal/service"
)

// HotelBookingHandler groups repositories for the hotel's booking
// operations.
type HotelBookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
	Hotels   *repository.HotelRepo
}

// NewHotelBookingHandler constructs a HotelBookingHandler.  All
// dependencies must be non-nil.
func NewHotelBookingHandler(bookings *repository.BookingRepo, rooms *repository.RoomRepo, hotels *repository.HotelRepo) *HotelBookingHandler {
	if bookings == nil || rooms == nil || hotels == nil {
		panic("nil repository passed to NewHotelBookingHandler")
	}
	return &HotelBookingHandler{Bookings: bookings, Rooms: rooms, Hotels: hotels}
}

// List handles GET /v1/hotel/bookings.
func (h *HotelBookingHandler) List(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := c.QueryParam("status")
	if status != "" && !booking.Status(status).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Bookings.ListByHotel(c.Request().Context(), hotelID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, listPayload(bookingViews(items), int64(total), page, pageSize))
}

// Get handles GET /v1/hotel/bookings/:id.
func (h *HotelBookingHandler) Get(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetForHotel(c.Request().Context(), id, hotelID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": bookingView(b)})
}

// loadForTransition fetches the booking, enforces ownership and
// validates the requested edge.  On failure it has already written the
// response and returns (nil, non-nil).
func (h *HotelBookingHandler) loadForTransition(c echo.Context, to booking.Status) (*model.Booking, error) {
	hotelID, err := getHotelID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetForHotel(c.Request().Context(), id, hotelID)
	if err != nil {
		return nil, bookingLookupError(c, err)
	}
	if err := booking.Transition(booking.Status(b.Status), to); err != nil {
		return nil, c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return b, nil
}

// Confirm handles POST /v1/hotel/bookings/:id/confirm.  On success a
// BookingConfirmedEvent is published; a broker outage never fails the
// confirmation.
func (h *HotelBookingHandler) Confirm(c echo.Context) error {
	b, errResp := h.loadForTransition(c, booking.StatusConfirmed)
	if b == nil {
		return errResp
	}
	ctx := c.Request().Context()
	if err := h.Bookings.MarkConfirmed(ctx, b.ID); err != nil {
		return transitionWriteError(c, err, "confirm")
	}

	ev := queue.BookingConfirmedEvent{
		BookingID:    b.ID,
		Reference:    b.Reference,
		CustomerID:   b.CustomerID,
		HotelID:      b.HotelID,
		RoomID:       b.RoomID,
		CheckIn:      b.CheckIn.Format(dateLayout),
		CheckOut:     b.CheckOut.Format(dateLayout),
		Nights:       b.Nights,
		RoomsBooked:  b.RoomsBooked,
		TotalCents:   b.TotalCents,
		DepositCents: b.DepositCents,
		ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if hotel, err := h.Hotels.GetByID(ctx, b.HotelID); err == nil {
		ev.HotelName = hotel.Name
	}
	if rm, err := h.Rooms.GetByID(ctx, b.RoomID); err == nil {
		ev.RoomName = rm.Name
	}
	if err := queue_publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		c.Logger().Warnf("booking %d confirmed but event publish failed: %v", b.ID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": string(booking.StatusConfirmed)})
}

// Reject handles POST /v1/hotel/bookings/:id/reject.
func (h *HotelBookingHandler) Reject(c echo.Context) error {
	b, errResp := h.loadForTransition(c, booking.StatusRejected)
	if b == nil {
		return errResp
	}
	if err := h.Bookings.MarkRejected(c.Request().Context(), b.ID); err != nil {
		return transitionWriteError(c, err, "reject")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": string(booking.StatusRejected)})
}

// CheckIn handles POST /v1/hotel/bookings/:id/checkin.  Repeating the
// call on an already checked-in booking is a no-op success so front
// desk retries stay harmless.
func (h *HotelBookingHandler) CheckIn(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetForHotel(ctx, id, hotelID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	if booking.Status(b.Status) == booking.StatusCheckedIn {
		return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": b.Status, "checked_in_at": b.CheckedInAt})
	}
	if err := booking.Transition(booking.Status(b.Status), booking.StatusCheckedIn); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err := h.Bookings.MarkCheckedIn(ctx, b.ID); err != nil {
		return transitionWriteError(c, err, "check-in")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": string(booking.StatusCheckedIn)})
}

// CheckOut handles POST /v1/hotel/bookings/:id/checkout.  Optional
// damage charges are recorded on the ledger at this point.
func (h *HotelBookingHandler) CheckOut(c echo.Context) error {
	var req struct {
		DamageCents int64 `json:"damage_cents"`
	}
	_ = c.Bind(&req)
	if req.DamageCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "damage_cents cannot be negative"})
	}

	b, errResp := h.loadForTransition(c, booking.StatusCheckedOut)
	if b == nil {
		return errResp
	}
	if err := h.Bookings.MarkCheckedOut(c.Request().Context(), b.ID, req.DamageCents); err != nil {
		return transitionWriteError(c, err, "check-out")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           b.ID,
		"status":       string(booking.StatusCheckedOut),
		"damage_cents": req.DamageCents,
	})
}

// NoShow handles POST /v1/hotel/bookings/:id/no-show.  Only a
// confirmed or checked-in stay can be marked; the deposit is
// forfeited.
func (h *HotelBookingHandler) NoShow(c echo.Context) error {
	b, errResp := h.loadForTransition(c, booking.StatusNoShow)
	if b == nil {
		return errResp
	}
	if err := h.Bookings.MarkNoShow(c.Request().Context(), b.ID); err != nil {
		return transitionWriteError(c, err, "no-show")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": string(booking.StatusNoShow)})
}

// Cancel handles POST /v1/hotel/bookings/:id/cancel.  When the hotel
// cancels, the customer is made whole: the refund is the full total
// regardless of how close to check-in the cancellation happens.
func (h *HotelBookingHandler) Cancel(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&req)

	b, errResp := h.loadForTransition(c, booking.StatusCancelled)
	if b == nil {
		return errResp
	}
	refundStatus := booking.RefundPending
	if b.TotalCents <= 0 {
		refundStatus = booking.RefundNotApplicable
	}
	if err := h.Bookings.MarkCancelled(c.Request().Context(), b.ID, booking.CancelledByHotel,
		strings.TrimSpace(req.Reason), b.TotalCents, refundStatus); err != nil {
		return transitionWriteError(c, err, "cancel")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            b.ID,
		"status":        string(booking.StatusCancelled),
		"refund_cents":  b.TotalCents,
		"refund_status": refundStatus,
	})
}
