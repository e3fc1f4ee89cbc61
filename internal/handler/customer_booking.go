package handler

// Customer booking endpoints: quoting, creating, modifying and
// cancelling stays.  Creation and modification run inside a room-lock
// transaction (WithRoomLock), so two customers racing for the last
// unit serialize and exactly one of them wins.

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
	"github.com/iliyamo/hotel-booking-marketplace/internal/utils"
)

// referenceRetries bounds regeneration attempts on a reference clash.
const referenceRetries = 3

// bookingLedger is the slice of the booking repository the customer
// booking handler depends on.  Tests substitute a func-field fake.
type bookingLedger interface {
	WithRoomLock(ctx context.Context, roomID uint64, fn func(tx *sql.Tx, rm *model.Room) error) error
	CommittedRoomsTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error)
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	UpdateStayTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error)
	GetForCustomer(ctx context.Context, id, customerID uint64) (*model.Booking, error)
	ListByCustomer(ctx context.Context, customerID uint64, status string, limit, offset int) ([]*model.Booking, int, error)
	MarkCancelled(ctx context.Context, id uint64, by, reason string, refundCents int64, refundStatus string) error
	ApplyPromo(ctx context.Context, id uint64, promoCode string, discountCents, totalCents, depositCents int64) error
	SetDepositPaid(ctx context.Context, id uint64) error
}

// roomCatalog is the room lookup the handler needs outside the lock.
type roomCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
}

// hotelCatalog resolves customer-visible hotels.
type hotelCatalog interface {
	GetVisibleByID(ctx context.Context, id uint64) (*model.Hotel, error)
}

// CustomerBookingHandler groups repositories for the customer booking
// flows.
type CustomerBookingHandler struct {
	Bookings bookingLedger
	Rooms    roomCatalog
	Hotels   hotelCatalog
}

// NewCustomerBookingHandler constructs a CustomerBookingHandler.  All
// dependencies must be non-nil.
func NewCustomerBookingHandler(bookings bookingLedger, rooms roomCatalog, hotels hotelCatalog) *CustomerBookingHandler {
	if bookings == nil || rooms == nil || hotels == nil {
		panic("nil repository passed to NewCustomerBookingHandler")
	}
	return &CustomerBookingHandler{Bookings: bookings, Rooms: rooms, Hotels: hotels}
}

type stayReq struct {
	RoomID    uint64 `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Rooms     int    `json:"rooms"`
	Adults    int    `json:"adults"`
	Children  int    `json:"children"`
	Infants   int    `json:"infants"`
	PromoCode string `json:"promo_code"`
	Requests  string `json:"requests"`
}

// validateOccupancy checks the guest counts against the room limits
// scaled by the number of units booked.
func validateOccupancy(rm *model.Room, req *stayReq) error {
	if req.Rooms < 1 {
		return errors.New("rooms must be at least 1")
	}
	if req.Adults < 1 {
		return errors.New("at least one adult required")
	}
	if req.Children < 0 || req.Infants < 0 {
		return errors.New("guest counts cannot be negative")
	}
	if req.Adults > rm.MaxAdults*req.Rooms {
		return errors.New("too many adults for the requested rooms")
	}
	if req.Children > rm.MaxChildren*req.Rooms {
		return errors.New("too many children for the requested rooms")
	}
	if req.Infants > rm.MaxInfants*req.Rooms {
		return errors.New("too many infants for the requested rooms")
	}
	return nil
}

// Quote handles POST /v1/bookings/quote.  It prices a stay without
// creating anything and without holding inventory.  Rooms of hidden
// hotels are not quotable, matching the create path.
func (h *CustomerBookingHandler) Quote(c echo.Context) error {
	var req stayReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}
	in, out, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	rm, err := h.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	if _, err := h.Hotels.GetVisibleByID(ctx, rm.HotelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel is not bookable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"})
	}
	if err := validateOccupancy(rm, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	q, err := booking.NewQuote(rateCard(rm), in, out, req.Rooms, req.PromoCode)
	if err != nil {
		if errors.Is(err, booking.ErrUnknownPromo) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown promo code"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"quote": q})
}

func rateCard(rm *model.Room) booking.RateCard {
	return booking.RateCard{
		BasePriceCents:  rm.BasePriceCents,
		TaxPercent:      rm.TaxPercent,
		ServiceFeeCents: rm.ServiceFeeCents,
	}
}

// errHandled signals that a WithRoomLock closure already wrote the
// HTTP response; the transaction rolls back and the outer code must
// not write a second one.
var errHandled = errors.New("response already written")

// handled wraps a response written inside a lock closure.
func handled(err error) error {
	if err != nil {
		return err
	}
	return errHandled
}

// Create handles POST /v1/bookings.  The room row stays locked for the
// whole transaction; the committed-rooms count therefore cannot change
// between the capacity check and the insert.
func (h *CustomerBookingHandler) Create(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req stayReq
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}
	return h.create(c, customerID, &req)
}

// create runs the locked create flow for both Create and Rebook.
func (h *CustomerBookingHandler) create(c echo.Context, customerID uint64, req *stayReq) error {
	in, out, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if in.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in cannot be in the past"})
	}

	ctx := c.Request().Context()
	var b *model.Booking
	err = h.Bookings.WithRoomLock(ctx, req.RoomID, func(tx *sql.Tx, rm *model.Room) error {
		if !rm.IsActive || !rm.IsAvailable {
			return handled(c.JSON(http.StatusConflict, echo.Map{"error": "room is not bookable"}))
		}
		hotel, err := h.Hotels.GetVisibleByID(ctx, rm.HotelID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return handled(c.JSON(http.StatusConflict, echo.Map{"error": "hotel is not bookable"}))
			}
			return handled(c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"}))
		}
		if err := validateOccupancy(rm, req); err != nil {
			return handled(c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()}))
		}

		held, err := h.Bookings.CommittedRoomsTx(ctx, tx, rm.ID, in, out, 0)
		if err != nil {
			return handled(c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"}))
		}
		if booking.RemainingRooms(rm.TotalRooms, held) < req.Rooms {
			return handled(c.JSON(http.StatusConflict, echo.Map{"error": "not enough rooms available for the selected dates"}))
		}

		q, err := booking.NewQuote(rateCard(rm), in, out, req.Rooms, req.PromoCode)
		if err != nil {
			if errors.Is(err, booking.ErrUnknownPromo) {
				return handled(c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown promo code"}))
			}
			return handled(c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()}))
		}

		b = &model.Booking{
			CustomerID:      customerID,
			HotelID:         hotel.ID,
			RoomID:          rm.ID,
			CheckIn:         in,
			CheckOut:        out,
			Nights:          q.Nights,
			Adults:          req.Adults,
			Children:        req.Children,
			Infants:         req.Infants,
			RoomsBooked:     req.Rooms,
			BaseCents:       q.BaseCents,
			TaxCents:        q.TaxCents,
			ServiceFeeCents: q.ServiceFeeCents,
			DiscountCents:   q.DiscountCents,
			TotalCents:      q.TotalCents,
			Currency:        q.Currency,
			DepositCents:    q.DepositCents,
			PromoCode:       q.PromoCode,
			Status:          string(booking.StatusPending),
			RefundStatus:    booking.RefundNotApplicable,
			Requests:        strings.TrimSpace(req.Requests),
		}
		for attempt := 0; ; attempt++ {
			b.Reference = utils.NewBookingReference()
			err = h.Bookings.CreateTx(ctx, tx, b)
			if err == nil {
				return nil
			}
			if errors.Is(err, repository.ErrDuplicate) && attempt < referenceRetries {
				continue
			}
			return handled(c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"}))
		}
	})
	if err != nil {
		if errors.Is(err, errHandled) {
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": bookingView(b)})
}

// Rebook handles POST /v1/bookings/:id/rebook.  It creates a fresh
// pending booking for the same room and party as a finished or
// cancelled stay.  Dates are taken from the body; guest counts, room
// count and promo default to the source booking but can be overridden.
func (h *CustomerBookingHandler) Rebook(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body stayReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	src, err := h.Bookings.GetForCustomer(c.Request().Context(), id, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	st := booking.Status(src.Status)
	if st.HoldsInventory() || st == booking.StatusCheckedIn {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is still active; modify it instead"})
	}

	req := stayReq{
		RoomID:    src.RoomID,
		CheckIn:   body.CheckIn,
		CheckOut:  body.CheckOut,
		Rooms:     src.RoomsBooked,
		Adults:    src.Adults,
		Children:  src.Children,
		Infants:   src.Infants,
		PromoCode: body.PromoCode,
		Requests:  body.Requests,
	}
	if body.Rooms > 0 {
		req.Rooms = body.Rooms
	}
	if body.Adults > 0 {
		req.Adults = body.Adults
		req.Children = body.Children
		req.Infants = body.Infants
	}
	return h.create(c, customerID, &req)
}

// List handles GET /v1/bookings for the authenticated customer.  An
// optional ?status= filter narrows the result.
func (h *CustomerBookingHandler) List(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := c.QueryParam("status")
	if status != "" && !booking.Status(status).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Bookings.ListByCustomer(c.Request().Context(), customerID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, listPayload(bookingViews(items), int64(total), page, pageSize))
}

// Get handles GET /v1/bookings/:id.
func (h *CustomerBookingHandler) Get(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetForCustomer(c.Request().Context(), id, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": bookingView(b)})
}

// bookingLookupError translates repository lookup failures into HTTP
// responses shared by all booking detail endpoints.
func bookingLookupError(c echo.Context, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
}

// transitionWriteError maps a failed guarded transition write.  The
// edge was validated in memory, so a conflict here means the booking
// moved between the read and the write.
func transitionWriteError(c echo.Context, err error, action string) error {
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking status changed, reload and retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": action + " failed"})
}

// Modify handles PUT /v1/bookings/:id.  Pending and confirmed bookings
// can be modified; the dates, guest counts and room count can change,
// the room cannot.  The pricing snapshot is recomputed at current room
// rates.  The discount is dropped unless the promo code is re-sent in
// the request, so a modified stay is never silently cheaper than it
// should be.
func (h *CustomerBookingHandler) Modify(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req stayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, out, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	src, err := h.Bookings.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}

	var b *model.Booking
	err = h.Bookings.WithRoomLock(ctx, src.RoomID, func(tx *sql.Tx, rm *model.Room) error {
		// Re-read under the lock; the pre-lock copy only located the room.
		b, err = h.Bookings.GetByIDTx(ctx, tx, id)
		if err != nil {
			return handled(bookingLookupError(c, err))
		}
		st := booking.Status(b.Status)
		if st != booking.StatusPending && st != booking.StatusConfirmed {
			return handled(c.JSON(http.StatusConflict, echo.Map{"error": "only pending or confirmed bookings can be modified"}))
		}
		if err := validateOccupancy(rm, &req); err != nil {
			return handled(c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()}))
		}

		// Exclude this booking's own hold so shrinking or shifting the
		// stay never conflicts with itself.
		held, err := h.Bookings.CommittedRoomsTx(ctx, tx, rm.ID, in, out, b.ID)
		if err != nil {
			return handled(c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"}))
		}
		if booking.RemainingRooms(rm.TotalRooms, held) < req.Rooms {
			return handled(c.JSON(http.StatusConflict, echo.Map{"error": "not enough rooms available for the selected dates"}))
		}

		q, err := booking.NewQuote(rateCard(rm), in, out, req.Rooms, req.PromoCode)
		if err != nil {
			if errors.Is(err, booking.ErrUnknownPromo) {
				return handled(c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown promo code"}))
			}
			return handled(c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()}))
		}

		b.CheckIn, b.CheckOut, b.Nights = in, out, q.Nights
		b.Adults, b.Children, b.Infants = req.Adults, req.Children, req.Infants
		b.RoomsBooked = req.Rooms
		b.BaseCents, b.TaxCents, b.ServiceFeeCents = q.BaseCents, q.TaxCents, q.ServiceFeeCents
		b.DiscountCents, b.TotalCents, b.DepositCents = q.DiscountCents, q.TotalCents, q.DepositCents
		b.PromoCode = q.PromoCode
		if strings.TrimSpace(req.Requests) != "" {
			b.Requests = strings.TrimSpace(req.Requests)
		}

		if err := h.Bookings.UpdateStayTx(ctx, tx, b); err != nil {
			return handled(c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"}))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errHandled) {
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": bookingView(b)})
}

// Cancel handles POST /v1/bookings/:id/cancel.  The refund follows the
// tiered policy based on how far ahead of check-in the cancellation
// happens.
func (h *CustomerBookingHandler) Cancel(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	b, err := h.Bookings.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	if err := booking.Transition(booking.Status(b.Status), booking.StatusCancelled); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	refund, refundStatus := booking.RefundAmount(b.TotalCents, b.CheckIn, time.Now().UTC())
	if err := h.Bookings.MarkCancelled(ctx, b.ID, booking.CancelledByCustomer, strings.TrimSpace(req.Reason), refund, refundStatus); err != nil {
		return transitionWriteError(c, err, "cancel")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            b.ID,
		"status":        string(booking.StatusCancelled),
		"refund_cents":  refund,
		"refund_status": refundStatus,
	})
}

// ApplyPromo handles POST /v1/bookings/:id/promo.  A promo can be
// applied to a pending booking that does not already carry one.
func (h *CustomerBookingHandler) ApplyPromo(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		PromoCode string `json:"promo_code"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PromoCode) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "promo_code required"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	if b.Status != string(booking.StatusPending) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "promo codes can only be applied to pending bookings"})
	}
	if b.PromoCode != "" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a promo code is already applied"})
	}
	p, ok := booking.LookupPromo(req.PromoCode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown promo code"})
	}

	discount := p.Discount(b.BaseCents)
	total := b.BaseCents + b.TaxCents + b.ServiceFeeCents - discount
	deposit := booking.Deposit(total)

	if err := h.Bookings.ApplyPromo(ctx, b.ID, p.Code, discount, total, deposit); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply promo failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             b.ID,
		"promo_code":     p.Code,
		"discount_cents": discount,
		"total_cents":    total,
		"deposit_cents":  deposit,
	})
}

// PayDeposit handles POST /v1/bookings/:id/deposit.  It records the
// deposit as collected; payment processing itself happens outside this
// system.
func (h *CustomerBookingHandler) PayDeposit(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	if !booking.Status(b.Status).HoldsInventory() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting a deposit"})
	}
	if b.DepositPaid {
		return c.JSON(http.StatusConflict, echo.Map{"error": "deposit already paid"})
	}
	if err := h.Bookings.SetDepositPaid(ctx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record deposit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "deposit_paid": true, "deposit_cents": b.DepositCents})
}
