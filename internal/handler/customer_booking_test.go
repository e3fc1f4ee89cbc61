package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// Func-field stubs for the handler's repository interfaces.  Each
// method delegates to its field; tests set only the fields a flow
// touches.

type ledgerStub struct {
	withRoomLock     func(ctx context.Context, roomID uint64, fn func(tx *sql.Tx, rm *model.Room) error) error
	committedRoomsTx func(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error)
	createTx         func(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	updateStayTx     func(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	getByIDTx        func(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error)
	getForCustomer   func(ctx context.Context, id, customerID uint64) (*model.Booking, error)
	listByCustomer   func(ctx context.Context, customerID uint64, status string, limit, offset int) ([]*model.Booking, int, error)
	markCancelled    func(ctx context.Context, id uint64, by, reason string, refundCents int64, refundStatus string) error
	applyPromo       func(ctx context.Context, id uint64, promoCode string, discountCents, totalCents, depositCents int64) error
	setDepositPaid   func(ctx context.Context, id uint64) error
}

func (s *ledgerStub) WithRoomLock(ctx context.Context, roomID uint64, fn func(tx *sql.Tx, rm *model.Room) error) error {
	return s.withRoomLock(ctx, roomID, fn)
}
func (s *ledgerStub) CommittedRoomsTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error) {
	return s.committedRoomsTx(ctx, tx, roomID, checkIn, checkOut, excludeBookingID)
}
func (s *ledgerStub) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	return s.createTx(ctx, tx, b)
}
func (s *ledgerStub) UpdateStayTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	return s.updateStayTx(ctx, tx, b)
}
func (s *ledgerStub) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	return s.getByIDTx(ctx, tx, id)
}
func (s *ledgerStub) GetForCustomer(ctx context.Context, id, customerID uint64) (*model.Booking, error) {
	return s.getForCustomer(ctx, id, customerID)
}
func (s *ledgerStub) ListByCustomer(ctx context.Context, customerID uint64, status string, limit, offset int) ([]*model.Booking, int, error) {
	return s.listByCustomer(ctx, customerID, status, limit, offset)
}
func (s *ledgerStub) MarkCancelled(ctx context.Context, id uint64, by, reason string, refundCents int64, refundStatus string) error {
	return s.markCancelled(ctx, id, by, reason, refundCents, refundStatus)
}
func (s *ledgerStub) ApplyPromo(ctx context.Context, id uint64, promoCode string, discountCents, totalCents, depositCents int64) error {
	return s.applyPromo(ctx, id, promoCode, discountCents, totalCents, depositCents)
}
func (s *ledgerStub) SetDepositPaid(ctx context.Context, id uint64) error {
	return s.setDepositPaid(ctx, id)
}

type roomStub struct {
	getByID func(ctx context.Context, id uint64) (*model.Room, error)
}

func (s *roomStub) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return s.getByID(ctx, id)
}

type hotelStub struct {
	getVisibleByID func(ctx context.Context, id uint64) (*model.Hotel, error)
}

func (s *hotelStub) GetVisibleByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	return s.getVisibleByID(ctx, id)
}

// testRoom returns a bookable two-unit room.
func testRoom() *model.Room {
	return &model.Room{
		ID:             7,
		HotelID:        3,
		Name:           "Garden Twin",
		MaxAdults:      2,
		MaxChildren:    2,
		MaxInfants:     1,
		TotalRooms:     2,
		BasePriceCents: 100_000,
		IsActive:       true,
		IsAvailable:    true,
	}
}

func visibleHotel(ctx context.Context, id uint64) (*model.Hotel, error) {
	return &model.Hotel{ID: id, Name: "Seaside", IsVerified: true, IsActive: true}, nil
}

// lockOn short-circuits WithRoomLock: no transaction, the given room
// handed straight to the closure.
func lockOn(rm *model.Room) func(ctx context.Context, roomID uint64, fn func(tx *sql.Tx, rm *model.Room) error) error {
	return func(ctx context.Context, roomID uint64, fn func(tx *sql.Tx, rm *model.Room) error) error {
		return fn(nil, rm)
	}
}

func jsonCtx(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(42))
	return c, rec
}

func stayBody(rm *model.Room, checkIn, checkOut time.Time) map[string]any {
	return map[string]any{
		"room_id":   rm.ID,
		"check_in":  checkIn.Format(dateLayout),
		"check_out": checkOut.Format(dateLayout),
		"rooms":     1,
		"adults":    2,
	}
}

// ledgerOver builds a ledger stub whose availability counting follows
// the same half-open overlap rule as the SQL query: stays touching at
// a boundary do not overlap, and only pending or confirmed bookings
// hold inventory.
func ledgerOver(store *[]*model.Booking) *ledgerStub {
	s := &ledgerStub{}
	s.committedRoomsTx = func(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error) {
		n := 0
		for _, b := range *store {
			if b.ID == excludeBookingID || b.RoomID != roomID {
				continue
			}
			if !booking.Status(b.Status).HoldsInventory() {
				continue
			}
			if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
				n += b.RoomsBooked
			}
		}
		return n, nil
	}
	s.createTx = func(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
		b.ID = uint64(len(*store) + 1)
		*store = append(*store, b)
		return nil
	}
	return s
}

func TestCreate_CapacityAcrossOverlappingStays(t *testing.T) {
	rm := testRoom() // 2 units
	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 30)

	store := []*model.Booking{}
	ledger := ledgerOver(&store)
	ledger.withRoomLock = lockOn(rm)
	h := NewCustomerBookingHandler(ledger, &roomStub{}, &hotelStub{getVisibleByID: visibleHotel})

	book := func(in, out time.Time) *httptest.ResponseRecorder {
		c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings", stayBody(rm, in, out))
		require.NoError(t, h.Create(c))
		return rec
	}

	// Fill both units for [day, day+2).
	assert.Equal(t, http.StatusCreated, book(day, day.AddDate(0, 0, 2)).Code)
	assert.Equal(t, http.StatusCreated, book(day, day.AddDate(0, 0, 2)).Code)
	require.Len(t, store, 2)

	// A third stay overlapping even one night is rejected.
	rec := book(day.AddDate(0, 0, 1), day.AddDate(0, 0, 3))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough rooms")
	assert.Len(t, store, 2, "rejected request must not insert")

	// Back-to-back is fine: check-in on another stay's check-out day.
	assert.Equal(t, http.StatusCreated, book(day.AddDate(0, 0, 2), day.AddDate(0, 0, 4)).Code)

	// Cancelling one stay frees its unit for the overlapping dates.
	store[0].Status = string(booking.StatusCancelled)
	assert.Equal(t, http.StatusCreated, book(day.AddDate(0, 0, 1), day.AddDate(0, 0, 3)).Code)
}

func TestCreate_RoomFullDoesNotInsert(t *testing.T) {
	rm := testRoom()
	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 10)

	inserted := false
	ledger := &ledgerStub{
		withRoomLock: lockOn(rm),
		committedRoomsTx: func(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error) {
			return rm.TotalRooms, nil
		},
		createTx: func(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
			inserted = true
			return nil
		},
	}
	h := NewCustomerBookingHandler(ledger, &roomStub{}, &hotelStub{getVisibleByID: visibleHotel})

	c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings", stayBody(rm, day, day.AddDate(0, 0, 2)))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, inserted)
}

func TestCreate_HiddenHotelRejected(t *testing.T) {
	rm := testRoom()
	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 10)

	ledger := &ledgerStub{withRoomLock: lockOn(rm)}
	h := NewCustomerBookingHandler(ledger, &roomStub{}, &hotelStub{
		getVisibleByID: func(ctx context.Context, id uint64) (*model.Hotel, error) {
			return nil, sql.ErrNoRows
		},
	})

	c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings", stayBody(rm, day, day.AddDate(0, 0, 2)))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "hotel is not bookable")
}

func TestQuote_HiddenHotelRejected(t *testing.T) {
	rm := testRoom()
	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 10)

	h := NewCustomerBookingHandler(&ledgerStub{}, &roomStub{
		getByID: func(ctx context.Context, id uint64) (*model.Room, error) { return rm, nil },
	}, &hotelStub{
		getVisibleByID: func(ctx context.Context, id uint64) (*model.Hotel, error) {
			return nil, sql.ErrNoRows
		},
	})

	c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings/quote", stayBody(rm, day, day.AddDate(0, 0, 2)))
	require.NoError(t, h.Quote(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "hotel is not bookable")
}

func TestCancel_LostRaceReturnsConflict(t *testing.T) {
	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 10)
	b := &model.Booking{
		ID:         9,
		CustomerID: 42,
		RoomID:     7,
		CheckIn:    day,
		CheckOut:   day.AddDate(0, 0, 2),
		TotalCents: 225_000,
		Status:     string(booking.StatusPending),
	}
	ledger := &ledgerStub{
		getForCustomer: func(ctx context.Context, id, customerID uint64) (*model.Booking, error) {
			return b, nil
		},
		// The hotel confirmed between our read and the write; the
		// guarded UPDATE matched zero rows.
		markCancelled: func(ctx context.Context, id uint64, by, reason string, refundCents int64, refundStatus string) error {
			return repository.ErrConflict
		},
	}
	h := NewCustomerBookingHandler(ledger, &roomStub{}, &hotelStub{getVisibleByID: visibleHotel})

	c, rec := jsonCtx(t, http.MethodPost, "/v1/bookings/9/cancel", map[string]any{"reason": "change of plans"})
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "status changed")
}
