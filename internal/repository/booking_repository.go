package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// BookingRepo provides booking-ledger operations.  Availability is
// never stored; it is computed on demand as total_rooms minus the sum
// of rooms_booked across overlapping bookings in a holding status.
//
// Creation and modification run under WithRoomLock: the room row is
// locked (SELECT ... FOR UPDATE), committed rooms are recounted under
// that lock, then the insert or update happens in the same
// transaction.  Two concurrent requests for the last unit serialize on
// the room row and the loser sees the winner's hold.
type BookingRepo struct {
	DB *sql.DB
}

// NewBookingRepo constructs a BookingRepo.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// WithRoomLock runs fn inside a transaction that holds the room row
// lock (SELECT ... FOR UPDATE).  The transaction commits when fn
// returns nil and rolls back otherwise, so the capacity count and the
// writes fn performs cannot interleave with a concurrent request for
// the same room.  Every create/modify path goes through here.
func (r *BookingRepo) WithRoomLock(ctx context.Context, roomID uint64, fn func(tx *sql.Tx, rm *model.Room) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rm, err := scanRoom(tx.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ? FOR UPDATE`, roomID))
	if err != nil {
		return err
	}
	if err := fn(tx, rm); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const overlapCond = `check_in < ? AND check_out > ?`

// CommittedRoomsTx sums the room units held by bookings that overlap
// [checkIn, checkOut) on the given room, inside the caller's
// transaction.  Two stays overlap when one starts before the other
// ends; a check-out day never blocks a same-day check-in because
// check_out is exclusive.  excludeBookingID lets a modification ignore
// its own current hold; pass 0 otherwise.
func (r *BookingRepo) CommittedRoomsTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (int, error) {
	clause, statusArgs := holdingStatusClause()
	q := `SELECT COALESCE(SUM(rooms_booked), 0) FROM bookings
	      WHERE room_id = ? AND status IN ` + clause + ` AND ` + overlapCond
	args := append([]any{roomID}, statusArgs...)
	args = append(args, checkOut, checkIn)
	if excludeBookingID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeBookingID)
	}
	var committed int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&committed); err != nil {
		return 0, err
	}
	return committed, nil
}

// CommittedRooms is the lock-free variant used by read-only
// availability endpoints, where a slightly stale answer is acceptable.
func (r *BookingRepo) CommittedRooms(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (int, error) {
	clause, statusArgs := holdingStatusClause()
	q := `SELECT COALESCE(SUM(rooms_booked), 0) FROM bookings
	      WHERE room_id = ? AND status IN ` + clause + ` AND ` + overlapCond
	args := append([]any{roomID}, statusArgs...)
	args = append(args, checkOut, checkIn)
	var committed int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&committed); err != nil {
		return 0, err
	}
	return committed, nil
}

// CreateTx inserts a new booking inside the caller's transaction and
// fills in the generated ID.  A clash on the unique reference is
// reported as ErrDuplicate so the caller can regenerate and retry.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, customer_id, hotel_id, room_id,
	           check_in, check_out, nights, adults, children, infants, rooms_booked,
	           base_cents, tax_cents, service_fee_cents, discount_cents, total_cents,
	           currency, deposit_cents, deposit_paid, promo_code, status,
	           refund_cents, refund_status, damage_cents, requests)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, 0, ?, 0, ?)`
	res, err := tx.ExecContext(ctx, q, b.Reference, b.CustomerID, b.HotelID, b.RoomID,
		b.CheckIn, b.CheckOut, b.Nights, b.Adults, b.Children, b.Infants, b.RoomsBooked,
		b.BaseCents, b.TaxCents, b.ServiceFeeCents, b.DiscountCents, b.TotalCents,
		b.Currency, b.DepositCents, b.PromoCode, b.Status, b.RefundStatus, b.Requests)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// UpdateStayTx rewrites the stay parameters and pricing snapshot of a
// pending booking inside the caller's transaction.  Used by the
// customer modification flow after revalidating availability.
func (r *BookingRepo) UpdateStayTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings SET check_in = ?, check_out = ?, nights = ?,
	           adults = ?, children = ?, infants = ?, rooms_booked = ?,
	           base_cents = ?, tax_cents = ?, service_fee_cents = ?, discount_cents = ?,
	           total_cents = ?, deposit_cents = ?, promo_code = ?, requests = ?
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, b.CheckIn, b.CheckOut, b.Nights,
		b.Adults, b.Children, b.Infants, b.RoomsBooked,
		b.BaseCents, b.TaxCents, b.ServiceFeeCents, b.DiscountCents,
		b.TotalCents, b.DepositCents, b.PromoCode, b.Requests, b.ID)
	return err
}

const bookingColumns = `id, reference, customer_id, hotel_id, room_id, check_in, check_out,
	nights, adults, children, infants, rooms_booked, base_cents, tax_cents,
	service_fee_cents, discount_cents, total_cents, currency, deposit_cents,
	deposit_paid, promo_code, status, confirmed_at, checked_in_at, checked_out_at,
	cancelled_at, cancelled_by, cancel_reason, refund_cents, refund_status,
	damage_cents, requests, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.HotelID, &b.RoomID,
		&b.CheckIn, &b.CheckOut, &b.Nights, &b.Adults, &b.Children, &b.Infants,
		&b.RoomsBooked, &b.BaseCents, &b.TaxCents, &b.ServiceFeeCents, &b.DiscountCents,
		&b.TotalCents, &b.Currency, &b.DepositCents, &b.DepositPaid, &b.PromoCode,
		&b.Status, &b.ConfirmedAt, &b.CheckedInAt, &b.CheckedOutAt,
		&b.CancelledAt, &b.CancelledBy, &b.CancelReason, &b.RefundCents, &b.RefundStatus,
		&b.DamageCents, &b.Requests, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID fetches a booking by primary key.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return scanBooking(r.DB.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
}

// GetByIDTx fetches a booking inside a transaction.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
}

// GetForCustomer fetches a booking and enforces customer ownership.
func (r *BookingRepo) GetForCustomer(ctx context.Context, id, customerID uint64) (*model.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	return b, nil
}

// GetForHotel fetches a booking and enforces hotel ownership.
func (r *BookingRepo) GetForHotel(ctx context.Context, id, hotelID uint64) (*model.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.HotelID != hotelID {
		return nil, ErrForbidden
	}
	return b, nil
}

// list runs a filtered, paginated ledger query.  where must start with
// " WHERE" or be empty.
func (r *BookingRepo) list(ctx context.Context, where string, args []any, limit, offset int) ([]*model.Booking, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// ListByCustomer returns a customer's bookings newest first, optionally
// filtered by status.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64, status string, limit, offset int) ([]*model.Booking, int, error) {
	where := ` WHERE customer_id = ?`
	args := []any{customerID}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	return r.list(ctx, where, args, limit, offset)
}

// ListByHotel returns a hotel's bookings newest first, optionally
// filtered by status.
func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID uint64, status string, limit, offset int) ([]*model.Booking, int, error) {
	where := ` WHERE hotel_id = ?`
	args := []any{hotelID}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	return r.list(ctx, where, args, limit, offset)
}

// ListAll returns bookings across the platform for the admin console.
func (r *BookingRepo) ListAll(ctx context.Context, status string, limit, offset int) ([]*model.Booking, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		where = ` WHERE status = ?`
		args = append(args, status)
	}
	return r.list(ctx, where, args, limit, offset)
}

// sourceStatusClause renders the legal source states of a transition
// as a SQL IN clause fragment with its args.  The set comes straight
// from the transition table so it is never re-enumerated here.
func sourceStatusClause(to booking.Status) (string, []any) {
	sources := booking.RequiredSources(to)
	ph := make([]string, len(sources))
	args := make([]any, len(sources))
	for i, s := range sources {
		ph[i] = "?"
		args[i] = string(s)
	}
	return "(" + strings.Join(ph, ",") + ")", args
}

// markTransition runs a status-transition UPDATE guarded by the legal
// source states.  The handlers validate the edge in memory first, but
// the row may have moved between that read and this write; the guard
// makes the write itself refuse an illegal edge, reported as
// ErrConflict so the caller re-reads and retries.
func (r *BookingRepo) markTransition(ctx context.Context, id uint64, to booking.Status, set string, setArgs []any) error {
	clause, guardArgs := sourceStatusClause(to)
	q := `UPDATE bookings SET status = ?` + set + ` WHERE id = ? AND status IN ` + clause
	args := append([]any{string(to)}, setArgs...)
	args = append(args, id)
	args = append(args, guardArgs...)
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkConfirmed moves a pending booking to confirmed and stamps
// confirmed_at.
func (r *BookingRepo) MarkConfirmed(ctx context.Context, id uint64) error {
	return r.markTransition(ctx, id, booking.StatusConfirmed,
		`, confirmed_at = UTC_TIMESTAMP()`, nil)
}

// MarkRejected moves a pending booking to rejected.
func (r *BookingRepo) MarkRejected(ctx context.Context, id uint64) error {
	return r.markTransition(ctx, id, booking.StatusRejected, ``, nil)
}

// MarkCheckedIn moves a confirmed booking to checked_in and stamps
// checked_in_at.
func (r *BookingRepo) MarkCheckedIn(ctx context.Context, id uint64) error {
	return r.markTransition(ctx, id, booking.StatusCheckedIn,
		`, checked_in_at = UTC_TIMESTAMP()`, nil)
}

// MarkCheckedOut moves a checked-in booking to checked_out, stamps
// checked_out_at and records any damage charges.
func (r *BookingRepo) MarkCheckedOut(ctx context.Context, id uint64, damageCents int64) error {
	return r.markTransition(ctx, id, booking.StatusCheckedOut,
		`, checked_out_at = UTC_TIMESTAMP(), damage_cents = ?`, []any{damageCents})
}

// MarkNoShow moves a confirmed or checked-in booking to no_show.  The
// deposit is forfeited, so the refund columns stay untouched.
func (r *BookingRepo) MarkNoShow(ctx context.Context, id uint64) error {
	return r.markTransition(ctx, id, booking.StatusNoShow, ``, nil)
}

// MarkCompleted moves a checked-out booking to completed, making it
// eligible for a review.
func (r *BookingRepo) MarkCompleted(ctx context.Context, id uint64) error {
	return r.markTransition(ctx, id, booking.StatusCompleted, ``, nil)
}

// MarkCancelled moves a pending or confirmed booking to cancelled and
// records who cancelled it, why, and the computed refund.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64, by, reason string, refundCents int64, refundStatus string) error {
	const set = `, cancelled_at = UTC_TIMESTAMP(), cancelled_by = ?, cancel_reason = ?,
	           refund_cents = ?, refund_status = ?`
	return r.markTransition(ctx, id, booking.StatusCancelled, set,
		[]any{by, reason, refundCents, refundStatus})
}

// SetDepositPaid records that the deposit has been collected.
func (r *BookingRepo) SetDepositPaid(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET deposit_paid = 1 WHERE id = ?`, id)
	return err
}

// ApplyPromo rewrites the discount columns after a promo code is
// applied to a pending booking.
func (r *BookingRepo) ApplyPromo(ctx context.Context, id uint64, promoCode string, discountCents, totalCents, depositCents int64) error {
	const q = `UPDATE bookings SET promo_code = ?, discount_cents = ?, total_cents = ?,
	           deposit_cents = ? WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, q, promoCode, discountCents, totalCents, depositCents, id)
	return err
}
