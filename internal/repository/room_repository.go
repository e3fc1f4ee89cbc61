package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// RoomRepo provides room-table operations.
type RoomRepo struct {
	DB *sql.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomColumns = `id, hotel_id, room_type, name, description, max_adults, max_children,
	max_infants, total_rooms, base_price_cents, tax_percent, service_fee_cents,
	image_url, is_active, is_available, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.HotelID, &rm.RoomType, &rm.Name, &rm.Description,
		&rm.MaxAdults, &rm.MaxChildren, &rm.MaxInfants, &rm.TotalRooms,
		&rm.BasePriceCents, &rm.TaxPercent, &rm.ServiceFeeCents,
		&rm.ImageURL, &rm.IsActive, &rm.IsAvailable, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// Create inserts a new room for a hotel.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (hotel_id, room_type, name, description, max_adults,
	           max_children, max_infants, total_rooms, base_price_cents, tax_percent,
	           service_fee_cents, image_url, is_active, is_available)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 1)`
	res, err := r.DB.ExecContext(ctx, q, rm.HotelID, rm.RoomType, rm.Name, rm.Description,
		rm.MaxAdults, rm.MaxChildren, rm.MaxInfants, rm.TotalRooms,
		rm.BasePriceCents, rm.TaxPercent, rm.ServiceFeeCents, rm.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return nil
}

// GetByID fetches a room by primary key.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return scanRoom(r.DB.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
}

// GetForHotel fetches a room and enforces that it belongs to the given
// hotel.  Returns ErrForbidden on an ownership mismatch.
func (r *RoomRepo) GetForHotel(ctx context.Context, id, hotelID uint64) (*model.Room, error) {
	rm, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm.HotelID != hotelID {
		return nil, ErrForbidden
	}
	return rm, nil
}

// ListByHotel returns rooms of a hotel.  When bookableOnly is set only
// active, available rooms are returned (the customer-facing view).
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64, bookableOnly bool) ([]*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = ?`
	if bookableOnly {
		q += ` AND is_active = 1 AND is_available = 1`
	}
	q += ` ORDER BY base_price_cents ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Update rewrites the mutable room fields.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE rooms SET room_type = ?, name = ?, description = ?, max_adults = ?,
	           max_children = ?, max_infants = ?, total_rooms = ?, base_price_cents = ?,
	           tax_percent = ?, service_fee_cents = ?, image_url = ? WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, q, rm.RoomType, rm.Name, rm.Description,
		rm.MaxAdults, rm.MaxChildren, rm.MaxInfants, rm.TotalRooms,
		rm.BasePriceCents, rm.TaxPercent, rm.ServiceFeeCents, rm.ImageURL, rm.ID)
	return err
}

// SetAvailable toggles the hotel-side availability switch without
// touching existing bookings.
func (r *RoomRepo) SetAvailable(ctx context.Context, id uint64, available bool) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE rooms SET is_available = ? WHERE id = ?`, available, id)
	return err
}

// Delete soft-deletes a room by deactivating it.  The delete is
// refused with ErrConflict while any booking still holds inventory on
// the room, so confirmed guests cannot lose their stay.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	clause, args := holdingStatusClause()
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ? AND status IN `+clause,
		append([]any{id}, args...)...).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE rooms SET is_active = 0, is_available = 0 WHERE id = ?`, id)
	return err
}
