package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// FavoriteRepo manages the customer's saved-hotels list.
type FavoriteRepo struct {
	DB *sql.DB
}

// NewFavoriteRepo constructs a FavoriteRepo.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add saves a hotel for a customer.  Saving the same hotel twice is
// reported as ErrDuplicate.
func (r *FavoriteRepo) Add(ctx context.Context, customerID, hotelID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO favorites (customer_id, hotel_id) VALUES (?, ?)`, customerID, hotelID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// Remove deletes a saved hotel.  Removing one that was never saved
// returns sql.ErrNoRows.
func (r *FavoriteRepo) Remove(ctx context.Context, customerID, hotelID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM favorites WHERE customer_id = ? AND hotel_id = ?`, customerID, hotelID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListHotels returns the customer's saved hotels, most recently saved
// first, skipping hotels that have since been hidden from customers.
func (r *FavoriteRepo) ListHotels(ctx context.Context, customerID uint64, limit, offset int) ([]*model.Hotel, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites f
		 JOIN hotels h ON h.id = f.hotel_id
		 WHERE f.customer_id = ? AND h.is_verified = 1 AND h.is_active = 1`,
		customerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT h.id, h.owner_id, h.name, h.description, h.city, h.address, h.latitude,
		        h.longitude, h.amenities, h.image_url, h.is_verified, h.is_active,
		        h.rating_average, h.rating_count, h.created_at, h.updated_at
		 FROM favorites f
		 JOIN hotels h ON h.id = f.hotel_id
		 WHERE f.customer_id = ? AND h.is_verified = 1 AND h.is_active = 1
		 ORDER BY f.id DESC LIMIT ? OFFSET ?`, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}
