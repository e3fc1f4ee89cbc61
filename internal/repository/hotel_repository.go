package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// HotelRepo provides hotel-table operations.  Each HOTEL-role user
// owns at most one hotel (unique key on owner_id), so the profile API
// is an upsert keyed by owner.
type HotelRepo struct {
	DB *sql.DB
}

// NewHotelRepo constructs a HotelRepo.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{DB: db} }

const hotelColumns = `id, owner_id, name, description, city, address, latitude, longitude,
	amenities, image_url, is_verified, is_active, rating_average, rating_count,
	created_at, updated_at`

func scanHotel(row interface{ Scan(...any) error }) (*model.Hotel, error) {
	var h model.Hotel
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.City, &h.Address,
		&h.Latitude, &h.Longitude, &h.Amenities, &h.ImageURL, &h.IsVerified, &h.IsActive,
		&h.RatingAverage, &h.RatingCount, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByID fetches a hotel by primary key.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	return scanHotel(r.DB.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id))
}

// GetVisibleByID fetches a hotel only if it is verified and active,
// i.e. visible to customers.
func (r *HotelRepo) GetVisibleByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	return scanHotel(r.DB.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE id = ? AND is_verified = 1 AND is_active = 1`, id))
}

// GetByOwner fetches the hotel owned by the given user.
func (r *HotelRepo) GetByOwner(ctx context.Context, ownerID uint64) (*model.Hotel, error) {
	return scanHotel(r.DB.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE owner_id = ?`, ownerID))
}

// Upsert creates the owner's hotel profile on first save and updates
// it afterwards.  New hotels start unverified; editing the profile
// never touches the verification or rating columns.
func (r *HotelRepo) Upsert(ctx context.Context, h *model.Hotel) error {
	existing, err := r.GetByOwner(ctx, h.OwnerID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err == sql.ErrNoRows {
		const q = `INSERT INTO hotels (owner_id, name, description, city, address, latitude, longitude, amenities, image_url, is_verified, is_active)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 1)`
		res, err := r.DB.ExecContext(ctx, q, h.OwnerID, h.Name, h.Description, h.City,
			h.Address, h.Latitude, h.Longitude, h.Amenities, h.ImageURL)
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
		h.ID = uint64(id)
		return nil
	}

	const q = `UPDATE hotels SET name = ?, description = ?, city = ?, address = ?,
	           latitude = ?, longitude = ?, amenities = ?, image_url = ? WHERE id = ?`
	_, err = r.DB.ExecContext(ctx, q, h.Name, h.Description, h.City, h.Address,
		h.Latitude, h.Longitude, h.Amenities, h.ImageURL, existing.ID)
	if err != nil {
		return err
	}
	h.ID = existing.ID
	return nil
}

// SetVerified flips the admin verification flag.
func (r *HotelRepo) SetVerified(ctx context.Context, id uint64, verified bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE hotels SET is_verified = ? WHERE id = ?`, verified, id)
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

// SetActive toggles whether the hotel is listed and bookable.
func (r *HotelRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE hotels SET is_active = ? WHERE id = ?`, active, id)
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

// UpdateRating writes the denormalized rating cache.  Called only from
// the review recompute path so the cache always reflects approved
// reviews.
func (r *HotelRepo) UpdateRating(ctx context.Context, id uint64, average float64, count int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE hotels SET rating_average = ?, rating_count = ? WHERE id = ?`, average, count, id)
	return err
}

// List returns a page of hotels for the admin console.  When
// pendingOnly is set only unverified hotels are returned.
func (r *HotelRepo) List(ctx context.Context, pendingOnly bool, limit, offset int) ([]*model.Hotel, int, error) {
	where := ``
	if pendingOnly {
		where = ` WHERE is_verified = 0`
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
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
