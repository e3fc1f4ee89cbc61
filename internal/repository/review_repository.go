package repository

import (
	"context"
	"database/sql"
	"math"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// ReviewRepo provides review-table operations and keeps the hotel
// rating cache in sync.  Every mutation path (create, update, delete,
// moderation) must be followed by RecomputeHotelRating; the cache is
// never adjusted incrementally.
type ReviewRepo struct {
	DB     *sql.DB
	Hotels *HotelRepo
}

// NewReviewRepo constructs a ReviewRepo.
func NewReviewRepo(db *sql.DB, hotels *HotelRepo) *ReviewRepo {
	return &ReviewRepo{DB: db, Hotels: hotels}
}

const reviewColumns = `id, booking_id, customer_id, hotel_id, rating, cleanliness,
	comfort, location, service, comment, is_approved, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*model.Review, error) {
	var v model.Review
	err := row.Scan(&v.ID, &v.BookingID, &v.CustomerID, &v.HotelID, &v.Rating,
		&v.Cleanliness, &v.Comfort, &v.Location, &v.Service, &v.Comment,
		&v.IsApproved, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a review.  The unique key on booking_id enforces one
// review per booking; a second attempt is reported as ErrDuplicate.
// New reviews start approved and are hidden only if an admin pulls
// them.
func (r *ReviewRepo) Create(ctx context.Context, v *model.Review) error {
	const q = `INSERT INTO reviews (booking_id, customer_id, hotel_id, rating,
	           cleanliness, comfort, location, service, comment, is_approved)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	res, err := r.DB.ExecContext(ctx, q, v.BookingID, v.CustomerID, v.HotelID, v.Rating,
		v.Cleanliness, v.Comfort, v.Location, v.Service, v.Comment)
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
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a review by primary key.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	return scanReview(r.DB.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
}

// GetForCustomer fetches a review and enforces author ownership.
func (r *ReviewRepo) GetForCustomer(ctx context.Context, id, customerID uint64) (*model.Review, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.CustomerID != customerID {
		return nil, ErrForbidden
	}
	return v, nil
}

// Update rewrites the rating fields and comment of a review.
func (r *ReviewRepo) Update(ctx context.Context, v *model.Review) error {
	const q = `UPDATE reviews SET rating = ?, cleanliness = ?, comfort = ?,
	           location = ?, service = ?, comment = ? WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, q, v.Rating, v.Cleanliness, v.Comfort,
		v.Location, v.Service, v.Comment, v.ID)
	return err
}

// Delete removes a review.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

// SetApproved flips the moderation flag.
func (r *ReviewRepo) SetApproved(ctx context.Context, id uint64, approved bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE reviews SET is_approved = ? WHERE id = ?`, approved, id)
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

// ListByHotel returns approved reviews of a hotel, newest first.
func (r *ReviewRepo) ListByHotel(ctx context.Context, hotelID uint64, limit, offset int) ([]*model.Review, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE hotel_id = ? AND is_approved = 1`, hotelID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE hotel_id = ? AND is_approved = 1
		 ORDER BY id DESC LIMIT ? OFFSET ?`, hotelID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectReviews(rows, total)
}

// ListByCustomer returns all reviews written by a customer.
func (r *ReviewRepo) ListByCustomer(ctx context.Context, customerID uint64, limit, offset int) ([]*model.Review, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE customer_id = ?`, customerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE customer_id = ?
		 ORDER BY id DESC LIMIT ? OFFSET ?`, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectReviews(rows, total)
}

// ListAll returns every review for the admin moderation queue.
func (r *ReviewRepo) ListAll(ctx context.Context, limit, offset int) ([]*model.Review, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectReviews(rows, total)
}

func collectReviews(rows *sql.Rows, total int) ([]*model.Review, int, error) {
	var out []*model.Review
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

// AverageRating reduces a set of overall ratings to the cached
// (average, count) pair.  The average is rounded to one decimal place;
// an empty set yields (0, 0).
func AverageRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range ratings {
		sum += v
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*10) / 10, len(ratings)
}

// RecomputeHotelRating reloads every approved rating of a hotel and
// rewrites the hotel's rating cache from scratch.
func (r *ReviewRepo) RecomputeHotelRating(ctx context.Context, hotelID uint64) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT rating FROM reviews WHERE hotel_id = ? AND is_approved = 1`, hotelID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	avg, count := AverageRating(ratings)
	return r.Hotels.UpdateRating(ctx, hotelID, avg, count)
}
