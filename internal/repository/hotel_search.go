package repository

import (
	"context"
	"strings"
	"time"
)

// HotelSearchQuery defines filters & pagination for searching hotels.
// CheckIn/CheckOut are optional; when both are set, only hotels with at
// least one bookable room that still has free units on every night of
// the stay are returned.
type HotelSearchQuery struct {
	City          string
	Name          string
	Amenities     []string
	MinRating     float64
	MinPriceCents int64
	MaxPriceCents int64
	CheckIn       time.Time
	CheckOut      time.Time
	Page          int
	PageSize      int
}

// PublicHotelRow is the customer-facing search result shape.
type PublicHotelRow struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	City          string  `json:"city"`
	Address       string  `json:"address"`
	Amenities     string  `json:"amenities"`
	ImageURL      string  `json:"image_url"`
	RatingAverage float64 `json:"rating_average"`
	RatingCount   int     `json:"rating_count"`
	MinPriceCents int64   `json:"min_price_cents"`
	MinPriceNight float64 `json:"min_price_per_night"`
}

// Search runs the customer hotel search.  Only verified, active hotels
// with at least one bookable room participate; price filters apply to
// the cheapest bookable room of each hotel.
func (r *HotelRepo) Search(ctx context.Context, q HotelSearchQuery) ([]PublicHotelRow, int64, error) {
	where := []string{"h.is_verified = 1", "h.is_active = 1"}
	args := []any{}

	if q.City != "" {
		where = append(where, "LOWER(h.city) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.City)+"%")
	}
	if q.Name != "" {
		where = append(where, "LOWER(h.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	for _, a := range q.Amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		where = append(where, "LOWER(h.amenities) LIKE ?")
		args = append(args, "%"+strings.ToLower(a)+"%")
	}
	if q.MinRating > 0 {
		where = append(where, "h.rating_average >= ?")
		args = append(args, q.MinRating)
	}

	// Room subquery conditions shared by the price filter and the
	// availability filter.
	roomCond := "r.hotel_id = h.id AND r.is_active = 1 AND r.is_available = 1"
	roomArgs := []any{}
	if q.MinPriceCents > 0 {
		roomCond += " AND r.base_price_cents >= ?"
		roomArgs = append(roomArgs, q.MinPriceCents)
	}
	if q.MaxPriceCents > 0 {
		roomCond += " AND r.base_price_cents <= ?"
		roomArgs = append(roomArgs, q.MaxPriceCents)
	}

	if !q.CheckIn.IsZero() && !q.CheckOut.IsZero() {
		clause, statusArgs := holdingStatusClause()
		where = append(where, `EXISTS (SELECT 1 FROM rooms r WHERE `+roomCond+`
			AND r.total_rooms > (
				SELECT COALESCE(SUM(b.rooms_booked), 0) FROM bookings b
				WHERE b.room_id = r.id AND b.status IN `+clause+`
				AND b.check_in < ? AND b.check_out > ?))`)
		args = append(args, roomArgs...)
		args = append(args, statusArgs...)
		args = append(args, q.CheckOut, q.CheckIn)
	} else {
		where = append(where, `EXISTS (SELECT 1 FROM rooms r WHERE `+roomCond+`)`)
		args = append(args, roomArgs...)
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM hotels h WHERE ` + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			h.id,
			h.name,
			h.city,
			h.address,
			h.amenities,
			h.image_url,
			h.rating_average,
			h.rating_count,
			COALESCE((SELECT MIN(r.base_price_cents) FROM rooms r
				WHERE r.hotel_id = h.id AND r.is_active = 1 AND r.is_available = 1), 0) AS min_price_cents
		FROM hotels h
		WHERE ` + cond + `
		ORDER BY h.rating_average DESC, h.id ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicHotelRow, 0, limit)
	for rows.Next() {
		var d PublicHotelRow
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.City,
			&d.Address,
			&d.Amenities,
			&d.ImageURL,
			&d.RatingAverage,
			&d.RatingCount,
			&d.MinPriceCents,
		); err != nil {
			return nil, 0, err
		}
		d.MinPriceNight = float64(d.MinPriceCents) / 100.0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
