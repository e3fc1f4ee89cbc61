package handler

// Public browsing endpoints.  Everything here is unauthenticated and
// shows only verified, active hotels.  These routes sit behind the
// Redis response cache, so they must stay side-effect free.

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// PublicHandler groups repositories for unauthenticated browsing.
type PublicHandler struct {
	Hotels   *repository.HotelRepo
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
	Reviews  *repository.ReviewRepo
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must
// be non-nil.
func NewPublicHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo, reviews *repository.ReviewRepo) *PublicHandler {
	if hotels == nil || rooms == nil || bookings == nil || reviews == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Hotels: hotels, Rooms: rooms, Bookings: bookings, Reviews: reviews}
}

// SearchHotels handles GET /v1/hotels.  Supported query parameters:
// city, name, amenities (comma separated), min_rating, min_price,
// max_price (both in cents), check_in, check_out (YYYY-MM-DD), page,
// page_size.  When both dates are given, only hotels with a room that
// still has free units for the whole stay are returned.
func (h *PublicHandler) SearchHotels(c echo.Context) error {
	page, pageSize := pageParams(c)
	q := repository.HotelSearchQuery{
		City:     c.QueryParam("city"),
		Name:     c.QueryParam("name"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.QueryParam("amenities"); raw != "" {
		q.Amenities = strings.Split(raw, ",")
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_rating"})
		}
		q.MinRating = v
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		q.MinPriceCents = v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		q.MaxPriceCents = v
	}
	ci, co := c.QueryParam("check_in"), c.QueryParam("check_out")
	if ci != "" || co != "" {
		in, out, err := parseStayRange(ci, co)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		q.CheckIn, q.CheckOut = in, out
	}

	items, total, err := h.Hotels.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, listPayload(items, total, page, pageSize))
}

// GetHotel handles GET /v1/hotels/:id.  It returns the public hotel
// profile; unverified or deactivated hotels are reported as not found.
func (h *PublicHandler) GetHotel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.Hotels.GetVisibleByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item": echo.Map{
			"id":             hotel.ID,
			"name":           hotel.Name,
			"description":    hotel.Description,
			"city":           hotel.City,
			"address":        hotel.Address,
			"latitude":       hotel.Latitude,
			"longitude":      hotel.Longitude,
			"amenities":      hotel.Amenities,
			"image_url":      hotel.ImageURL,
			"rating_average": hotel.RatingAverage,
			"rating_count":   hotel.RatingCount,
		},
	})
}

// ListHotelRooms handles GET /v1/hotels/:id/rooms.  Only bookable
// rooms of visible hotels are listed.
func (h *PublicHandler) ListHotelRooms(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetVisibleByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"})
	}
	rooms, err := h.Rooms.ListByHotel(ctx, id, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	items := make([]echo.Map, 0, len(rooms))
	for _, rm := range rooms {
		items = append(items, echo.Map{
			"id":                rm.ID,
			"room_type":         rm.RoomType,
			"name":              rm.Name,
			"description":       rm.Description,
			"max_adults":        rm.MaxAdults,
			"max_children":      rm.MaxChildren,
			"max_infants":       rm.MaxInfants,
			"base_price_cents":  rm.BasePriceCents,
			"tax_percent":       rm.TaxPercent,
			"service_fee_cents": rm.ServiceFeeCents,
			"image_url":         rm.ImageURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ListHotelReviews handles GET /v1/hotels/:id/reviews.  Returns the
// approved reviews of a visible hotel, newest first.
func (h *PublicHandler) ListHotelReviews(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetVisibleByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Reviews.ListByHotel(ctx, id, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// RoomAvailability handles GET /v1/rooms/:id/availability.  It reports
// how many units of the room remain free for the requested stay.  The
// answer is advisory; the authoritative check happens under a row lock
// when the booking is created.
func (h *PublicHandler) RoomAvailability(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	in, out, err := parseStayRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	if !rm.IsActive || !rm.IsAvailable {
		return c.JSON(http.StatusOK, echo.Map{
			"room_id":   rm.ID,
			"check_in":  in.Format(dateLayout),
			"check_out": out.Format(dateLayout),
			"available": 0,
		})
	}

	committed, err := h.Bookings.CommittedRooms(ctx, id, in, out)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   rm.ID,
		"check_in":  in.Format(dateLayout),
		"check_out": out.Format(dateLayout),
		"nights":    booking.Nights(in, out),
		"available": booking.RemainingRooms(rm.TotalRooms, committed),
	})
}
