package handler

// Hotel-side property management: the hotel profile and its rooms.
// Reading the profile and room list works as soon as the account
// exists; every mutating room route sits behind the verified-hotel
// middleware, which stores the hotel id in the context.

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// HotelHandler groups repositories for hotel profile and room
// management.
type HotelHandler struct {
	Hotels  *repository.HotelRepo
	Rooms   *repository.RoomRepo
	Reviews *repository.ReviewRepo
}

// NewHotelHandler constructs a HotelHandler.  All dependencies must be
// non-nil.
func NewHotelHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, reviews *repository.ReviewRepo) *HotelHandler {
	if hotels == nil || rooms == nil || reviews == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: hotels, Rooms: rooms, Reviews: reviews}
}

type hotelProfileReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Amenities   string  `json:"amenities"`
	ImageURL    string  `json:"image_url"`
}

// GetProfile handles GET /v1/hotel/profile.
func (h *HotelHandler) GetProfile(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotel, err := h.Hotels.GetByOwner(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

// UpsertProfile handles PUT /v1/hotel/profile.  The first save creates
// the property in the unverified state; admins verify it before any
// room or booking mutation is allowed.
func (h *HotelHandler) UpsertProfile(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req hotelProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}

	hotel := &model.Hotel{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		City:        req.City,
		Address:     strings.TrimSpace(req.Address),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Amenities:   strings.TrimSpace(req.Amenities),
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := h.Hotels.Upsert(c.Request().Context(), hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

type roomReq struct {
	RoomType        string  `json:"room_type"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	MaxAdults       int     `json:"max_adults"`
	MaxChildren     int     `json:"max_children"`
	MaxInfants      int     `json:"max_infants"`
	TotalRooms      int     `json:"total_rooms"`
	BasePriceCents  int64   `json:"base_price_cents"`
	TaxPercent      float64 `json:"tax_percent"`
	ServiceFeeCents int64   `json:"service_fee_cents"`
	ImageURL        string  `json:"image_url"`
}

func (r *roomReq) validate() error {
	if !model.ValidRoomType(r.RoomType) {
		return errors.New("invalid room_type")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name required")
	}
	if r.MaxAdults < 1 {
		return errors.New("max_adults must be at least 1")
	}
	if r.MaxChildren < 0 || r.MaxInfants < 0 {
		return errors.New("occupancy limits cannot be negative")
	}
	if r.TotalRooms < 1 {
		return errors.New("total_rooms must be at least 1")
	}
	if r.BasePriceCents <= 0 {
		return errors.New("base_price_cents must be positive")
	}
	if r.TaxPercent < 0 || r.TaxPercent > 100 {
		return errors.New("tax_percent out of range")
	}
	if r.ServiceFeeCents < 0 {
		return errors.New("service_fee_cents cannot be negative")
	}
	return nil
}

// ListMyRooms handles GET /v1/hotel/rooms.  Includes inactive rooms so
// the owner sees the full inventory.
func (h *HotelHandler) ListMyRooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	rooms, err := h.Rooms.ListByHotel(ctx, hotel.ID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms, "count": len(rooms)})
}

// ListMyReviews handles GET /v1/hotel/reviews.  Hotels see the same
// approved reviews the public sees; pulled reviews only appear in the
// admin moderation queue.
func (h *HotelHandler) ListMyReviews(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Reviews.ListByHotel(ctx, hotel.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// CreateRoom handles POST /v1/hotel/rooms.
func (h *HotelHandler) CreateRoom(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	rm := &model.Room{
		HotelID:         hotelID,
		RoomType:        req.RoomType,
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		MaxAdults:       req.MaxAdults,
		MaxChildren:     req.MaxChildren,
		MaxInfants:      req.MaxInfants,
		TotalRooms:      req.TotalRooms,
		BasePriceCents:  req.BasePriceCents,
		TaxPercent:      req.TaxPercent,
		ServiceFeeCents: req.ServiceFeeCents,
		ImageURL:        strings.TrimSpace(req.ImageURL),
	}
	if err := h.Rooms.Create(c.Request().Context(), rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rm})
}

// UpdateRoom handles PUT /v1/hotel/rooms/:id.  Shrinking total_rooms
// below currently committed inventory is allowed; existing bookings
// are honored and the room simply stays fully booked.
func (h *HotelHandler) UpdateRoom(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	rm, err := h.Rooms.GetForHotel(ctx, id, hotelID)
	if err != nil {
		return roomLookupError(c, err)
	}

	rm.RoomType = req.RoomType
	rm.Name = strings.TrimSpace(req.Name)
	rm.Description = strings.TrimSpace(req.Description)
	rm.MaxAdults, rm.MaxChildren, rm.MaxInfants = req.MaxAdults, req.MaxChildren, req.MaxInfants
	rm.TotalRooms = req.TotalRooms
	rm.BasePriceCents, rm.TaxPercent, rm.ServiceFeeCents = req.BasePriceCents, req.TaxPercent, req.ServiceFeeCents
	rm.ImageURL = strings.TrimSpace(req.ImageURL)

	if err := h.Rooms.Update(ctx, rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rm})
}

func roomLookupError(c echo.Context, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	if errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
}

// SetRoomAvailability handles PATCH /v1/hotel/rooms/:id/availability.
func (h *HotelHandler) SetRoomAvailability(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil || req.Available == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available required"})
	}

	ctx := c.Request().Context()
	rm, err := h.Rooms.GetForHotel(ctx, id, hotelID)
	if err != nil {
		return roomLookupError(c, err)
	}
	if err := h.Rooms.SetAvailable(ctx, rm.ID, *req.Available); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update availability failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": rm.ID, "available": *req.Available})
}

// DeleteRoom handles DELETE /v1/hotel/rooms/:id.  The room is
// deactivated rather than physically removed, and the delete is
// refused while bookings still hold inventory on it.
func (h *HotelHandler) DeleteRoom(c echo.Context) error {
	hotelID, err := getHotelID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	rm, err := h.Rooms.GetForHotel(ctx, id, hotelID)
	if err != nil {
		return roomLookupError(c, err)
	}
	if err := h.Rooms.Delete(ctx, rm.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has active bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
