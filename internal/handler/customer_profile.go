package handler

// Customer profile surfaces: saved hotels, reviews and support
// grievances.

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// CustomerProfileHandler groups repositories for the customer's
// favorites, reviews and grievances.
type CustomerProfileHandler struct {
	Favorites  *repository.FavoriteRepo
	Reviews    *repository.ReviewRepo
	Bookings   *repository.BookingRepo
	Hotels     *repository.HotelRepo
	Grievances *repository.GrievanceRepo
}

// NewCustomerProfileHandler constructs a CustomerProfileHandler.  All
// dependencies must be non-nil.
func NewCustomerProfileHandler(fav *repository.FavoriteRepo, rev *repository.ReviewRepo, book *repository.BookingRepo, hot *repository.HotelRepo, grv *repository.GrievanceRepo) *CustomerProfileHandler {
	if fav == nil || rev == nil || book == nil || hot == nil || grv == nil {
		panic("nil repository passed to NewCustomerProfileHandler")
	}
	return &CustomerProfileHandler{Favorites: fav, Reviews: rev, Bookings: book, Hotels: hot, Grievances: grv}
}

// ----- favorites -----

// AddFavorite handles POST /v1/favorites/:hotelID.
func (h *CustomerProfileHandler) AddFavorite(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := paramID(c, "hotelID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetVisibleByID(ctx, hotelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"})
	}
	if err := h.Favorites.Add(ctx, customerID, hotelID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel already saved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save favorite failed"})
	}
	return c.NoContent(http.StatusCreated)
}

// RemoveFavorite handles DELETE /v1/favorites/:hotelID.
func (h *CustomerProfileHandler) RemoveFavorite(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := paramID(c, "hotelID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	if err := h.Favorites.Remove(c.Request().Context(), customerID, hotelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "favorite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFavorites handles GET /v1/favorites.
func (h *CustomerProfileHandler) ListFavorites(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Favorites.ListHotels(c.Request().Context(), customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load favorites"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// ----- reviews -----

type reviewReq struct {
	BookingID   uint64 `json:"booking_id"`
	Rating      int    `json:"rating"`
	Cleanliness *int   `json:"cleanliness"`
	Comfort     *int   `json:"comfort"`
	Location    *int   `json:"location"`
	Service     *int   `json:"service"`
	Comment     string `json:"comment"`
}

func validRating(v int) bool { return v >= 1 && v <= 5 }

func validateReviewRatings(req *reviewReq) error {
	if !validRating(req.Rating) {
		return errors.New("rating must be between 1 and 5")
	}
	for _, sub := range []*int{req.Cleanliness, req.Comfort, req.Location, req.Service} {
		if sub != nil && !validRating(*sub) {
			return errors.New("sub-ratings must be between 1 and 5")
		}
	}
	return nil
}

// CreateReview handles POST /v1/reviews.  Only the customer of a stay
// that reached check-out may review it, and only once.
func (h *CustomerProfileHandler) CreateReview(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}
	if err := validateReviewRatings(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.GetForCustomer(ctx, req.BookingID, customerID)
	if err != nil {
		return bookingLookupError(c, err)
	}
	st := booking.Status(b.Status)
	if st != booking.StatusCheckedOut && st != booking.StatusCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only completed stays can be reviewed"})
	}

	v := &model.Review{
		BookingID:   b.ID,
		CustomerID:  customerID,
		HotelID:     b.HotelID,
		Rating:      req.Rating,
		Cleanliness: req.Cleanliness,
		Comfort:     req.Comfort,
		Location:    req.Location,
		Service:     req.Service,
		Comment:     strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	if err := h.Reviews.RecomputeHotelRating(ctx, b.HotelID); err != nil {
		c.Logger().Errorf("review: recompute rating for hotel %d failed: %v", b.HotelID, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": v})
}

// UpdateReview handles PUT /v1/reviews/:id.
func (h *CustomerProfileHandler) UpdateReview(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateReviewRatings(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	v, err := h.Reviews.GetForCustomer(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load review"})
	}

	v.Rating = req.Rating
	v.Cleanliness, v.Comfort, v.Location, v.Service = req.Cleanliness, req.Comfort, req.Location, req.Service
	v.Comment = strings.TrimSpace(req.Comment)
	if err := h.Reviews.Update(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	if err := h.Reviews.RecomputeHotelRating(ctx, v.HotelID); err != nil {
		c.Logger().Errorf("review: recompute rating for hotel %d failed: %v", v.HotelID, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": v})
}

// DeleteReview handles DELETE /v1/reviews/:id.
func (h *CustomerProfileHandler) DeleteReview(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx := c.Request().Context()
	v, err := h.Reviews.GetForCustomer(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load review"})
	}
	if err := h.Reviews.Delete(ctx, v.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	if err := h.Reviews.RecomputeHotelRating(ctx, v.HotelID); err != nil {
		c.Logger().Errorf("review: recompute rating for hotel %d failed: %v", v.HotelID, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyReviews handles GET /v1/reviews.
func (h *CustomerProfileHandler) ListMyReviews(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Reviews.ListByCustomer(c.Request().Context(), customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// ----- grievances -----

// CreateGrievance handles POST /v1/grievances.  booking_id is
// optional; when present the booking must belong to the caller.
func (h *CustomerProfileHandler) CreateGrievance(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		BookingID   *uint64 `json:"booking_id"`
		Subject     string  `json:"subject"`
		Description string  `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Description = strings.TrimSpace(req.Description)
	if req.Subject == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject and description required"})
	}

	ctx := c.Request().Context()
	if req.BookingID != nil {
		if _, err := h.Bookings.GetForCustomer(ctx, *req.BookingID, customerID); err != nil {
			return bookingLookupError(c, err)
		}
	}

	g := &model.Grievance{
		CustomerID:  customerID,
		BookingID:   req.BookingID,
		Subject:     req.Subject,
		Description: req.Description,
	}
	if err := h.Grievances.Create(ctx, g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create grievance failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": g})
}

// ListMyGrievances handles GET /v1/grievances.
func (h *CustomerProfileHandler) ListMyGrievances(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Grievances.ListByCustomer(c.Request().Context(), customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load grievances"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}
