package handler

// Admin console: platform dashboard, user and hotel administration,
// booking oversight, review moderation and the grievance queue.

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/booking"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// analyticsWindows are the supported trailing windows in days.
var analyticsWindows = map[int]bool{7: true, 30: true, 90: true}

// AdminHandler groups repositories for the admin console.
type AdminHandler struct {
	Users      *repository.UserRepo
	Tokens     *repository.TokenRepo
	Hotels     *repository.HotelRepo
	Bookings   *repository.BookingRepo
	Reviews    *repository.ReviewRepo
	Grievances *repository.GrievanceRepo
	Stats      *repository.StatsRepo
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must
// be non-nil.
func NewAdminHandler(users *repository.UserRepo, tokens *repository.TokenRepo, hotels *repository.HotelRepo, bookings *repository.BookingRepo, reviews *repository.ReviewRepo, grievances *repository.GrievanceRepo, stats *repository.StatsRepo) *AdminHandler {
	if users == nil || tokens == nil || hotels == nil || bookings == nil || reviews == nil || grievances == nil || stats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Tokens: tokens, Hotels: hotels, Bookings: bookings, Reviews: reviews, Grievances: grievances, Stats: stats}
}

// Dashboard handles GET /v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	s, err := h.Stats.Dashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dashboard"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": s})
}

// Analytics handles GET /v1/admin/analytics?days=7|30|90.
func (h *AdminHandler) Analytics(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days == 0 {
		days = 30
	}
	if !analyticsWindows[days] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be 7, 30 or 90"})
	}
	s, err := h.Stats.Analytics(c.Request().Context(), days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load analytics"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": s})
}

// ----- users -----

// ListUsers handles GET /v1/admin/users with an optional ?role= filter.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	role := strings.ToUpper(strings.TrimSpace(c.QueryParam("role")))
	if role != "" && role != model.RoleCustomer && role != model.RoleHotel && role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role filter"})
	}
	page, pageSize := pageParams(c)
	users, total, err := h.Users.List(c.Request().Context(), role, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	items := make([]echo.Map, 0, len(users))
	for _, u := range users {
		items = append(items, echo.Map{
			"id":             u.ID,
			"email":          u.Email,
			"role":           u.Role,
			"full_name":      u.FullName,
			"phone":          u.Phone,
			"is_active":      u.IsActive,
			"email_verified": u.EmailVerifiedAt != nil,
			"created_at":     u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// SetUserStatus handles PATCH /v1/admin/users/:id/status.  Suspending
// an account also revokes its refresh tokens so live sessions die with
// the next access-token expiry.
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active required"})
	}
	ctx := c.Request().Context()
	if err := h.Users.SetActive(ctx, id, *req.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	if !*req.Active {
		_ = h.Tokens.RevokeAllForUser(ctx, id)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": *req.Active})
}

// ----- hotels -----

// ListHotels handles GET /v1/admin/hotels; ?pending=true narrows to
// hotels awaiting verification.
func (h *AdminHandler) ListHotels(c echo.Context) error {
	pending := c.QueryParam("pending") == "true"
	page, pageSize := pageParams(c)
	items, total, err := h.Hotels.List(c.Request().Context(), pending, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotels"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// GetHotel handles GET /v1/admin/hotels/:id.  Admins see the raw row
// regardless of verification or visibility state.
func (h *AdminHandler) GetHotel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.Hotels.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotel"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

// VerifyHotel handles POST /v1/admin/hotels/:id/verify.
func (h *AdminHandler) VerifyHotel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	if err := h.Hotels.SetVerified(c.Request().Context(), id, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify hotel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "verified": true})
}

// SetHotelStatus handles PATCH /v1/admin/hotels/:id/status.
func (h *AdminHandler) SetHotelStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active required"})
	}
	if err := h.Hotels.SetActive(c.Request().Context(), id, *req.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hotel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": *req.Active})
}

// ----- bookings -----

// ListBookings handles GET /v1/admin/bookings with an optional
// ?status= filter.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !booking.Status(status).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Bookings.ListAll(c.Request().Context(), status, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, listPayload(bookingViews(items), int64(total), page, pageSize))
}

// GetBooking handles GET /v1/admin/bookings/:id.
func (h *AdminHandler) GetBooking(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingLookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": bookingView(b)})
}

// CompleteBooking handles POST /v1/admin/bookings/:id/complete, the
// final settlement step after check-out.
func (h *AdminHandler) CompleteBooking(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return bookingLookupError(c, err)
	}
	if err := booking.Transition(booking.Status(b.Status), booking.StatusCompleted); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err := h.Bookings.MarkCompleted(ctx, b.ID); err != nil {
		return transitionWriteError(c, err, "complete")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": string(booking.StatusCompleted)})
}

// CancelBooking handles POST /v1/admin/bookings/:id/cancel.  Admin
// cancellations refund the full total, like hotel cancellations.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return bookingLookupError(c, err)
	}
	if err := booking.Transition(booking.Status(b.Status), booking.StatusCancelled); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	refundStatus := booking.RefundPending
	if b.TotalCents <= 0 {
		refundStatus = booking.RefundNotApplicable
	}
	if err := h.Bookings.MarkCancelled(ctx, b.ID, booking.CancelledByAdmin,
		strings.TrimSpace(req.Reason), b.TotalCents, refundStatus); err != nil {
		return transitionWriteError(c, err, "cancel")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            b.ID,
		"status":        string(booking.StatusCancelled),
		"refund_cents":  b.TotalCents,
		"refund_status": refundStatus,
	})
}

// ----- reviews -----

// ListReviews handles GET /v1/admin/reviews.
func (h *AdminHandler) ListReviews(c echo.Context) error {
	page, pageSize := pageParams(c)
	items, total, err := h.Reviews.ListAll(c.Request().Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// SetReviewApproval handles PATCH /v1/admin/reviews/:id/approval.
// Pulling or restoring a review recomputes the hotel's rating cache.
func (h *AdminHandler) SetReviewApproval(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req struct {
		Approved *bool `json:"approved"`
	}
	if err := c.Bind(&req); err != nil || req.Approved == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "approved required"})
	}

	ctx := c.Request().Context()
	v, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load review"})
	}
	if err := h.Reviews.SetApproved(ctx, id, *req.Approved); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	if err := h.Reviews.RecomputeHotelRating(ctx, v.HotelID); err != nil {
		c.Logger().Errorf("review: recompute rating for hotel %d failed: %v", v.HotelID, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "approved": *req.Approved})
}

// DeleteReview handles DELETE /v1/admin/reviews/:id.
func (h *AdminHandler) DeleteReview(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx := c.Request().Context()
	v, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load review"})
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	if err := h.Reviews.RecomputeHotelRating(ctx, v.HotelID); err != nil {
		c.Logger().Errorf("review: recompute rating for hotel %d failed: %v", v.HotelID, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- grievances -----

// ListGrievances handles GET /v1/admin/grievances with an optional
// ?status= filter.
func (h *AdminHandler) ListGrievances(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.ValidGrievanceStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	page, pageSize := pageParams(c)
	items, total, err := h.Grievances.ListAll(c.Request().Context(), status, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load grievances"})
	}
	return c.JSON(http.StatusOK, listPayload(items, int64(total), page, pageSize))
}

// UpdateGrievance handles PATCH /v1/admin/grievances/:id.
func (h *AdminHandler) UpdateGrievance(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid grievance id"})
	}
	var req struct {
		Status     string `json:"status"`
		Resolution string `json:"resolution"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidGrievanceStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid status required"})
	}
	if err := h.Grievances.UpdateStatus(c.Request().Context(), id, req.Status, strings.TrimSpace(req.Resolution)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "grievance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update grievance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
