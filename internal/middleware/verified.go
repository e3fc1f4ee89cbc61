package middleware

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// RequireVerifiedHotel gates hotel-side mutating routes until an admin
// has verified the property.  It loads the caller's hotel, rejects
// when the hotel is missing, unverified or deactivated, and stores the
// hotel id in the context under "hotel_id" so handlers do not need a
// second lookup.  Read-only hotel routes skip this middleware.
func RequireVerifiedHotel(hotels *repository.HotelRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerID, ok := contextUserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			h, err := hotels.GetByOwner(c.Request().Context(), ownerID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel profile not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			if !h.IsVerified {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "hotel is awaiting admin verification"})
			}
			if !h.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "hotel is deactivated"})
			}
			c.Set("hotel_id", h.ID)
			return next(c)
		}
	}
}
