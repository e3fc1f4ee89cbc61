package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/handler"
	"github.com/iliyamo/hotel-booking-marketplace/internal/middleware"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Dashboard & analytics ----
	g.GET("/dashboard", a.Dashboard)
	g.GET("/analytics", a.Analytics)

	// ---- Users ----
	g.GET("/users", a.ListUsers)
	g.PATCH("/users/:id/status", a.SetUserStatus)

	// ---- Hotels ----
	g.GET("/hotels", a.ListHotels)
	g.GET("/hotels/:id", a.GetHotel)
	g.POST("/hotels/:id/verify", a.VerifyHotel)
	g.PATCH("/hotels/:id/status", a.SetHotelStatus)

	// ---- Bookings ----
	g.GET("/bookings", a.ListBookings)
	g.GET("/bookings/:id", a.GetBooking)
	g.POST("/bookings/:id/complete", a.CompleteBooking)
	g.POST("/bookings/:id/cancel", a.CancelBooking)

	// ---- Reviews ----
	g.GET("/reviews", a.ListReviews)
	g.PATCH("/reviews/:id/approval", a.SetReviewApproval)
	g.DELETE("/reviews/:id", a.DeleteReview)

	// ---- Grievances ----
	g.GET("/grievances", a.ListGrievances)
	g.PATCH("/grievances/:id", a.UpdateGrievance)
}
