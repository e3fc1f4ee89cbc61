package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/handler"
	"github.com/iliyamo/hotel-booking-marketplace/internal/middleware"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
)

// RegisterHotel registers HOTEL-scoped endpoints under /v1/hotel.  All
// routes require a valid JWT and the HOTEL role.  Profile and read
// routes work from the moment the account exists; everything that
// mutates rooms or bookings additionally requires the property to be
// verified by an admin and still active.
func RegisterHotel(e *echo.Echo, h *handler.HotelHandler, b *handler.HotelBookingHandler, hotels *repository.HotelRepo, jwtSecret string) {
	g := e.Group(
		"/v1/hotel",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHotel),
	)

	// ---- Profile ----
	// The upsert stays outside the verification gate: a new hotel has
	// to be able to create the profile an admin will verify.
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpsertProfile)
	g.GET("/rooms", h.ListMyRooms)
	g.GET("/reviews", h.ListMyReviews)

	// Verified-only routes.  The middleware also resolves and caches
	// the hotel id in the request context.
	v := g.Group("", middleware.RequireVerifiedHotel(hotels))

	// ---- Rooms ----
	v.POST("/rooms", h.CreateRoom)
	v.PUT("/rooms/:id", h.UpdateRoom)
	v.PATCH("/rooms/:id/availability", h.SetRoomAvailability)
	v.DELETE("/rooms/:id", h.DeleteRoom)

	// ---- Bookings ----
	v.GET("/bookings", b.List)
	v.GET("/bookings/:id", b.Get)
	v.POST("/bookings/:id/confirm", b.Confirm)
	v.POST("/bookings/:id/reject", b.Reject)
	v.POST("/bookings/:id/checkin", b.CheckIn)
	v.POST("/bookings/:id/checkout", b.CheckOut)
	v.POST("/bookings/:id/no-show", b.NoShow)
	v.POST("/bookings/:id/cancel", b.Cancel)
}
