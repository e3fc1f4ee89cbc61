package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/handler"
	"github.com/iliyamo/hotel-booking-marketplace/internal/middleware"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers quote
// and place bookings, manage their stays, save hotels, review
// completed stays and file grievances.
func RegisterCustomer(e *echo.Echo, b *handler.CustomerBookingHandler, p *handler.CustomerProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)

	// ---- Bookings ----
	g.POST("/bookings/quote", b.Quote)
	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Get)
	g.PUT("/bookings/:id", b.Modify)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.POST("/bookings/:id/rebook", b.Rebook)
	g.POST("/bookings/:id/promo", b.ApplyPromo)
	g.POST("/bookings/:id/deposit", b.PayDeposit)

	// ---- Favorites ----
	g.GET("/favorites", p.ListFavorites)
	g.POST("/favorites/:hotelID", p.AddFavorite)
	g.DELETE("/favorites/:hotelID", p.RemoveFavorite)

	// ---- Reviews ----
	g.GET("/reviews", p.ListMyReviews)
	g.POST("/reviews", p.CreateReview)
	g.PUT("/reviews/:id", p.UpdateReview)
	g.DELETE("/reviews/:id", p.DeleteReview)

	// ---- Grievances ----
	g.GET("/grievances", p.ListMyGrievances)
	g.POST("/grievances", p.CreateGrievance)
}
