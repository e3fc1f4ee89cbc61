package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-marketplace/internal/handler"
	"github.com/iliyamo/hotel-booking-marketplace/internal/middleware"
	"github.com/iliyamo/hotel-booking-marketplace/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected account endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh_token body or a bearer token; it
	// stays outside the JWT middleware so sessions can be terminated
	// after the access token expired.
	g.POST("/logout", a.Logout)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleHotel, model.RoleAdmin))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
	auth.POST("/me/change-password", a.ChangePassword)
}

// RegisterPublic registers unauthenticated browse endpoints.  These
// routes return sanitized data for verified hotels and are intended
// for guest users; they are also the ones worth response-caching.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/hotels", p.SearchHotels)
	e.GET("/v1/hotels/:id", p.GetHotel)
	e.GET("/v1/hotels/:id/rooms", p.ListHotelRooms)
	e.GET("/v1/hotels/:id/reviews", p.ListHotelReviews)
	e.GET("/v1/rooms/:id/availability", p.RoomAvailability)
}
