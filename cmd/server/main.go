package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-booking-marketplace/internal/config"
	"github.com/iliyamo/hotel-booking-marketplace/internal/database"
	"github.com/iliyamo/hotel-booking-marketplace/internal/handler"
	"github.com/iliyamo/hotel-booking-marketplace/internal/middleware"
	"github.com/iliyamo/hotel-booking-marketplace/internal/queue"
	"github.com/iliyamo/hotel-booking-marketplace/internal/repository"
	"github.com/iliyamo/hotel-booking-marketplace/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment
	// directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the public response cache.
	// Both fail open when the client is nil, so a missing Redis only
	// costs the protections, never availability.
	rdb := config.NewRedisClient()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db, hotels)
	favorites := repository.NewFavoriteRepo(db)
	grievances := repository.NewGrievanceRepo(db)
	stats := repository.NewStatsRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(hotels, rooms, bookings, reviews)
	custBookH := handler.NewCustomerBookingHandler(bookings, rooms, hotels)
	custProfH := handler.NewCustomerProfileHandler(favorites, reviews, bookings, hotels, grievances)
	hotelH := handler.NewHotelHandler(hotels, rooms, reviews)
	hotelBookH := handler.NewHotelBookingHandler(bookings, rooms, hotels)
	adminH := handler.NewAdminHandler(users, tokens, hotels, bookings, reviews, grievances, stats)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterCustomer(e, custBookH, custProfH, cfg.JWTSecret)
	router.RegisterHotel(e, hotelH, hotelBookH, hotels, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Background consumer for booking.confirmed events.  It reconnects
	// forever; an unreachable broker only costs the event log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
