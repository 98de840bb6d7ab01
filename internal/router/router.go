// Package router wires HTTP routes to their handlers. Public browsing and
// verification routes sit behind the response cache; booking routes require
// a verified token and are never cached.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticket-booking/internal/config"
	"github.com/iliyamo/event-ticket-booking/internal/handler"
	"github.com/iliyamo/event-ticket-booking/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Events    *handler.EventHandler
	Bookings  *handler.BookingHandler
	Verify    *handler.VerifyHandler
	JWTSecret string
	CacheCfg  config.CacheConfig
	Redis     *redis.Client
}

// New builds the echo instance with all routes and middleware
// registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	e.GET("/api/health", handler.Health)

	// Public browsing. Reads are cacheable; the seat map may lag the
	// ledger by at most the cache TTL, bookings always read through.
	cached := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	pub := e.Group("/api", cached)
	pub.GET("/events", d.Events.ListEvents)
	pub.GET("/events/:id", d.Events.GetEvent)
	pub.GET("/events/:id/seats", d.Events.GetEventSeats)

	// Verification is public but never cached: a scan must reflect
	// the booking's current state.
	e.GET("/api/verify-ticket/:reference", d.Verify.VerifyTicket)

	// Authenticated booking routes.
	auth := e.Group("/api", middleware.Identity(d.JWTSecret))
	auth.POST("/book", d.Bookings.Book)
	auth.GET("/bookings", d.Bookings.ListMine)

	return e
}
