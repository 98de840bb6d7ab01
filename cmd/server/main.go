package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files into the environment

	"github.com/iliyamo/event-ticket-booking/internal/booking"
	"github.com/iliyamo/event-ticket-booking/internal/config"
	"github.com/iliyamo/event-ticket-booking/internal/database"
	"github.com/iliyamo/event-ticket-booking/internal/handler"
	"github.com/iliyamo/event-ticket-booking/internal/notifier"
	"github.com/iliyamo/event-ticket-booking/internal/queue"
	"github.com/iliyamo/event-ticket-booking/internal/repository"
	"github.com/iliyamo/event-ticket-booking/internal/router"
	"github.com/iliyamo/event-ticket-booking/internal/ticket"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: nil client disables the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache disabled")
	}

	seatRepo := repository.NewSeatRepo(db)
	eventRepo := repository.NewEventRepo(db)
	userRepo := repository.NewUserRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	tickets := ticket.NewGenerator(cfg.BaseURL, []byte(cfg.TicketSecret))
	pub := notifier.NewAMQPPublisher(cfg.AMQPURL)

	coordinator := booking.NewCoordinator(db, seatRepo, eventRepo, userRepo, bookingRepo, tickets, pub)

	// Background consumer mirrors seat updates into the audit log. It
	// reconnects on its own; a dead broker never blocks bookings.
	go func() {
		if err := queue.StartSeatUpdatesConsumer(cfg.AMQPURL); err != nil {
			log.Printf("seat updates consumer stopped: %v", err)
		}
	}()

	e := router.New(router.Deps{
		Events:    &handler.EventHandler{EventRepo: eventRepo, SeatRepo: seatRepo},
		Bookings:  &handler.BookingHandler{Coordinator: coordinator, BookingRepo: bookingRepo},
		Verify:    &handler.VerifyHandler{Bookings: bookingRepo},
		JWTSecret: cfg.JWTSecret,
		CacheCfg:  config.LoadCacheConfig(),
		Redis:     rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
