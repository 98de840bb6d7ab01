// This file defines the authenticated booking endpoints: placing a booking
// and listing the caller's booking history. The handler only translates
// between HTTP and the booking package; all transactional logic lives in
// the coordinator.

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-booking/internal/booking"
	"github.com/iliyamo/event-ticket-booking/internal/middleware"
	"github.com/iliyamo/event-ticket-booking/internal/repository"
)

// Coordinator is the slice of the booking package this handler needs.
// Declared as an interface so tests can substitute a fake.
type Coordinator interface {
	BookSeats(ctx context.Context, req booking.Request) (*booking.Result, error)
}

// BookingHandler serves booking placement and booking history.
type BookingHandler struct {
	Coordinator Coordinator
	BookingRepo *repository.BookingRepo // booking history lookups
}

// BookRequest is the JSON payload of POST /api/book. The user id is
// never part of the payload; it comes from the verified token.
type BookRequest struct {
	EventID          uint64   `json:"event_id"`
	SeatIDs          []uint64 `json:"seat_ids"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
}

// Book places a booking for the authenticated user. On success it
// returns 201 with the booking reference, the claimed seats and the
// ticket artifact. Seat conflicts map to 409 and include the labels
// of the seats that were taken, so clients can highlight them.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Coordinator.BookSeats(c.Request().Context(), booking.Request{
		UserID:      userID,
		EventID:     req.EventID,
		SeatIDs:     req.SeatIDs,
		AmountCents: req.TotalAmountCents,
	})
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":           "booking confirmed",
		"booking_id":        res.BookingID,
		"booking_reference": res.Reference,
		"seat_ids":          res.SeatIDs,
		"seat_numbers":      res.SeatLabels,
		"ticket_artifact":   res.TicketArtifact,
	})
}

// ListMine returns the authenticated user's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// bookingError maps coordinator errors onto HTTP responses. The
// mapping is exhaustive over the booking error taxonomy; anything
// unrecognized is a 500.
func bookingError(c echo.Context, err error) error {
	var claimed *repository.SeatsAlreadyClaimedError
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatsNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more seats do not exist for this event"})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.As(err, &claimed):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "some seats are no longer available",
			"seats": claimed.Seats,
		})
	case errors.Is(err, repository.ErrInsufficientInventory):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats available"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed, please try again"})
	}
}
