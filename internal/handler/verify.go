// This file defines the public ticket verification endpoint. The QR code in
// a ticket artifact encodes a URL pointing here; venue staff scanning a
// ticket hit this route to confirm the booking exists and see who it
// belongs to. No authentication is required, the reference itself is the
// capability.

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-booking/internal/repository"
)

// BookingFinder is the lookup this handler needs from the booking
// store. Declared as an interface so tests can substitute a fake.
type BookingFinder interface {
	GetByReference(ctx context.Context, reference string) (*repository.VerifiedBooking, error)
}

// VerifyHandler resolves booking references for ticket checks.
type VerifyHandler struct {
	Bookings BookingFinder
}

// VerifyTicket looks up a booking by its reference. A known reference
// returns {"valid": true} with the booking details; an unknown one
// returns 404 with {"valid": false}.
func (h *VerifyHandler) VerifyTicket(c echo.Context) error {
	reference := c.Param("reference")
	if reference == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing reference"})
	}
	vb, err := h.Bookings.GetByReference(c.Request().Context(), reference)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"valid": false, "error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true, "booking": vb})
}
