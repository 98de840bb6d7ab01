// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines handlers for the public browsing API: event
// listings, event details and per-event seat maps. These routes require no
// authentication; responses expose only display fields and omit nothing a
// booking client would not need.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-booking/internal/repository"
)

// EventHandler aggregates the repositories needed for unauthenticated
// browsing of events and their seat maps.
type EventHandler struct {
	EventRepo *repository.EventRepo // provides access to event data
	SeatRepo  *repository.SeatRepo  // provides access to seat data
}

// EventItem represents an event in list responses.
type EventItem struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Venue          string    `json:"venue"`
	EventDate      time.Time `json:"event_date"`
	PriceCents     uint32    `json:"price_cents"`
	AvailableSeats uint32    `json:"available_seats"`
	Category       *string   `json:"category,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// EventDetail represents a single-event response with full metadata.
type EventDetail struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Venue          string    `json:"venue"`
	EventDate      time.Time `json:"event_date"`
	TotalSeats     uint32    `json:"total_seats"`
	AvailableSeats uint32    `json:"available_seats"`
	PriceCents     uint32    `json:"price_cents"`
	Category       *string   `json:"category,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// SeatItem represents one seat in a seat-map response. BookingID is
// deliberately absent: which booking owns a seat is not public.
type SeatItem struct {
	ID         uint64 `json:"id"`
	RowName    string `json:"row_name"`
	SeatNumber string `json:"seat_number"`
	Section    string `json:"section"`
	IsBooked   bool   `json:"is_booked"`
}

// ListEvents returns all upcoming events, soonest first. Response
// JSON contains an "items" array of EventItem.
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.EventRepo.ListUpcoming(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]EventItem, 0, len(events))
	for _, ev := range events {
		out = append(out, EventItem{
			ID:             ev.ID,
			Title:          ev.Title,
			Venue:          ev.Venue,
			EventDate:      ev.EventDate,
			PriceCents:     ev.PriceCents,
			AvailableSeats: ev.AvailableSeats,
			Category:       ev.Category,
			ImageURL:       ev.ImageURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent returns the details of a single event by id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ev, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, EventDetail{
		ID:             ev.ID,
		Title:          ev.Title,
		Description:    ev.Description,
		Venue:          ev.Venue,
		EventDate:      ev.EventDate,
		TotalSeats:     ev.TotalSeats,
		AvailableSeats: ev.AvailableSeats,
		PriceCents:     ev.PriceCents,
		Category:       ev.Category,
		ImageURL:       ev.ImageURL,
	})
}

// GetEventSeats returns the seat map of an event ordered by row and
// seat number. It validates the event exists, then returns every seat
// with its booked flag so clients can render availability.
func (h *EventHandler) GetEventSeats(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure event exists
	if _, err := h.EventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.ListByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]SeatItem, 0, len(seats))
	for _, s := range seats {
		out = append(out, SeatItem{
			ID:         s.ID,
			RowName:    s.RowName,
			SeatNumber: s.SeatNumber,
			Section:    s.Section,
			IsBooked:   s.IsBooked,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
