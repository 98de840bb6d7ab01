package model

import "time"

// BookingStatusConfirmed is the only status this service produces.
// There are no pending or cancelled states: a booking either commits
// fully or never exists.
const BookingStatusConfirmed = "confirmed"

// Booking records a user's claim on a set of seats for one event.
// The row is inserted atomically with the seat claim; only the
// TicketArtifact column may be populated later by the post-commit
// enrichment step.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking.
//  EventID          – event being booked.
//  SeatsBooked      – number of seats claimed under this booking.
//  TotalAmountCents – total price in cents for all seats.
//  Reference        – globally unique, human-presentable reference.
//  Status           – always BookingStatusConfirmed.
//  CreatedAt        – creation timestamp.
//  TicketArtifact   – encoded ticket image, nil until enrichment ran.
type Booking struct {
	ID               uint64    // bookings.id
	UserID           uint64    // bookings.user_id
	EventID          uint64    // bookings.event_id
	SeatsBooked      uint32    // bookings.seats_booked
	TotalAmountCents uint32    // bookings.total_amount_cents
	Reference        string    // bookings.booking_reference (unique)
	Status           string    // bookings.booking_status
	CreatedAt        time.Time // bookings.created_at
	TicketArtifact   *string   // bookings.ticket_artifact (nullable)
}
