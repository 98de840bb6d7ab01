package model

import "time"

// Event represents a bookable live event as stored in the `events`
// table. Events are created by an external admin process; this
// service only reads them and, during a booking transaction,
// decrements the denormalized AvailableSeats counter. The counter
// must always equal TotalSeats minus the number of booked seats.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – display title of the event.
//  Description    – free-form description.
//  Venue          – venue name.
//  EventDate      – scheduled start of the event (UTC).
//  TotalSeats     – fixed seat count, set at creation.
//  AvailableSeats – denormalized count of unbooked seats.
//  PriceCents     – price per seat in cents.
//  ImageURL       – optional promotional image.
//  Category       – optional category label.
//  CreatedAt      – creation timestamp.
type Event struct {
	ID             uint64    // events.id
	Title          string    // events.title
	Description    string    // events.description
	Venue          string    // events.venue
	EventDate      time.Time // events.event_date
	TotalSeats     uint32    // events.total_seats
	AvailableSeats uint32    // events.available_seats
	PriceCents     uint32    // events.price_cents
	ImageURL       *string   // events.image_url (nullable)
	Category       *string   // events.category (nullable)
	CreatedAt      time.Time // events.created_at
}

// EventSummary carries the subset of event columns the booking
// transaction needs: display metadata for the ticket artifact, the
// per-seat price for the amount check, and the current availability
// counter. It is loaded inside the transaction so the values are
// consistent with the locked seat rows.
type EventSummary struct {
	ID             uint64
	Title          string
	Venue          string
	EventDate      time.Time
	PriceCents     uint32
	AvailableSeats uint32
}
