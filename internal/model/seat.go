package model

// Seat describes a single seat of an event. Seats are created
// alongside their event and are mutated exclusively inside a booking
// transaction: IsBooked and BookingID change together, exactly once,
// from unbooked to booked. There is no cancellation flow that
// reverses a claim.
//
// Fields:
//  ID         – primary key identifier.
//  EventID    – event to which this seat belongs.
//  RowName    – letter or string designating the row (e.g. "A").
//  SeatNumber – number of the seat within the row, stored as text.
//  Section    – section of the venue (e.g. "Balcony").
//  IsBooked   – whether the seat has been claimed by a booking.
//  BookingID  – booking that owns the seat, nil while unbooked.
type Seat struct {
	ID         uint64  // seats.id
	EventID    uint64  // seats.event_id
	RowName    string  // seats.row_name
	SeatNumber string  // seats.seat_number
	Section    string  // seats.section
	IsBooked   bool    // seats.is_booked
	BookingID  *uint64 // seats.booking_id (nullable)
}

// Label returns the human-readable seat label, row followed by
// number ("A" + "12" -> "A12"). This is the form shown to users and
// reported back in seat-conflict errors.
func (s Seat) Label() string {
	return s.RowName + s.SeatNumber
}
