// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatsUpdatedQueue is the broker queue seat-state deltas are
// published to after a booking commits.
const SeatsUpdatedQueue = "seats.updated"

// SeatsUpdatedEvent is broadcast after a booking transaction commits.
// It carries the seat-state delta watchers of the event need to
// refresh their view: which seats were just claimed and the new
// available count. Delivery is best effort with no ordering across
// events; a watcher that joins late simply re-reads current state.
type SeatsUpdatedEvent struct {
	EventID        uint64   `json:"event_id"`
	BookedSeatIDs  []uint64 `json:"booked_seat_ids"`
	AvailableSeats uint32   `json:"available_seats"`
	OccurredAt     string   `json:"occurred_at"`
}
