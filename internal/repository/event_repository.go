package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-booking/internal/model"
)

// EventRepo provides read access to events. Events are created and
// maintained by an external admin process; the only mutation this
// service performs on them is the available-seat decrement inside
// SeatRepo.AssignSeats.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// ListUpcoming returns events whose date is still in the future,
// soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT id, title, description, venue, event_date, total_seats,
	                  available_seats, price_cents, image_url, category, created_at
	           FROM events
	           WHERE event_date > NOW()
	           ORDER BY event_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, title, description, venue, event_date, total_seats,
	                  available_seats, price_cents, image_url, category, created_at
	           FROM events
	           WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetSummaryTx loads the booking-relevant columns of an event within
// the caller's transaction so price and availability are consistent
// with the locked seat rows. Returns ErrEventNotFound when the event
// does not exist.
func (r *EventRepo) GetSummaryTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.EventSummary, error) {
	const q = `SELECT id, title, venue, event_date, price_cents, available_seats
	           FROM events
	           WHERE id = ?`
	var s model.EventSummary
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Title, &s.Venue, &s.EventDate, &s.PriceCents, &s.AvailableSeats,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, wrapStorage("load event summary", err)
	}
	return &s, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (model.Event, error) {
	var ev model.Event
	var imageURL, category sql.NullString
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.Venue, &ev.EventDate,
		&ev.TotalSeats, &ev.AvailableSeats, &ev.PriceCents,
		&imageURL, &category, &ev.CreatedAt,
	)
	if err != nil {
		return model.Event{}, err
	}
	if imageURL.Valid {
		u := imageURL.String
		ev.ImageURL = &u
	}
	if category.Valid {
		c := category.String
		ev.Category = &c
	}
	return ev, nil
}
