package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticket-booking/internal/model"
)

// BookingRepo persists bookings and serves the read paths that hang
// off them: a user's booking history and the unauthenticated
// verification lookup by reference.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateTx inserts a booking within the caller's transaction and
// populates the generated ID and CreatedAt on the record. A
// uniqueness violation on booking_reference is reported as
// ErrDuplicateReference so the caller can regenerate the reference
// and retry the insert; the UNIQUE constraint is the backstop behind
// the best-effort time+random reference construction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, event_id, seats_booked, total_amount_cents, booking_reference, booking_status, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, q,
		b.UserID, b.EventID, b.SeatsBooked, b.TotalAmountCents, b.Reference, b.Status, now,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateReference
		}
		return wrapStorage("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapStorage("insert booking", err)
	}
	b.ID = uint64(id)
	b.CreatedAt = now
	return nil
}

// AttachArtifact stores the generated ticket artifact on an already
// committed booking. It runs outside any transaction: the artifact is
// a best-effort enrichment and its failure never touches booking
// correctness. An operator job may retry it later by reference.
func (r *BookingRepo) AttachArtifact(ctx context.Context, bookingID uint64, artifact string) error {
	const q = `UPDATE bookings SET ticket_artifact = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, artifact, bookingID)
	return err
}

// UserBooking is one row of a user's booking history, joined with the
// event it belongs to.
type UserBooking struct {
	ID               uint64    `json:"id"`
	Reference        string    `json:"booking_reference"`
	SeatsBooked      uint32    `json:"seats_booked"`
	TotalAmountCents uint32    `json:"total_amount_cents"`
	Status           string    `json:"booking_status"`
	CreatedAt        time.Time `json:"created_at"`
	TicketArtifact   *string   `json:"ticket_artifact"`
	EventTitle       string    `json:"event_title"`
	Venue            string    `json:"venue"`
	EventDate        time.Time `json:"event_date"`
}

// ListByUser returns all bookings of a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]UserBooking, error) {
	const q = `SELECT b.id, b.booking_reference, b.seats_booked, b.total_amount_cents,
	                  b.booking_status, b.created_at, b.ticket_artifact,
	                  e.title, e.venue, e.event_date
	           FROM bookings b
	           JOIN events e ON e.id = b.event_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserBooking
	for rows.Next() {
		var ub UserBooking
		var artifact sql.NullString
		if err := rows.Scan(
			&ub.ID, &ub.Reference, &ub.SeatsBooked, &ub.TotalAmountCents,
			&ub.Status, &ub.CreatedAt, &artifact,
			&ub.EventTitle, &ub.Venue, &ub.EventDate,
		); err != nil {
			return nil, err
		}
		if artifact.Valid {
			a := artifact.String
			ub.TicketArtifact = &a
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}

// VerifiedBooking is the result of a verification lookup by
// reference: the booking summary plus resolved seat labels and the
// holder's name. It backs the stateless verification endpoint the
// ticket artifact points at.
type VerifiedBooking struct {
	BookingID        uint64    `json:"booking_id"`
	Reference        string    `json:"booking_reference"`
	Status           string    `json:"booking_status"`
	SeatsBooked      uint32    `json:"seats_booked"`
	TotalAmountCents uint32    `json:"total_amount_cents"`
	CreatedAt        time.Time `json:"created_at"`
	EventTitle       string    `json:"event_title"`
	Venue            string    `json:"venue"`
	EventDate        time.Time `json:"event_date"`
	HolderName       string    `json:"holder_name"`
	Seats            []string  `json:"seats"`
}

// GetByReference resolves a booking by its reference for ticket
// verification. Returns ErrBookingNotFound when the reference does
// not exist.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*VerifiedBooking, error) {
	const q = `SELECT b.id, b.booking_reference, b.booking_status, b.seats_booked,
	                  b.total_amount_cents, b.created_at,
	                  e.title, e.venue, e.event_date,
	                  u.username, COALESCE(u.full_name, '')
	           FROM bookings b
	           JOIN events e ON e.id = b.event_id
	           JOIN users u ON u.id = b.user_id
	           WHERE b.booking_reference = ?`
	var vb VerifiedBooking
	var username, fullName string
	err := r.db.QueryRowContext(ctx, q, reference).Scan(
		&vb.BookingID, &vb.Reference, &vb.Status, &vb.SeatsBooked,
		&vb.TotalAmountCents, &vb.CreatedAt,
		&vb.EventTitle, &vb.Venue, &vb.EventDate,
		&username, &fullName,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	holder := model.UserSummary{Username: username, FullName: fullName}
	vb.HolderName = holder.DisplayName()

	const seatQ = `SELECT row_name, seat_number
	               FROM seats
	               WHERE booking_id = ?
	               ORDER BY row_name, CAST(seat_number AS UNSIGNED)`
	rows, err := r.db.QueryContext(ctx, seatQ, vb.BookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vb.Seats = []string{}
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.RowName, &s.SeatNumber); err != nil {
			return nil, err
		}
		vb.Seats = append(vb.Seats, s.Label())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &vb, nil
}
