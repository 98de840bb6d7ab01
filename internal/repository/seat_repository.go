package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"

	"github.com/iliyamo/event-ticket-booking/internal/model"
)

// SeatRepo is the seat ledger: it owns seat-claim state and the
// event's available-seat counter. Claims are a two-step protocol that
// must run inside a single caller-owned transaction: LockSeats
// acquires row locks and validates, then, after the booking row
// exists, AssignSeats flips ownership and decrements the counter.
// Nothing becomes visible until the transaction commits.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// LockSeats acquires exclusive row locks (SELECT ... FOR UPDATE) on
// exactly the requested seats of the event and validates the claim.
// Locking is ordered by seat id so concurrent claims on overlapping
// sets acquire locks in the same order; claims on disjoint sets do
// not contend. Validation order, first violation wins:
//
//	1. every seat id exists under eventID    -> ErrSeatsNotFound
//	2. none of the seats is already booked   -> SeatsAlreadyClaimedError
//	3. available_seats >= len(seatIDs)       -> ErrInsufficientInventory
//
// On success the locked seat rows are returned for downstream use
// (labels for the ticket artifact and conflict reporting). On any
// failure the caller must roll back the whole transaction.
func (r *SeatRepo) LockSeats(ctx context.Context, tx *sql.Tx, eventID uint64, seatIDs []uint64) ([]model.Seat, error) {
	query := `SELECT id, event_id, row_name, seat_number, section, is_booked, booking_id
	          FROM seats
	          WHERE id IN (` + placeholders(len(seatIDs)) + `) AND event_id = ?
	          ORDER BY id
	          FOR UPDATE`
	args := make([]interface{}, 0, len(seatIDs)+1)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	args = append(args, eventID)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("lock seats", err)
	}
	defer rows.Close()

	seats := make([]model.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s model.Seat
		var bookingID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.EventID, &s.RowName, &s.SeatNumber, &s.Section, &s.IsBooked, &bookingID); err != nil {
			return nil, wrapStorage("scan seat", err)
		}
		if bookingID.Valid {
			bid := uint64(bookingID.Int64)
			s.BookingID = &bid
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorage("lock seats", err)
	}

	if len(seats) != len(seatIDs) {
		return nil, ErrSeatsNotFound
	}

	var claimed []string
	for _, s := range seats {
		if s.IsBooked {
			claimed = append(claimed, s.Label())
		}
	}
	if len(claimed) > 0 {
		return nil, &SeatsAlreadyClaimedError{Seats: claimed}
	}

	// Secondary defense against counter drift: the counter must cover
	// the request even though every requested seat is unbooked.
	var available uint32
	const availQ = `SELECT available_seats FROM events WHERE id = ?`
	if err := tx.QueryRowContext(ctx, availQ, eventID).Scan(&available); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, wrapStorage("read available seats", err)
	}
	if available < uint32(len(seatIDs)) {
		return nil, ErrInsufficientInventory
	}

	return seats, nil
}

// AssignSeats flips ownership of the locked seats to the booking,
// decrements the event's available-seat counter and returns the
// post-decrement count. It must only be called after LockSeats
// succeeded in the same transaction; the row counts are verified so
// that any drift aborts the transaction rather than committing an
// inconsistent ledger. The returned count is read after the guarded
// update, while the event row is still locked, so it is exact even
// when concurrent bookings on other seats committed since the summary
// was loaded.
func (r *SeatRepo) AssignSeats(ctx context.Context, tx *sql.Tx, bookingID, eventID uint64, seatIDs []uint64) (uint32, error) {
	query := `UPDATE seats SET is_booked = TRUE, booking_id = ?
	          WHERE id IN (` + placeholders(len(seatIDs)) + `) AND is_booked = FALSE`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, bookingID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapStorage("assign seats", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapStorage("assign seats", err)
	}
	if n != int64(len(seatIDs)) {
		// The rows were locked and validated unbooked, so this can
		// only mean the ledger drifted underneath us.
		return 0, ErrInsufficientInventory
	}

	const counterQ = `UPDATE events SET available_seats = available_seats - ?
	                  WHERE id = ? AND available_seats >= ?`
	res, err = tx.ExecContext(ctx, counterQ, len(seatIDs), eventID, len(seatIDs))
	if err != nil {
		return 0, wrapStorage("decrement available seats", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return 0, wrapStorage("decrement available seats", err)
	}
	if n == 0 {
		return 0, ErrInsufficientInventory
	}

	var remaining uint32
	const remainingQ = `SELECT available_seats FROM events WHERE id = ?`
	if err := tx.QueryRowContext(ctx, remainingQ, eventID).Scan(&remaining); err != nil {
		return 0, wrapStorage("read available seats", err)
	}
	return remaining, nil
}

// ListByEvent returns the full seat map of an event ordered by row
// and numeric seat number, the order clients render.
func (r *SeatRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Seat, error) {
	const q = `SELECT id, event_id, row_name, seat_number, section, is_booked, booking_id
	           FROM seats
	           WHERE event_id = ?
	           ORDER BY row_name, CAST(seat_number AS UNSIGNED)`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		var bookingID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.EventID, &s.RowName, &s.SeatNumber, &s.Section, &s.IsBooked, &bookingID); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			bid := uint64(bookingID.Int64)
			s.BookingID = &bid
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// placeholders builds the "?, ?, ?" fragment for an IN clause with n
// elements.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
