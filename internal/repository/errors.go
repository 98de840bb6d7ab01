// Package repository defines the error taxonomy shared by the data
// access layer and the booking coordinator. These sentinel values let
// higher layers such as handlers distinguish failure scenarios: a
// missing event maps to HTTP 404, a lost seat race to 409, and a
// transient storage failure to 500 with a retry hint. Any failure
// raised before the booking transaction commits leaves no state
// behind, so clients may always retry the whole operation.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrEventNotFound is returned when a referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrBookingNotFound is returned when a booking lookup (by id or by
// reference) yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatsNotFound is returned when one or more requested seat ids do
// not resolve under the given event.
var ErrSeatsNotFound = errors.New("some seats not found")

// ErrInsufficientInventory is returned when the event's available-seat
// counter is lower than the number of requested seats. With a correct
// ledger this cannot happen while the seats themselves are unbooked;
// it is kept as a defense against counter drift.
var ErrInsufficientInventory = errors.New("not enough seats available")

// ErrDuplicateReference is returned when a booking insert violates the
// uniqueness constraint on booking_reference. The caller regenerates
// the reference and retries the insert.
var ErrDuplicateReference = errors.New("booking reference already exists")

// ErrBookingFailed is the catch-all for transient storage failures:
// lock wait timeouts, deadlocks, lost connections. No partial state is
// ever left behind, so the client may retry the whole booking.
var ErrBookingFailed = errors.New("booking failed")

// SeatsAlreadyClaimedError reports a race lost to a concurrent
// booking. Seats carries the human-readable labels (row+number) of
// the conflicting seats so the client can re-render availability.
type SeatsAlreadyClaimedError struct {
	Seats []string
}

func (e *SeatsAlreadyClaimedError) Error() string {
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.Seats, ", "))
}

// MySQL server error numbers this package reacts to.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// isTransient reports whether err is a lock wait timeout or deadlock,
// both of which abort the transaction without leaving state behind.
func isTransient(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock
	}
	return false
}

// wrapStorage classifies a raw database error: transient failures are
// folded into ErrBookingFailed so callers can surface a retryable
// error, anything else is wrapped with context.
func wrapStorage(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrBookingFailed, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
