// Package booking implements the booking transaction coordinator: it
// orchestrates the seat claim, booking insert and counter update as
// one database transaction, then runs the post-commit enrichment
// steps (ticket artifact, watcher notification) that are allowed to
// fail independently of the booking's durability.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/event-ticket-booking/internal/model"
	"github.com/iliyamo/event-ticket-booking/internal/queue"
	"github.com/iliyamo/event-ticket-booking/internal/repository"
	"github.com/iliyamo/event-ticket-booking/internal/ticket"
)

// Ledger is the seat ledger contract: exclusive row locks plus
// validation, and the ownership flip once the booking row exists.
// Both calls run inside the coordinator's transaction.
type Ledger interface {
	LockSeats(ctx context.Context, tx *sql.Tx, eventID uint64, seatIDs []uint64) ([]model.Seat, error)
	AssignSeats(ctx context.Context, tx *sql.Tx, bookingID, eventID uint64, seatIDs []uint64) (remaining uint32, err error)
}

// EventStore loads event data inside the transaction.
type EventStore interface {
	GetSummaryTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.EventSummary, error)
}

// UserStore loads the requester's display data inside the transaction.
type UserStore interface {
	GetSummaryTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.UserSummary, error)
}

// BookingStore persists the booking row and, post-commit, the ticket
// artifact.
type BookingStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	AttachArtifact(ctx context.Context, bookingID uint64, artifact string) error
}

// ArtifactGenerator produces the encoded ticket image for a committed
// booking.
type ArtifactGenerator interface {
	Generate(d ticket.Data) (string, error)
}

// Notifier broadcasts seat-state deltas to watchers. Publish failures
// are logged, never surfaced.
type Notifier interface {
	PublishSeatsUpdated(ctx context.Context, ev queue.SeatsUpdatedEvent) error
}

// Request is one booking attempt. The requester identity comes from
// the external auth collaborator as a verified user id.
type Request struct {
	UserID      uint64
	EventID     uint64
	SeatIDs     []uint64
	AmountCents uint32
}

// Result is the outcome of a successful booking. TicketArtifact is
// nil when artifact generation failed; the booking itself is still
// durable and the artifact can be regenerated later by reference.
type Result struct {
	BookingID      uint64
	Reference      string
	SeatIDs        []uint64
	SeatLabels     []string
	TicketArtifact *string
}

// referenceAttempts bounds how often a duplicate booking reference is
// regenerated before giving up with a retryable error.
const referenceAttempts = 3

// Coordinator owns the cross-entity transaction boundary of a
// booking. It is safe for concurrent use; correctness under
// concurrency comes entirely from the storage layer's row locks, not
// from in-process synchronization, so any number of instances may run
// against the same database.
type Coordinator struct {
	db       *sql.DB
	ledger   Ledger
	events   EventStore
	users    UserStore
	bookings BookingStore
	tickets  ArtifactGenerator
	notifier Notifier
}

// NewCoordinator wires a Coordinator. notifier may be nil when no
// broker is configured; every other dependency is required.
func NewCoordinator(db *sql.DB, ledger Ledger, events EventStore, users UserStore, bookings BookingStore, tickets ArtifactGenerator, notifier Notifier) *Coordinator {
	if db == nil || ledger == nil || events == nil || users == nil || bookings == nil || tickets == nil {
		panic("nil dependency passed to NewCoordinator")
	}
	return &Coordinator{
		db:       db,
		ledger:   ledger,
		events:   events,
		users:    users,
		bookings: bookings,
		tickets:  tickets,
		notifier: notifier,
	}
}

// BookSeats books the requested seats for the user as one atomic
// transaction. Either the booking, the seat ownership flips and the
// counter decrement all commit together, or none of them do. On
// success the ticket artifact and the watcher notification are
// attempted after the commit; both are best effort.
//
// Two concurrent calls with overlapping seat sets cannot both
// succeed: the row locks serialize them and the loser sees
// SeatsAlreadyClaimedError (or ErrInsufficientInventory). Calls on
// disjoint seat sets of the same event proceed without contention.
func (c *Coordinator) BookSeats(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", repository.ErrBookingFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seats, err := c.ledger.LockSeats(ctx, tx, req.EventID, req.SeatIDs)
	if err != nil {
		return nil, classify(err)
	}

	event, err := c.events.GetSummaryTx(ctx, tx, req.EventID)
	if err != nil {
		return nil, classify(err)
	}
	// The coordinator does not trust the caller's figure: the total
	// must equal the event's per-seat price times the seat count.
	if want := event.PriceCents * uint32(len(seats)); want != req.AmountCents {
		return nil, fmt.Errorf("%w: total %d does not match %d seats at %d cents each",
			ErrInvalidRequest, req.AmountCents, len(seats), event.PriceCents)
	}

	user, err := c.users.GetSummaryTx(ctx, tx, req.UserID)
	if err != nil {
		return nil, classify(err)
	}

	b := &model.Booking{
		UserID:           req.UserID,
		EventID:          req.EventID,
		SeatsBooked:      uint32(len(seats)),
		TotalAmountCents: req.AmountCents,
		Status:           model.BookingStatusConfirmed,
	}
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		b.Reference = NewReference()
		err = c.bookings.CreateTx(ctx, tx, b)
		if !errors.Is(err, repository.ErrDuplicateReference) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return nil, fmt.Errorf("%w: could not allocate a unique reference", repository.ErrBookingFailed)
		}
		return nil, classify(err)
	}

	remaining, err := c.ledger.AssignSeats(ctx, tx, b.ID, req.EventID, req.SeatIDs)
	if err != nil {
		return nil, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", repository.ErrBookingFailed, err)
	}
	committed = true

	res := &Result{
		BookingID:  b.ID,
		Reference:  b.Reference,
		SeatIDs:    make([]uint64, len(seats)),
		SeatLabels: make([]string, len(seats)),
	}
	for i, s := range seats {
		res.SeatIDs[i] = s.ID
		res.SeatLabels[i] = s.Label()
	}

	// Post-commit enrichment. The booking is durable at this point;
	// artifact and notification failures are logged and degrade
	// gracefully, they can never undo it.
	artifact, err := c.tickets.Generate(ticket.Data{
		BookingID:   b.ID,
		Reference:   b.Reference,
		EventTitle:  event.Title,
		Venue:       event.Venue,
		EventDate:   event.EventDate,
		SeatLabels:  res.SeatLabels,
		AmountCents: req.AmountCents,
		HolderName:  user.DisplayName(),
	})
	if err != nil {
		log.Printf("booking: ticket artifact for %s failed: %v", b.Reference, err)
	} else {
		res.TicketArtifact = &artifact
		if err := c.bookings.AttachArtifact(ctx, b.ID, artifact); err != nil {
			log.Printf("booking: attach artifact for %s failed: %v", b.Reference, err)
		}
	}

	if c.notifier != nil {
		// remaining was read under the event row lock, so it reflects
		// every booking committed before this one and never overstates
		// availability the way the pre-transaction summary could.
		ev := queue.SeatsUpdatedEvent{
			EventID:        req.EventID,
			BookedSeatIDs:  res.SeatIDs,
			AvailableSeats: remaining,
			OccurredAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := c.notifier.PublishSeatsUpdated(ctx, ev); err != nil {
			log.Printf("booking: seats-updated publish for event %d failed: %v", req.EventID, err)
		}
	}

	return res, nil
}

// validate rejects malformed requests before any storage access.
func validate(req Request) error {
	if req.UserID == 0 || req.EventID == 0 || req.AmountCents == 0 {
		return fmt.Errorf("%w: missing required fields", ErrInvalidRequest)
	}
	if len(req.SeatIDs) == 0 {
		return fmt.Errorf("%w: no seats selected", ErrInvalidRequest)
	}
	seen := make(map[uint64]struct{}, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if id == 0 {
			return fmt.Errorf("%w: invalid seat id", ErrInvalidRequest)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate seat id %d", ErrInvalidRequest, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// classify passes taxonomy errors through unchanged and folds any
// other storage failure into ErrBookingFailed, the retryable
// catch-all: the transaction rolled back, so nothing is left behind.
func classify(err error) error {
	var claimed *repository.SeatsAlreadyClaimedError
	switch {
	case errors.Is(err, repository.ErrSeatsNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrInsufficientInventory),
		errors.Is(err, repository.ErrBookingFailed),
		errors.As(err, &claimed):
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrBookingFailed, err)
}
