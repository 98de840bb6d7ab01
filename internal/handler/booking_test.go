package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-booking/internal/booking"
	mw "github.com/iliyamo/event-ticket-booking/internal/middleware"
	"github.com/iliyamo/event-ticket-booking/internal/repository"
)

// fakeCoordinator returns a canned result or error and records the
// request it received.
type fakeCoordinator struct {
	res *booking.Result
	err error
	got booking.Request
}

func (f *fakeCoordinator) BookSeats(_ context.Context, req booking.Request) (*booking.Result, error) {
	f.got = req
	return f.res, f.err
}

const bookSecret = "handler-test-secret"

func bearerFor(t *testing.T, userID uint64) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(userID)})
	s, err := tok.SignedString([]byte(bookSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

// postBook routes the request through the identity middleware into
// BookingHandler.Book, mirroring production wiring.
func postBook(t *testing.T, co *fakeCoordinator, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := &BookingHandler{Coordinator: co}

	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", bearerFor(t, 3))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, mw.Identity(bookSecret)(h.Book)(c))
	return rec
}

func TestBookSuccess(t *testing.T) {
	artifact := "data:image/png;base64,AAAA"
	co := &fakeCoordinator{res: &booking.Result{
		BookingID:      42,
		Reference:      "BK1759348800000123",
		SeatIDs:        []uint64{11, 12},
		SeatLabels:     []string{"A1", "A2"},
		TicketArtifact: &artifact,
	}}

	rec := postBook(t, co, `{"event_id":7,"seat_ids":[11,12],"total_amount_cents":5000}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["booking_id"])
	assert.Equal(t, "BK1759348800000123", resp["booking_reference"])
	assert.Equal(t, []any{"A1", "A2"}, resp["seat_numbers"])
	assert.Equal(t, artifact, resp["ticket_artifact"])

	// user id comes from the token, never the body
	assert.Equal(t, uint64(3), co.got.UserID)
	assert.Equal(t, uint64(7), co.got.EventID)
	assert.Equal(t, uint32(5000), co.got.AmountCents)
}

func TestBookErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid request", booking.ErrInvalidRequest, http.StatusBadRequest},
		{"seats not found", repository.ErrSeatsNotFound, http.StatusBadRequest},
		{"event not found", repository.ErrEventNotFound, http.StatusNotFound},
		{"user not found", repository.ErrUserNotFound, http.StatusNotFound},
		{"insufficient inventory", repository.ErrInsufficientInventory, http.StatusConflict},
		{"booking failed", repository.ErrBookingFailed, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			co := &fakeCoordinator{err: tc.err}
			rec := postBook(t, co, `{"event_id":7,"seat_ids":[11],"total_amount_cents":2500}`)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestBookSeatConflictListsSeats(t *testing.T) {
	co := &fakeCoordinator{err: &repository.SeatsAlreadyClaimedError{Seats: []string{"A1", "B4"}}}
	rec := postBook(t, co, `{"event_id":7,"seat_ids":[11,12],"total_amount_cents":5000}`)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []any{"A1", "B4"}, resp["seats"])
}

func TestBookMalformedBody(t *testing.T) {
	co := &fakeCoordinator{}
	rec := postBook(t, co, `{"event_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookWithoutToken(t *testing.T) {
	e := echo.New()
	h := &BookingHandler{Coordinator: &fakeCoordinator{}}

	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, mw.Identity(bookSecret)(h.Book)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
