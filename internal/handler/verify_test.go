package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-booking/internal/repository"
)

// fakeFinder returns a canned verification result and records the
// reference it was asked for.
type fakeFinder struct {
	vb  *repository.VerifiedBooking
	err error
	got string
}

func (f *fakeFinder) GetByReference(_ context.Context, reference string) (*repository.VerifiedBooking, error) {
	f.got = reference
	return f.vb, f.err
}

func getVerify(t *testing.T, finder *fakeFinder, reference string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := &VerifyHandler{Bookings: finder}

	req := httptest.NewRequest(http.MethodGet, "/api/verify-ticket/"+reference, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/verify-ticket/:reference")
	c.SetParamNames("reference")
	c.SetParamValues(reference)

	require.NoError(t, h.VerifyTicket(c))
	return rec
}

func TestVerifyTicketFound(t *testing.T) {
	finder := &fakeFinder{vb: &repository.VerifiedBooking{
		BookingID:        42,
		Reference:        "BK1759348800000123",
		Status:           "confirmed",
		SeatsBooked:      2,
		TotalAmountCents: 5000,
		CreatedAt:        time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		EventTitle:       "Evening Concert",
		Venue:            "City Hall",
		EventDate:        time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC),
		HolderName:       "Dana Reyes",
		Seats:            []string{"A1", "A2"},
	}}

	rec := getVerify(t, finder, "BK1759348800000123")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BK1759348800000123", finder.got)

	var resp struct {
		Valid   bool                       `json:"valid"`
		Booking repository.VerifiedBooking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	// a scan must reproduce exactly what the booking stored
	assert.Equal(t, []string{"A1", "A2"}, resp.Booking.Seats)
	assert.Equal(t, uint32(5000), resp.Booking.TotalAmountCents)
	assert.Equal(t, "Dana Reyes", resp.Booking.HolderName)
	assert.Equal(t, "confirmed", resp.Booking.Status)
}

func TestVerifyTicketUnknownReference(t *testing.T) {
	finder := &fakeFinder{err: repository.ErrBookingNotFound}
	rec := getVerify(t, finder, "BK0000000000000000")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["valid"])
}

func TestVerifyTicketStorageError(t *testing.T) {
	finder := &fakeFinder{err: errors.New("connection reset")}
	rec := getVerify(t, finder, "BK1759348800000123")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
