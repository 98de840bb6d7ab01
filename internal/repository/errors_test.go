package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestSeatsAlreadyClaimedErrorMessage(t *testing.T) {
	err := &SeatsAlreadyClaimedError{Seats: []string{"A1", "B4"}}
	assert.Equal(t, "seats no longer available: A1, B4", err.Error())

	var target *SeatsAlreadyClaimedError
	assert.True(t, errors.As(fmt.Errorf("book: %w", err), &target))
	assert.Equal(t, []string{"A1", "B4"}, target.Seats)
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert booking: %w", dup)))
	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1213}))
	assert.False(t, isDuplicateEntry(errors.New("plain")))
}

func TestWrapStorageTransient(t *testing.T) {
	for _, num := range []uint16{1205, 1213} {
		err := wrapStorage("lock seats", &mysql.MySQLError{Number: num})
		assert.ErrorIs(t, err, ErrBookingFailed)
	}
}

func TestWrapStorageOther(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapStorage("lock seats", cause)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrBookingFailed)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
