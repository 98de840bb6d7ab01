package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatLabel(t *testing.T) {
	assert.Equal(t, "A12", Seat{RowName: "A", SeatNumber: "12"}.Label())
	assert.Equal(t, "BB3", Seat{RowName: "BB", SeatNumber: "3"}.Label())
}

func TestUserSummaryDisplayName(t *testing.T) {
	assert.Equal(t, "Dana Reyes", UserSummary{Username: "dana", FullName: "Dana Reyes"}.DisplayName())
	assert.Equal(t, "dana", UserSummary{Username: "dana"}.DisplayName())
}
