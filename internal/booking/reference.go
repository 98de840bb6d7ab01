package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewReference generates a booking reference: "BK", the current Unix
// time in milliseconds, and a three-digit random suffix. The result
// is human-typable and unique with overwhelming probability, but not
// guaranteed. The UNIQUE constraint on the booking_reference column
// is the backstop, and the coordinator regenerates on a duplicate-key
// insert.
func NewReference() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	} else {
		suffix = time.Now().UnixNano() % 1000
	}
	return fmt.Sprintf("BK%d%03d", time.Now().UnixMilli(), suffix)
}
