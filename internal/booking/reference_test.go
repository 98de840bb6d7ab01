package booking

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var referencePattern = regexp.MustCompile(`^BK\d{13,}\d{3}$`)

func TestNewReferenceFormat(t *testing.T) {
	ref := NewReference()
	assert.Regexp(t, referencePattern, ref)
}

func TestNewReferenceMostlyUnique(t *testing.T) {
	// References are not guaranteed unique; the coordinator retries on
	// collision. Still, a small batch should be almost entirely distinct.
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[NewReference()] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}
