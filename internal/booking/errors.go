package booking

import "errors"

// ErrInvalidRequest is returned for malformed booking input: missing
// ids, an empty or duplicated seat list, or a total amount that does
// not match the event's per-seat price. It is raised before, or
// without, mutating any storage.
var ErrInvalidRequest = errors.New("invalid booking request")
