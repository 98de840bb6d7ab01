package model

// UserSummary is the read-only slice of the `users` table this
// service needs. Authentication and credential storage live in an
// external collaborator; here a user only lends a display name to
// the ticket artifact and ownership to bookings.
type UserSummary struct {
	ID       uint64 // users.id
	Username string // users.username
	FullName string // users.full_name (may be empty)
}

// DisplayName returns the name printed on tickets: the full name
// when present, otherwise the username.
func (u UserSummary) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
