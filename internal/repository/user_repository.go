package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-booking/internal/model"
)

// UserRepo reads the minimal user data this service needs. User
// creation, credentials and sessions belong to the external auth
// collaborator.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetSummaryTx loads a user's display data within the caller's
// transaction. Returns ErrUserNotFound when the user does not exist.
func (r *UserRepo) GetSummaryTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.UserSummary, error) {
	const q = `SELECT id, username, COALESCE(full_name, '') FROM users WHERE id = ?`
	var u model.UserSummary
	err := tx.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Username, &u.FullName)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, wrapStorage("load user summary", err)
	}
	return &u, nil
}
