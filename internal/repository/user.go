// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/account-service/internal/models"
	"github.com/google/uuid"
)

// CreateUser inserts a new user. ID and timestamps are filled in when empty.
// A taken email yields ErrDuplicateEmail.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, birth_date, email, password_hash, verified, created_at, updated_at)
		 VALUES (:id, :first_name, :last_name, :birth_date, :email, :password_hash, :verified, :created_at, :updated_at)`,
		user)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT * FROM users WHERE email = ?`), email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UpdateUserPassword replaces a user's password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return expectAffected(r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
		passwordHash, time.Now().UTC(), id))
}

// SetUserVerified sets the verified flag of a user.
func (r *Repository) SetUserVerified(ctx context.Context, id string, verified bool) error {
	return expectAffected(r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET verified = ?, updated_at = ? WHERE id = ?`),
		verified, time.Now().UTC(), id))
}

// DeleteUser deletes a user by ID. Tickets are removed by cascade.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	return err
}
