// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Ticket is a time-limited, single-use credential bound to a user.
// Only the bcrypt hash of the token is stored.
type Ticket struct { //nolint:govet // fieldalignment: readability over optimization
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	TokenHash string    `db:"token_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}

// Expired reports whether the ticket is no longer live at now.
func (t *Ticket) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// VerificationTicket proves control of an email address during signup.
type VerificationTicket struct {
	Ticket
}

// ResetTicket grants the right to replace a user's password.
type ResetTicket struct {
	Ticket
}
