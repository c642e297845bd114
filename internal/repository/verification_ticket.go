// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/account-service/internal/models"
	"github.com/google/uuid"
)

// CreateVerificationTicket stores a new email verification ticket.
func (r *Repository) CreateVerificationTicket(ctx context.Context, ticket *models.VerificationTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO verification_tickets (id, user_id, token_hash, created_at, expires_at)
		 VALUES (:id, :user_id, :token_hash, :created_at, :expires_at)`,
		ticket)
	return err
}

// GetVerificationTicketByUserID returns the newest verification ticket of a user.
func (r *Repository) GetVerificationTicketByUserID(ctx context.Context, userID string) (*models.VerificationTicket, error) {
	var ticket models.VerificationTicket
	err := r.db.GetContext(ctx, &ticket,
		r.db.Rebind(`SELECT * FROM verification_tickets WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`),
		userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &ticket, nil
}

// DeleteVerificationTicket deletes a ticket by ID.
func (r *Repository) DeleteVerificationTicket(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM verification_tickets WHERE id = ?`), id)
	return err
}

// DeleteUserVerificationTickets deletes all verification tickets of a user.
func (r *Repository) DeleteUserVerificationTickets(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM verification_tickets WHERE user_id = ?`), userID)
	return err
}
