// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/account-service/internal/models"
	"github.com/google/uuid"
)

// CreateResetTicket stores a new password reset ticket.
func (r *Repository) CreateResetTicket(ctx context.Context, ticket *models.ResetTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reset_tickets (id, user_id, token_hash, created_at, expires_at)
		 VALUES (:id, :user_id, :token_hash, :created_at, :expires_at)`,
		ticket)
	return err
}

// GetResetTicketByUserID returns the newest reset ticket of a user.
func (r *Repository) GetResetTicketByUserID(ctx context.Context, userID string) (*models.ResetTicket, error) {
	var ticket models.ResetTicket
	err := r.db.GetContext(ctx, &ticket,
		r.db.Rebind(`SELECT * FROM reset_tickets WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`),
		userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &ticket, nil
}

// CountUserResetTickets returns the number of reset tickets stored for a user.
func (r *Repository) CountUserResetTickets(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM reset_tickets WHERE user_id = ?`), userID)
	return count, err
}

// DeleteResetTicket deletes a ticket by ID.
func (r *Repository) DeleteResetTicket(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM reset_tickets WHERE id = ?`), id)
	return err
}

// DeleteUserResetTickets deletes all reset tickets of a user.
func (r *Repository) DeleteUserResetTickets(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM reset_tickets WHERE user_id = ?`), userID)
	return err
}
