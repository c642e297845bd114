// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/account-service/internal/i18n"
	"codeberg.org/oliverandrich/account-service/internal/models"
	"codeberg.org/oliverandrich/account-service/internal/repository"
)

// RequestPasswordReset replaces any reset ticket of the user behind email
// and mails a link of the form redirectURL/<userID>/<token>.
func (s *Service) RequestPasswordReset(ctx context.Context, email, redirectURL string) Result {
	user, err := s.requestPasswordReset(ctx, strings.TrimSpace(email), redirectURL)
	if err != nil {
		return failed(ctx, "reset_request_failed", err)
	}
	slog.InfoContext(ctx, "reset_pending", "user_id", user.ID)
	return result(ctx, StatusPending, CodeResetPending, nil)
}

func (s *Service) requestPasswordReset(ctx context.Context, email, redirectURL string) (*models.User, error) {
	if err := validateRedirectURL(redirectURL); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, CodeResetUserNotFound, err)
	}
	if err != nil {
		return nil, storeError("looking up user", err)
	}
	if !user.Verified {
		return nil, newError(KindValidation, CodeResetNotVerified, nil)
	}

	if err := s.store.DeleteUserResetTickets(ctx, user.ID); err != nil {
		return nil, storeError("clearing reset tickets", err)
	}

	plaintext, hash, err := s.issue(user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ticket := &models.ResetTicket{Ticket: models.Ticket{
		UserID:    user.ID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetTTL),
	}}
	if err := s.store.CreateResetTicket(ctx, ticket); err != nil {
		return nil, storeError("creating reset ticket", err)
	}

	link := redirectURL + "/" + user.ID + "/" + plaintext
	body := i18n.TData(ctx, "email_reset_body", map[string]any{
		"Link":    html.EscapeString(link),
		"Minutes": int(s.resetTTL.Minutes()),
	})
	if err := s.send(ctx, user.Email, i18n.T(ctx, "email_reset_subject"), body); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword replaces the user's password if resetString matches their
// live reset ticket.
func (s *Service) ResetPassword(ctx context.Context, userID, resetString, newPassword string) Result {
	if err := s.resetPassword(ctx, userID, resetString, newPassword); err != nil {
		return failed(ctx, "reset_failed", err)
	}
	slog.InfoContext(ctx, "reset_success", "user_id", userID)
	return result(ctx, StatusSuccess, CodeResetSuccess, nil)
}

func (s *Service) resetPassword(ctx context.Context, userID, resetString, newPassword string) error {
	ticket, err := s.store.GetResetTicketByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(KindNotFound, CodeResetNotFound, err)
	}
	if err != nil {
		return storeError("looking up reset ticket", err)
	}

	if ticket.Expired(s.now()) {
		if err := s.store.DeleteResetTicket(ctx, ticket.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storeError("deleting expired reset ticket", err)
		}
		return newError(KindExpired, CodeResetExpired, nil)
	}

	if err := s.matches(ticket.TokenHash, resetString, CodeResetMismatch); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return newError(KindStore, CodeInternal, err)
	}
	if err := s.store.UpdateUserPassword(ctx, userID, passwordHash); err != nil {
		return storeError("updating password", err)
	}
	if err := s.store.DeleteResetTicket(ctx, ticket.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError("deleting reset ticket", err)
	}
	return nil
}
