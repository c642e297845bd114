// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/account-service/internal/i18n"
	"codeberg.org/oliverandrich/account-service/internal/models"
	"codeberg.org/oliverandrich/account-service/internal/repository"
)

// Signup registers an unverified user and mails a verification link.
// A pending registration for the same email is replaced.
func (s *Service) Signup(ctx context.Context, params SignupParams) Result {
	user, err := s.signup(ctx, params.normalize())
	if err != nil {
		return failed(ctx, "signup_failed", err)
	}
	slog.InfoContext(ctx, "signup_pending", "user_id", user.ID, "email", user.Email)
	return result(ctx, StatusPending, CodeSignupPending, nil)
}

func (s *Service) signup(ctx context.Context, p SignupParams) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	birthDate, err := time.Parse(BirthDateLayout, p.BirthDate)
	if err != nil {
		return nil, newError(KindValidation, CodeSignupInvalidBirthDate, err)
	}

	if err := s.releaseEmail(ctx, p.Email); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, newError(KindStore, CodeInternal, err)
	}

	user := &models.User{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		BirthDate:    birthDate,
		Email:        p.Email,
		PasswordHash: passwordHash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, newError(KindConflict, CodeSignupEmailTaken, err)
		}
		return nil, storeError("creating user", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// releaseEmail fails if email belongs to a verified user and removes an
// unverified one together with its tickets.
func (s *Service) releaseEmail(ctx context.Context, email string) error {
	existing, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeError("looking up email", err)
	}
	if existing.Verified {
		return newError(KindConflict, CodeSignupEmailTaken, nil)
	}
	if err := s.store.DeleteUserVerificationTickets(ctx, existing.ID); err != nil {
		return storeError("clearing verification tickets", err)
	}
	if err := s.store.DeleteUser(ctx, existing.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError("replacing unverified user", err)
	}
	slog.InfoContext(ctx, "signup_replaced", "user_id", existing.ID, "email", email)
	return nil
}

func (s *Service) sendVerification(ctx context.Context, user *models.User) error {
	plaintext, hash, err := s.issue(user.ID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	ticket := &models.VerificationTicket{Ticket: models.Ticket{
		UserID:    user.ID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.verificationTTL),
	}}
	if err := s.store.CreateVerificationTicket(ctx, ticket); err != nil {
		return storeError("creating verification ticket", err)
	}

	link := s.baseURL + "/user/verify/" + user.ID + "/" + plaintext
	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"Link":  html.EscapeString(link),
		"Hours": int(s.verificationTTL.Hours()),
	})
	return s.send(ctx, user.Email, i18n.T(ctx, "email_verification_subject"), body)
}

// Verify marks the user verified if token matches their live verification ticket
// and returns the verified user as Data.
// An expired ticket removes the pending registration.
func (s *Service) Verify(ctx context.Context, userID, token string) Result {
	user, err := s.verify(ctx, userID, token)
	if err != nil {
		return failed(ctx, "verification_failed", err)
	}
	slog.InfoContext(ctx, "verification_success", "user_id", user.ID, "email", user.Email)
	return result(ctx, StatusSuccess, CodeVerificationSuccess, user)
}

func (s *Service) verify(ctx context.Context, userID, token string) (*models.User, error) {
	ticket, err := s.store.GetVerificationTicketByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, CodeVerificationNotFound, err)
	}
	if err != nil {
		return nil, storeError("looking up verification ticket", err)
	}

	if ticket.Expired(s.now()) {
		if err := s.store.DeleteVerificationTicket(ctx, ticket.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, storeError("deleting expired verification ticket", err)
		}
		if err := s.store.DeleteUser(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, storeError("deleting unverified user", err)
		}
		return nil, newError(KindExpired, CodeVerificationExpired, nil)
	}

	if err := s.matches(ticket.TokenHash, token, CodeVerificationMismatch); err != nil {
		return nil, err
	}

	if err := s.store.SetUserVerified(ctx, userID, true); err != nil {
		return nil, storeError("marking user verified", err)
	}
	if err := s.store.DeleteVerificationTicket(ctx, ticket.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError("deleting verification ticket", err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError("loading verified user", err)
	}
	return user, nil
}
