// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/account-service/internal/models"
	"codeberg.org/oliverandrich/account-service/internal/repository"
)

// SignIn checks email and password. The result data carries the user.
func (s *Service) SignIn(ctx context.Context, email, password string) Result {
	user, err := s.signIn(ctx, strings.TrimSpace(email), strings.TrimSpace(password))
	if err != nil {
		return failed(ctx, "signin_failed", err)
	}
	slog.InfoContext(ctx, "signin_success", "user_id", user.ID)
	return result(ctx, StatusSuccess, CodeSignInSuccess, user)
}

func (s *Service) signIn(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, newError(KindValidation, CodeSignInEmpty, nil)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, CodeSignInIncorrect, err)
	}
	if err != nil {
		return nil, storeError("looking up user", err)
	}

	if !user.Verified {
		return nil, newError(KindValidation, CodeSignInNotVerified, nil)
	}

	if err := s.matches(user.PasswordHash, password, CodeSignInInvalidPassword); err != nil {
		return nil, err
	}
	return user, nil
}
