// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package account implements registration with email verification,
// password sign-in and password reset.
package account

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/account-service/internal/models"
)

const (
	DefaultVerificationTTL = 6 * time.Hour
	DefaultResetTTL        = time.Hour
)

// Store persists users and their tickets.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	SetUserVerified(ctx context.Context, id string, verified bool) error
	DeleteUser(ctx context.Context, id string) error

	CreateVerificationTicket(ctx context.Context, ticket *models.VerificationTicket) error
	GetVerificationTicketByUserID(ctx context.Context, userID string) (*models.VerificationTicket, error)
	DeleteVerificationTicket(ctx context.Context, id string) error
	DeleteUserVerificationTickets(ctx context.Context, userID string) error

	CreateResetTicket(ctx context.Context, ticket *models.ResetTicket) error
	GetResetTicketByUserID(ctx context.Context, userID string) (*models.ResetTicket, error)
	DeleteResetTicket(ctx context.Context, id string) error
	DeleteUserResetTickets(ctx context.Context, userID string) error
}

// Mailer delivers an HTML message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	// BaseURL prefixes verification links, e.g. "http://localhost:5000".
	BaseURL         string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	Hasher          Hasher
	Token           TokenFunc
	Now             func() time.Time
}

// Service runs the account flows.
type Service struct {
	store           Store
	mailer          Mailer
	hasher          Hasher
	token           TokenFunc
	now             func() time.Time
	baseURL         string
	verificationTTL time.Duration
	resetTTL        time.Duration
}

func NewService(store Store, mailer Mailer, opts Options) *Service {
	s := &Service{
		store:           store,
		mailer:          mailer,
		hasher:          opts.Hasher,
		token:           opts.Token,
		now:             opts.Now,
		baseURL:         opts.BaseURL,
		verificationTTL: opts.VerificationTTL,
		resetTTL:        opts.ResetTTL,
	}
	if s.hasher == nil {
		s.hasher = NewBcryptHasher(0)
	}
	if s.token == nil {
		s.token = NewToken
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.verificationTTL <= 0 {
		s.verificationTTL = DefaultVerificationTTL
	}
	if s.resetTTL <= 0 {
		s.resetTTL = DefaultResetTTL
	}
	return s
}

// issue creates a plaintext token for userID and returns it with its hash.
func (s *Service) issue(userID string) (plaintext, hash string, err error) {
	plaintext = s.token(userID)
	hash, err = s.hasher.Hash(plaintext)
	if err != nil {
		return "", "", newError(KindStore, CodeInternal, err)
	}
	return plaintext, hash, nil
}

// matches compares a presented token or password against a stored hash.
func (s *Service) matches(hash, plaintext, mismatchCode string) error {
	ok, err := s.hasher.Compare(hash, plaintext)
	if err != nil {
		return newError(KindStore, CodeInternal, err)
	}
	if !ok {
		return newError(KindMismatch, mismatchCode, nil)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to, subject, body string) error {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		return newError(KindMail, CodeMailFailed, err)
	}
	return nil
}
