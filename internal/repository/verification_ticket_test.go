// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/account-service/internal/models"
	"codeberg.org/oliverandrich/account-service/internal/repository"
	"codeberg.org/oliverandrich/account-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerificationTicket(userID, hash string, createdAt time.Time) *models.VerificationTicket {
	return &models.VerificationTicket{Ticket: models.Ticket{
		UserID:    userID,
		TokenHash: hash,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(6 * time.Hour),
	}}
}

func TestCreateVerificationTicket(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "test@example.com")
	createdAt := time.Now().UTC()
	ticket := newVerificationTicket(user.ID, "abc123hash", createdAt)

	err := repo.CreateVerificationTicket(ctx, ticket)

	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)

	stored, err := repo.GetVerificationTicketByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, stored.ID)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, "abc123hash", stored.TokenHash)
	assert.WithinDuration(t, createdAt, stored.CreatedAt, time.Second)
	assert.WithinDuration(t, createdAt.Add(6*time.Hour), stored.ExpiresAt, time.Second)
}

func TestCreateVerificationTicket_UnknownUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.CreateVerificationTicket(context.Background(), newVerificationTicket("missing", "hash", time.Now().UTC()))

	assert.Error(t, err)
}

func TestGetVerificationTicketByUserID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetVerificationTicketByUserID(context.Background(), "nobody")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetVerificationTicketByUserID_ReturnsNewest(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "test@example.com")
	now := time.Now().UTC()
	require.NoError(t, repo.CreateVerificationTicket(ctx, newVerificationTicket(user.ID, "old", now.Add(-time.Hour))))
	require.NoError(t, repo.CreateVerificationTicket(ctx, newVerificationTicket(user.ID, "new", now)))

	ticket, err := repo.GetVerificationTicketByUserID(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "new", ticket.TokenHash)
}

func TestDeleteVerificationTicket(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "test@example.com")
	ticket := newVerificationTicket(user.ID, "hash", time.Now().UTC())
	require.NoError(t, repo.CreateVerificationTicket(ctx, ticket))

	err := repo.DeleteVerificationTicket(ctx, ticket.ID)
	require.NoError(t, err)

	_, err = repo.GetVerificationTicketByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteUserVerificationTickets(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "test@example.com")
	other := testutil.NewTestUser(t, repo, "other@example.com")
	now := time.Now().UTC()
	require.NoError(t, repo.CreateVerificationTicket(ctx, newVerificationTicket(user.ID, "token1", now)))
	require.NoError(t, repo.CreateVerificationTicket(ctx, newVerificationTicket(user.ID, "token2", now)))
	require.NoError(t, repo.CreateVerificationTicket(ctx, newVerificationTicket(other.ID, "token3", now)))

	err := repo.DeleteUserVerificationTickets(ctx, user.ID)
	require.NoError(t, err)

	_, err = repo.GetVerificationTicketByUserID(ctx, user.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Other users keep their tickets
	ticket, err := repo.GetVerificationTicketByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "token3", ticket.TokenHash)
}
