// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"codeberg.org/oliverandrich/account-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_Expired(t *testing.T) {
	expiresAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ticket := &models.Ticket{ExpiresAt: expiresAt}

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{"well before expiry", expiresAt.Add(-time.Hour), false},
		{"just before expiry", expiresAt.Add(-time.Nanosecond), false},
		{"at expiry", expiresAt, true},
		{"after expiry", expiresAt.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ticket.Expired(tt.now))
		})
	}
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	user := models.User{
		ID:           "42",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$secret",
		Verified:     true,
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"email":"a@b.com"`)
	assert.Contains(t, string(data), `"verified":true`)
}

func TestTicket_JSONHidesTokenHash(t *testing.T) {
	ticket := models.ResetTicket{Ticket: models.Ticket{ID: "t1", UserID: "u1", TokenHash: "$2a$10$hash"}}

	data, err := json.Marshal(ticket)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "hash")
	assert.Contains(t, string(data), `"userId":"u1"`)
}
