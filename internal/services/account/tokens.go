// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes secrets and compares them against stored hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) (bool, error)
}

// BcryptHasher hashes with bcrypt at a fixed cost.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost if cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// maxSecretLength is the number of bytes bcrypt takes into account.
const maxSecretLength = 72

// Compare reports a mismatch as (false, nil); any other bcrypt failure is returned.
// Secrets longer than bcrypt can hash never match.
func (h *BcryptHasher) Compare(hash, plaintext string) (bool, error) {
	if len(plaintext) > maxSecretLength {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch err {
	case nil:
		return true, nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, err
	}
}

// TokenFunc produces the plaintext token for a ticket owned by userID.
type TokenFunc func(userID string) string

// NewToken returns a random UUID suffixed with the user id.
func NewToken(userID string) string {
	return uuid.NewString() + userID
}
