// Package creds derives and verifies stored credential representations.
//
// The representation is a bcrypt string, which embeds algorithm version,
// cost and salt, so verification needs no side-channel configuration and
// cost upgrades keep older records verifiable.
package creds

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes plaintext passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. A cost of 0
// selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way representation of password. A fresh random
// salt is drawn on every call, so two hashes of the same password differ.
func (h *Hasher) Hash(password []byte) (string, error) {
	record, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(record), nil
}

// Verify recomputes the digest of password using the parameters embedded in
// record and compares in constant time. A mismatch returns (false, nil);
// an error is returned only when record is not a valid representation.
func (h *Hasher) Verify(password []byte, record string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(record), password)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
}
