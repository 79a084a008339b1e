// Package common defines shared constants and sentinel errors used across
// authgate components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Directory (backend) errors.
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("directory unavailable")
	ErrInconsistent = errors.New("inconsistent directory response")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Credential hashing errors.
	ErrMalformedRecord = errors.New("malformed credential record")

	// Token lifecycle errors.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)
