// Package directory implements the client side of the user directory
// contract: the external service of record for user accounts, reached over
// a GraphQL-style query endpoint authenticated with an admin secret header.
//
// The gateway holds no durable copy of any account; everything flows
// through this contract.
package directory

import "context"

// User is an account as the directory stores it: the identity plus the
// stored credential representation. PasswordHash is opaque to the
// directory and never reversible to plaintext.
type User struct {
	Username     string
	Email        string
	PasswordHash string
}

// Client translates create/fetch-user intents into directory queries.
//
// Implementations map outcomes onto the common sentinels:
//   - a duplicate account on CreateUser yields common.ErrConflict
//   - transport failures and timeouts yield common.ErrUnavailable
//   - a malformed or empty successful response yields common.ErrInconsistent
//
// GetUser returns (nil, nil) when the username does not exist, so callers
// can collapse "unknown user" and "wrong password" into one response.
type Client interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, username string) (*User, error)
}
