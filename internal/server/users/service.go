// Package users contains the gateway's account flows: registration and
// login. The directory is the system of record; this service only hashes,
// verifies, and mints tokens.
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/directory"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/creds"
)

// Identity is what registration reveals to the caller: never the hash.
type Identity struct {
	Username string
	Email    string
}

type Service struct {
	dir                   directory.Client
	hasher                *creds.Hasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration

	// dummyRecord is verified against on login for unknown usernames, so
	// the unknown-user and wrong-password paths cost the same.
	dummyRecord string
}

func NewService(dir directory.Client, hasher *creds.Hasher, cfg *config.Config) (*Service, error) {
	dummyRecord, err := hasher.Hash([]byte("equalize-timing-placeholder"))
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy record: %w", err)
	}

	return &Service{
		dir:                   dir,
		hasher:                hasher,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		dummyRecord:           dummyRecord,
	}, nil
}

// Register hashes the supplied password and persists the new account in the
// directory. Directory sentinels (ErrConflict, ErrUnavailable,
// ErrInconsistent) pass through for the transport layer to map.
func (s *Service) Register(ctx context.Context, username, password, email string) (*Identity, error) {
	record, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	created, err := s.dir.CreateUser(ctx, &directory.User{
		Username:     username,
		Email:        email,
		PasswordHash: record,
	})
	if err != nil {
		return nil, err
	}

	return &Identity{Username: created.Username, Email: created.Email}, nil
}

// Login fetches the stored credential representation for username, verifies
// password against it, and on success mints a session token. Unknown user
// and wrong password both return common.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.dir.GetUser(ctx, username)
	if err != nil {
		return "", err
	}

	if user == nil {
		// Burn the same bcrypt work the real path would.
		_, _ = s.hasher.Verify([]byte(password), s.dummyRecord)
		return "", common.ErrUnauthorized
	}

	ok, err := s.hasher.Verify([]byte(password), user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("error verifying credential record: %w", err)
	}
	if !ok {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}
