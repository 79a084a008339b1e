package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/authgate/internal/common"
)

func TestInMemory_CreateAndGet(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	ctx := context.Background()

	created, err := m.CreateUser(ctx, &User{Username: "alice", Email: "a@x.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if created.PasswordHash != "" {
		t.Fatalf("created identity must not carry the credential representation")
	}

	user, err := m.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if user == nil || user.PasswordHash != "h" {
		t.Fatalf("expected stored record back, got %+v", user)
	}
}

func TestInMemory_DuplicateIsConflict(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	ctx := context.Background()

	if _, err := m.CreateUser(ctx, &User{Username: "alice"}); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	_, err := m.CreateUser(ctx, &User{Username: "alice"})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected common.ErrConflict, got %v", err)
	}
}

func TestInMemory_UnknownUserIsNilNil(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	user, err := m.GetUser(context.Background(), "nobody")
	if err != nil || user != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", user, err)
	}
}
