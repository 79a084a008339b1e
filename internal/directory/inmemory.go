package directory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// InMemory is a map-backed Client for tests and offline development. Safe
// for concurrent use.
type InMemory struct {
	mu    sync.Mutex
	users map[string]*User
}

var _ Client = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[string]*User)}
}

func (m *InMemory) CreateUser(ctx context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Username]; ok {
		return nil, common.ErrConflict
	}

	stored := *user
	m.users[user.Username] = &stored

	return &User{Username: user.Username, Email: user.Email}, nil
}

func (m *InMemory) GetUser(ctx context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[username]
	if !ok {
		return nil, nil
	}

	copied := *user
	return &copied, nil
}
