// Package auth turns a bearer credential into a verified identity. The
// ledger core only ever sees the output contract: an opaque tenant id and
// a role, resolved before any shard key exists.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tally/internal/storage"
)

const (
	RoleUser       Role = "user"
	RoleSuperadmin Role = "superadmin"
)

type Role string

// Identity is the verified output of a Provider.
type Identity struct {
	TenantID string
	Role     Role
}

// IsSuperadmin reports whether the identity may select another tenant's
// shards explicitly.
func (i Identity) IsSuperadmin() bool {
	return i.Role == RoleSuperadmin
}

var ErrInvalidToken = errors.New("invalid or expired token")

// Provider verifies a credential and produces an identity.
type Provider interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StoreProvider resolves API tokens against the global identity store.
type StoreProvider struct {
	users *storage.UserStore
}

func NewStoreProvider(users *storage.UserStore) *StoreProvider {
	return &StoreProvider{users: users}
}

func (p *StoreProvider) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	user, err := p.users.GetUserByToken(ctx, token)
	if errors.Is(err, storage.ErrNoUser) {
		return Identity{}, ErrInvalidToken
	}
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}
	return Identity{
		TenantID: strconv.FormatInt(user.ID, 10),
		Role:     Role(user.Role),
	}, nil
}

// StaticProvider maps fixed tokens to identities. Used by tests and local
// setups without an identity store.
type StaticProvider map[string]Identity

func (p StaticProvider) Verify(_ context.Context, token string) (Identity, error) {
	id, ok := p[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
