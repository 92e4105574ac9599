package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/angelmondragon/gradevault-backend/pkg/redis"
)

// ErrBlankAccessID is returned for empty or whitespace access ids.
var ErrBlankAccessID = errors.New("session: access id is required")

// Store is the slice of the Redis client sessions need.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Manager tracks live access tokens. Each token's jti maps to the owning
// user id under gv:session:access:<jti> until it expires or is revoked.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) (*Manager, error) {
	switch {
	case store == nil:
		return nil, errors.New("session store is required")
	case ttl <= 0:
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

func (m *Manager) key(accessID string) (string, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return "", ErrBlankAccessID
	}
	return m.store.AccessSessionKey(accessID), nil
}

// Open records a session for userID. A blank accessID gets a fresh one.
func (m *Manager) Open(ctx context.Context, accessID, userID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		accessID = NewAccessID()
	}
	key, _ := m.key(accessID)
	if err := m.store.Set(ctx, key, userID, m.ttl); err != nil {
		return "", err
	}
	return accessID, nil
}

// Owner returns the user id stored for accessID, or "" when the session is
// gone.
func (m *Manager) Owner(ctx context.Context, accessID string) (string, error) {
	key, err := m.key(accessID)
	if err != nil {
		return "", err
	}
	owner, err := m.store.Get(ctx, key)
	if redisclient.IsNotFound(err) {
		return "", nil
	}
	return owner, err
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	owner, err := m.Owner(ctx, accessID)
	return owner != "", err
}

// Revoke is idempotent; revoking a missing session is not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

// NewAccessID produces the identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
