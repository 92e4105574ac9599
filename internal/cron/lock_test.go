package cron

import (
	"context"
	"strings"
	"testing"
	"time"

	redisclient "github.com/angelmondragon/gradevault-backend/pkg/redis"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore { return &memoryStore{values: map[string]string{}} }

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	store := newMemoryStore()
	first, err := NewRedisLock(store, "gv:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, _ := NewRedisLock(store, "gv:lock:cron", time.Minute)
	ctx := context.Background()

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second instance should not acquire a held lock")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if _, held := store.values["gv:lock:cron"]; !held {
		t.Fatal("non-owner release must not drop the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("owner release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("lock should be free after owner release")
	}
}

func TestRedisLockReleaseWhenExpired(t *testing.T) {
	store := newMemoryStore()
	lock, _ := NewRedisLock(store, "gv:lock:cron", 0)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	delete(store.values, "gv:lock:cron")
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release after expiry: %v", err)
	}
	if lock.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", lock.ttl)
	}
}

func TestRedisLockHolderNamesOwner(t *testing.T) {
	store := newMemoryStore()
	lock, _ := NewRedisLock(store, "gv:lock:cron", time.Minute)
	ctx := context.Background()

	holder, err := lock.Holder(ctx)
	if err != nil || holder != "" {
		t.Fatalf("expected free lock, got %q err=%v", holder, err)
	}
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	holder, _ = lock.Holder(ctx)
	if !strings.HasPrefix(holder, lock.host+"/") {
		t.Fatalf("holder %q should start with host %q", holder, lock.host)
	}
}

func TestRedisLockLeaseStolenAfterExpiry(t *testing.T) {
	store := newMemoryStore()
	lock, _ := NewRedisLock(store, "gv:lock:cron", time.Minute)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	store.values["gv:lock:cron"] = "other-host/123"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["gv:lock:cron"] != "other-host/123" {
		t.Fatal("release must not drop a lease held by another replica")
	}
}
