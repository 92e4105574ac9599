// Package dbtest opens isolated in-memory databases for package tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/gradevault-backend/pkg/db"
	"github.com/google/uuid"
)

// New returns a migrated SQLite client private to the calling test.
func New(t testing.TB) *db.Client {
	t.Helper()
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	client, err := db.NewSQLite(context.Background(), fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
