package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DefaultDir = "pkg/migrate/migrations"
	dialect    = "postgres"
)

var (
	ErrNoDB  = errors.New("migrate: db handle is required")
	ErrNoDir = errors.New("migrate: migrations dir is required")
)

func prepare(db *sql.DB, dir string) error {
	switch {
	case db == nil:
		return ErrNoDB
	case dir == "":
		return ErrNoDir
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %s: %w", dialect, err)
	}
	return nil
}

// Run executes a goose command (up, down, status, redo, reset) against db.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if err := prepare(db, dir); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// CurrentVersion reports the applied schema version, 0 on an empty database.
func CurrentVersion(ctx context.Context, db *sql.DB, dir string) (int64, error) {
	if err := prepare(db, dir); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// ParseVersion accepts the YYYYMMDDHHMMSS prefix goose migrations carry.
func ParseVersion(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.New("version is required")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid version %q: want YYYYMMDDHHMMSS", raw)
	}
	return v, nil
}

// MigrateToVersion moves the schema up or down until it sits at target.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, target string) error {
	want, err := ParseVersion(target)
	if err != nil {
		return err
	}
	have, err := CurrentVersion(ctx, db, dir)
	if err != nil {
		return err
	}

	step, apply := "up-to", goose.UpToContext
	if have > want {
		step, apply = "down-to", goose.DownToContext
	} else if have == want {
		return nil
	}
	if err := apply(ctx, db, dir, want); err != nil {
		return fmt.Errorf("goose %s %d: %w", step, want, err)
	}
	return nil
}
