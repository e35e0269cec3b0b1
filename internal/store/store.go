// Package store implements the SQLite persistence contract behind
// domain.Store. It uses modernc.org/sqlite, a pure-Go driver requiring
// no cgo, through the standard database/sql pool.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/infra/observability"
)

// conn is the subset of *sql.DB / *sql.Tx every entity method needs;
// it lets the same CRUD code run against either a pooled connection or
// a single transaction.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// entityStore implements every domain.Store method except WithTx, bound
// to whatever conn it's constructed over.
type entityStore struct {
	c conn
}

// DB is the top-level persistence handle: a connection pool plus the
// entity operations bound to it. It implements domain.Store directly.
type DB struct {
	*entityStore
	db *sql.DB
}

// Open creates (if missing) the parent directory of path, opens a
// pooled SQLite connection, applies every migration group, and returns
// a ready DB. maxOpenConns bounds the pool; modernc.org/sqlite is a
// pure-Go, single-writer-friendly driver, so a small pool avoids
// SQLITE_BUSY contention better than a large one would.
func Open(ctx context.Context, path string, maxOpenConns int) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, domain.Persistencef(err, "creating database directory %s", dir)
			}
		}
	}

	// _pragma applies per newly-opened connection, unlike a bare Exec
	// which would only touch whichever single pooled connection served
	// it, so foreign-key cascades hold under the connection pool too.
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, domain.Persistencef(err, "opening database %s", path)
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 4
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	db := &DB{entityStore: &entityStore{c: sqlDB}, db: sqlDB}
	if err := db.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) migrate(ctx context.Context) error {
	groups := [][]string{CoreMigrations(), StatsMigrations(), FullTextMigrations()}
	for _, group := range groups {
		for _, stmt := range group {
			if _, err := d.db.ExecContext(ctx, stmt); err != nil {
				return domain.Persistencef(err, "running migration %q", firstLine(stmt))
			}
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	if len(stmt) > 60 {
		return stmt[:60]
	}
	return stmt
}

// txBoundStore is the domain.Store handed to a WithTx callback: entity
// methods run against the same *sql.Tx, and a nested WithTx call is
// reentrant (no savepoints; callers are expected to use one top-level
// transaction per review commit).
type txBoundStore struct {
	*entityStore
}

func (t *txBoundStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	return fn(ctx, t)
}

// WithTx opens a single *sql.Tx, runs fn against a Store bound to it,
// and commits iff fn returns nil; any error rolls back.
func (d *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Persistencef(err, "beginning transaction")
	}

	bound := &txBoundStore{entityStore: &entityStore{c: tx}}
	if err := fn(ctx, bound); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.Persistencef(rbErr, "rolling back after %v", err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Persistencef(err, "committing transaction")
	}
	return nil
}

var _ domain.Store = (*DB)(nil)
var _ domain.Store = (*txBoundStore)(nil)

func isNoRows(err error) bool { return err == sql.ErrNoRows }

func wrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	observability.StorePersistenceErrors.WithLabelValues(opVerb(op)).Inc()
	return domain.Persistencef(err, "%s", op)
}

// opVerb reduces a freeform operation description (which may carry a
// row ID or day string, e.g. "updating review session abc123") down to
// its leading verb, so the error metric's label stays low-cardinality.
func opVerb(op string) string {
	if i := strings.IndexByte(op, ' '); i >= 0 {
		return op[:i]
	}
	return op
}

func notFoundOrErr(kind, id string, err error) error {
	if isNoRows(err) {
		return domain.NotFoundf("%s %s", kind, id)
	}
	return wrapPersistence(fmt.Sprintf("loading %s %s", kind, id), err)
}

// wrapUniqueConflict turns a UNIQUE-constraint violation (e.g. a
// duplicate content_hash) into a domain conflict error instead of a
// bare persistence one, so callers can distinguish "already exists"
// from a genuine storage failure.
func wrapUniqueConflict(kind, id string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueConstraintErr(err) {
		return domain.Conflictf("%s %s violates a uniqueness constraint: %v", kind, id, err)
	}
	return wrapPersistence(fmt.Sprintf("upserting %s %s", kind, id), err)
}

func isUniqueConstraintErr(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
