// Package sqlstore is the relational repository.Store, built on sqlx.
//
// Queries are written with ? placeholders and rebound for the connection's
// driver, so the same statements run on Postgres (lib/pq) and SQLite
// (modernc.org/sqlite). Cascades and delete restrictions run in a
// transaction in Go; the schema's foreign keys back them up.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store implements repository.Store.
type Store struct {
	db *sqlx.DB
}

var _ repository.Store = (*Store)(nil)

// New wraps an open connection pool.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

// Open connects to driver/dsn and verifies the connection. SQLite is limited
// to a single connection so in-memory databases are shared across calls and
// foreign keys stay enabled.
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		maxOpenConns = 1
		dsn = withParam(dsn, "_pragma", "foreign_keys(1)")
		dsn = withParam(dsn, "_time_format", "sqlite")
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// withParam appends key=value to a SQLite DSN unless key is already set.
func withParam(dsn, key, value string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + key + "=" + value
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// DB exposes the pool for health checks and migrations.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapErr(err))
	}
	return nil
}

// mapErr turns driver constraint violations into domain sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return domain.ErrDuplicate
		case "23503":
			return domain.ErrInUse
		}
		return err
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.ErrDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.ErrInUse
		}
	}
	return err
}

func get(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	err := sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return mapErr(err)
}

func sel(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return mapErr(sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...))
}

func exec(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func insert(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func count(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), args...); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

// deleteByID removes one row; zero rows affected is ErrNotFound.
func deleteByID(ctx context.Context, q sqlx.ExtContext, table string, id int64) error {
	n, err := exec(ctx, q, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// setter accumulates the SET clause of a partial update.
type setter struct {
	sets []string
	args []any
}

func (s *setter) add(col string, val any) {
	s.sets = append(s.sets, col+" = ?")
	s.args = append(s.args, val)
}

// updateRow applies set to table row id and advances updated_at past its
// stored value.
func updateRow(ctx context.Context, tx *sqlx.Tx, table string, id int64, set *setter) error {
	var prev time.Time
	if err := get(ctx, tx, &prev, "SELECT updated_at FROM "+table+" WHERE id = ?", id); err != nil {
		return err
	}
	set.add("updated_at", repository.NextStamp(prev))
	q := "UPDATE " + table + " SET " + strings.Join(set.sets, ", ") + " WHERE id = ?"
	if _, err := exec(ctx, tx, q, append(set.args, id)...); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// ownedBy reports whether row id of table exists and belongs to orgID.
func ownedBy(ctx context.Context, q sqlx.ExtContext, table string, id, orgID int64) (bool, error) {
	var owner int64
	err := get(ctx, q, &owner, "SELECT organization_id FROM "+table+" WHERE id = ?", id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == orgID, nil
}

func requireOrg(ctx context.Context, q sqlx.ExtContext, orgID int64) error {
	n, err := count(ctx, q, "SELECT COUNT(*) FROM organizations WHERE id = ?", orgID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func requireOwner(ctx context.Context, q sqlx.ExtContext, orgID, userID int64) error {
	if err := requireOrg(ctx, q, orgID); err != nil {
		return err
	}
	ok, err := ownedBy(ctx, q, "users", userID, orgID)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.AccessDeniedError{Refs: []string{repository.RefUser}}
	}
	return nil
}

func utc(t *time.Time) {
	*t = t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
