package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/repository"
	"github.com/ignite/phishsim/internal/repository/storetest"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = Migrate(ctx, db)
	require.NoError(t, err)
	return New(db)
}

func TestStoreConformance_SQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.Store { return newSQLiteStore(t) })
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newSQLiteStore(t)
	n, err := Migrate(context.Background(), s.DB())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMigrationFiles(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		files, err := MigrationFiles(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{"migrations/" + driver + "/001_init.sql"}, files)
	}
	_, err := MigrationFiles("mysql")
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn", 0)
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestWithParam(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", withParam(":memory:", "_pragma", "foreign_keys(1)"))
	assert.Equal(t, "f.db?a=1&_time_format=sqlite", withParam("f.db?a=1", "_time_format", "sqlite"))
	assert.Equal(t, "f.db?_pragma=x", withParam("f.db?_pragma=x", "_pragma", "y"))
}
