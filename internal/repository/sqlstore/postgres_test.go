package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, DriverPostgres)), mock
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(&pq.Error{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapErr(&pq.Error{Code: "23503"}), domain.ErrInUse)

	other := &pq.Error{Code: "42P01"}
	assert.Equal(t, other, mapErr(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, mapErr(plain))
}

func TestPostgres_QueriesAreRebound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE organization_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := s.CountUsers(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UniqueViolationOnInsert(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM organizations WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE LOWER\(TRIM\(email\)\) = \$1 AND id <> \$2`).
		WithArgs("ada@acme.test", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO users .* RETURNING id`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := s.CreateUser(context.Background(), 1, domain.InsertUser{
		Email: "Ada@acme.test", Password: "h", FirstName: "Ada", LastName: "L",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DeleteMissingRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM campaign_results WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteCampaignResult(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GroupInUse(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM target_groups WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "description", "created_at", "updated_at"}).
			AddRow(4, 1, "Finance", nil, fixedTime, fixedTime))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM campaigns WHERE group_id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := s.DeleteGroup(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var fixedTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
