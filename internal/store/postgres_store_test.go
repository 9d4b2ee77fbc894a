package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgresStore(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS state_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, st.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoad(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"u1"}]`))
	mock.ExpectQuery("SELECT value FROM state_records").
		WithArgs(KeyUsers).
		WillReturnRows(rows)

	raw, ok, err := st.Load(context.Background(), KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"u1"}]`, string(raw))
}

func TestPostgresStoreLoadAbsent(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT value FROM state_records").
		WithArgs(KeySubmissions).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	raw, ok, err := st.Load(context.Background(), KeySubmissions)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO state_records").
		WithArgs(KeyCurrentUser, []byte("null")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, st.Save(context.Background(), KeyCurrentUser, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
