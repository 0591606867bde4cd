package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, NewSQLite(newTestDB(t)))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, len(migrations), versions)
}

func TestSQLiteStoreWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLite(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO oauth_tokens").WillReturnError(errors.New("disk I/O error"))
	err = store.Put(ctx, "user-1", sampleToken("a1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Contains(t, err.Error(), "user-1")

	mock.ExpectQuery("SELECT access_token").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"access_token", "refresh_token", "token_type", "scope", "expires_at"}).
			AddRow("a1", "r1", "Bearer", "identify", "yesterday"))
	_, err = store.Get(ctx, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expires_at")

	mock.ExpectQuery("SELECT access_token").
		WithArgs("user-2").
		WillReturnError(sql.ErrNoRows)
	_, err = store.Get(ctx, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec("DELETE FROM oauth_tokens").
		WithArgs("user-3").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, store.Delete(ctx, "user-3"), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateRollsBackFailedStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE oauth_tokens").WillReturnError(errors.New("table exists"))
	mock.ExpectRollback()

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
