package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestDelete_SeveralKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Set(ctx, "c", []byte{3}))

	require.NoError(t, r.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, r.Delete(ctx))

	for _, k := range []string{"a", "b"} {
		_, err := r.Get(ctx, k)
		assert.ErrorIs(t, err, common.ErrorNotFound, k)
	}
	v, err := r.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, v)
}

func TestWritesInsideTxAreAtomic(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		if err := r.Set(ctx, "token", []byte("t")); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = NewSQLiteRepository(db).Get(ctx, "token")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM metadata").WillReturnError(assert.AnError)
	_, err = r.Get(ctx, "k")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `metadata get "k"`)

	mock.ExpectExec("INSERT INTO metadata").WillReturnError(assert.AnError)
	assert.ErrorIs(t, r.Set(ctx, "k", []byte("v")), assert.AnError)

	mock.ExpectExec("DELETE FROM metadata").WillReturnError(assert.AnError)
	assert.ErrorIs(t, r.Delete(ctx, "k"), assert.AnError)
}
