package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/procknow/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"conn done", sql.ErrConnDone, store.ErrUnavailable},
		{"pg unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"pg check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "card_progress_correct_check"}, store.ErrInvalidEntity},
		{"pg not null", &pgconn.PgError{Code: notNullViolationCode, ColumnName: "card_key"}, store.ErrInvalidEntity},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, store.ErrUnavailable},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, store.ErrDuplicate},
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, store.ErrInvalidEntity},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, store.ErrUnavailable},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode}), store.ErrDuplicate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tc.err), tc.want)
		})
	}

	assert.NoError(t, MapError(nil))
	plain := errors.New("plain")
	assert.Same(t, plain, MapError(plain))
}

func TestMapErrorFromRealConstraint(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (k TEXT PRIMARY KEY, n INTEGER CHECK (n >= 0))`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (k, n) VALUES ('a', 1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO t (k, n) VALUES ('a', 2)`)
	assert.ErrorIs(t, MapError(err), store.ErrDuplicate)

	_, err = db.Exec(`INSERT INTO t (k, n) VALUES ('b', -1)`)
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)
}
