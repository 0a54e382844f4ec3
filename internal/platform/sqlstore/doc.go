// Package sqlstore implements store.ProgressStore on a SQL database through
// sqlx. SQLite (mattn/go-sqlite3) and PostgreSQL (pgx stdlib driver) are
// supported; the schema is managed by embedded goose migrations.
package sqlstore
