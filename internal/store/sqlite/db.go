// Package sqlite implements the repositories on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/GregMSThompson/finance-tracker/internal/store"
)

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS connections (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    access_token TEXT NOT NULL DEFAULT '',
    cursor TEXT NOT NULL DEFAULT '',
    last_sync_at TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    external_id TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL CHECK (source IN ('AGGREGATOR', 'CARD_ISSUER', 'IMPORT')),
    type TEXT NOT NULL CHECK (type IN ('CREDIT', 'DEPOSITORY', 'LOAN', 'INVESTMENT')),
    name TEXT NOT NULL,
    balance INTEGER NOT NULL DEFAULT 0,      -- cents
    fingerprint TEXT NOT NULL UNIQUE,
    connection_id TEXT REFERENCES connections(id) ON DELETE SET NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_connection ON accounts(connection_id);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    external_id TEXT UNIQUE,                 -- NULL for manual and imported rows
    name TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount >= 0), -- cents
    direction TEXT NOT NULL CHECK (direction IN ('IN', 'OUT')),
    occurred_at TEXT NOT NULL,
    fingerprint TEXT NOT NULL UNIQUE,
    note TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_occurred ON transactions(occurred_at);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);

CREATE TABLE IF NOT EXISTS budgets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    amount_allocated INTEGER NOT NULL,       -- cents
    amount_spent INTEGER NOT NULL DEFAULT 0, -- cents, derived
    level TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_budgets_created ON budgets(created_at);

CREATE TABLE IF NOT EXISTS tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budget_transactions (
    budget_id TEXT NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
    transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    created_at TEXT NOT NULL,
    PRIMARY KEY (budget_id, transaction_id)
);

CREATE INDEX IF NOT EXISTS idx_budget_transactions_tx ON budget_transactions(transaction_id);

CREATE TABLE IF NOT EXISTS budget_tags (
    budget_id TEXT NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
    tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (budget_id, tag_id)
);
`

// DB manages the SQLite connection.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens the database file, enabling WAL mode and foreign keys, and
// creates the schema if needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db: db, path: path}, nil
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Repositories wires every SQLite store onto one database.
func (d *DB) Repositories() *store.Repositories {
	return &store.Repositories{
		Accounts:     NewAccountStore(d),
		Transactions: NewTransactionStore(d),
		Budgets:      NewBudgetStore(d),
		Tags:         NewTagStore(d),
		Connections:  NewConnectionStore(d),
		Close:        d.Close,
	}
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (d *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
