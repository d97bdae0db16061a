package postgres

import (
	"context"
	"fmt"
)

// schema holds the idempotent DDL applied on startup. The unique
// constraints are load-bearing: (user_id, name) backs the duplicate-name
// conflict and (account_id, date) gives value-entry upserts their
// semantics.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		currency TEXT NOT NULL,
		archived_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT accounts_user_name_unique UNIQUE (user_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS value_entries (
		id UUID NOT NULL,
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		value NUMERIC(18,4) NOT NULL,
		cash_flow NUMERIC(18,4) NOT NULL DEFAULT 0,
		gain_loss NUMERIC(18,4) NOT NULL DEFAULT 0,
		CONSTRAINT value_entries_account_date_unique UNIQUE (account_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS value_entries_account_date_idx
		ON value_entries (account_id, date DESC)`,
}

// EnsureSchema applies the schema statements, creating missing tables and
// indexes. Safe to run on every boot.
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
