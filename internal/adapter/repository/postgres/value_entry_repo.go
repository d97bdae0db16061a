package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
)

// valueEntryRepository implements domain.ValueEntryRepository
type valueEntryRepository struct {
	db *DB
}

// NewValueEntryRepository creates a new value entry repository
func NewValueEntryRepository(db *DB) domain.ValueEntryRepository {
	return &valueEntryRepository{db: db}
}

// ListForAccounts retrieves entries for the given accounts ordered by date
// ascending, optionally bounded by an inclusive date range
func (r *valueEntryRepository) ListForAccounts(ctx context.Context, accountIDs []uuid.UUID, filter domain.EntryFilter) ([]*domain.ValueEntry, error) {
	query := `
		SELECT id, account_id, date, value, cash_flow, gain_loss
		FROM value_entries
		WHERE account_id = ANY($1)
	`
	args := []interface{}{pq.Array(accountIDs)}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list value entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.ValueEntry, 0)
	for rows.Next() {
		entry, err := scanValueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read value entry rows: %w", err)
	}

	return entries, nil
}

// GetLatestBefore retrieves the chronologically nearest entry strictly
// before date. No earlier entry is an expected state, not an error.
func (r *valueEntryRepository) GetLatestBefore(ctx context.Context, accountID uuid.UUID, date time.Time) (*domain.ValueEntry, error) {
	query := `
		SELECT id, account_id, date, value, cash_flow, gain_loss
		FROM value_entries
		WHERE account_id = $1 AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`

	entry, err := scanValueEntry(r.db.QueryRowContext(ctx, query, accountID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entry, nil
}

// Upsert inserts or replaces the entry keyed by (account_id, date)
func (r *valueEntryRepository) Upsert(ctx context.Context, entry *domain.ValueEntry) (*domain.ValueEntry, error) {
	query := `
		INSERT INTO value_entries (id, account_id, date, value, cash_flow, gain_loss)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, date) DO UPDATE
		SET value = EXCLUDED.value,
			cash_flow = EXCLUDED.cash_flow,
			gain_loss = EXCLUDED.gain_loss
		RETURNING id, account_id, date, value, cash_flow, gain_loss
	`

	persisted, err := scanValueEntry(r.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Date,
		entry.Value.String(),
		entry.CashFlow.String(),
		entry.GainLoss.String(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert value entry: %w", err)
	}

	return persisted, nil
}

// DeleteByDateForAccounts removes every entry on date belonging to the
// given accounts and returns the number deleted
func (r *valueEntryRepository) DeleteByDateForAccounts(ctx context.Context, accountIDs []uuid.UUID, date time.Time) (int, error) {
	query := `DELETE FROM value_entries WHERE account_id = ANY($1) AND date = $2`

	result, err := r.db.ExecContext(ctx, query, pq.Array(accountIDs), date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete value entries: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return int(affected), nil
}

// CountByDateForAccounts reports how many of the given accounts already
// have an entry on date
func (r *valueEntryRepository) CountByDateForAccounts(ctx context.Context, accountIDs []uuid.UUID, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM value_entries WHERE account_id = ANY($1) AND date = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, pq.Array(accountIDs), date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count value entries: %w", err)
	}

	return count, nil
}

func scanValueEntry(row rowScanner) (*domain.ValueEntry, error) {
	var entry domain.ValueEntry
	var valueStr, cashFlowStr, gainLossStr string

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Date,
		&valueStr,
		&cashFlowStr,
		&gainLossStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan value entry: %w", err)
	}

	// NUMERIC columns arrive as strings
	if entry.Value, err = decimal.NewFromString(valueStr); err != nil {
		return nil, fmt.Errorf("failed to parse value: %w", err)
	}
	if entry.CashFlow, err = decimal.NewFromString(cashFlowStr); err != nil {
		return nil, fmt.Errorf("failed to parse cash_flow: %w", err)
	}
	if entry.GainLoss, err = decimal.NewFromString(gainLossStr); err != nil {
		return nil, fmt.Errorf("failed to parse gain_loss: %w", err)
	}

	entry.Date = domain.NormalizeDate(entry.Date)

	return &entry, nil
}
