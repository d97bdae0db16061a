package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryFilter bounds a value-entry fetch to an inclusive date range.
// Nil bounds are open.
type EntryFilter struct {
	From *time.Time
	To   *time.Time
}

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// List retrieves the user's accounts. Archived accounts are included
	// only when includeArchived is true.
	List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Account, error)

	// GetByID retrieves one of the user's accounts by id.
	// Returns ErrAccountNotFound if it does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Account, error)

	// Create inserts a new account.
	// Returns ErrDuplicateName on a unique-name violation.
	Create(ctx context.Context, account *Account) error

	// Update persists name/type changes.
	// Returns ErrDuplicateName on a unique-name violation and
	// ErrAccountNotFound if the account is missing.
	Update(ctx context.Context, account *Account) error

	// SetArchived sets or clears the archived marker.
	SetArchived(ctx context.Context, userID, id uuid.UUID, archivedAt *time.Time) error

	// Delete hard-deletes the account. Value entries cascade.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ValueEntryRepository defines the interface for value-entry persistence
// operations
type ValueEntryRepository interface {
	// ListForAccounts retrieves entries for the given accounts ordered by
	// date ascending, optionally bounded by filter.
	ListForAccounts(ctx context.Context, accountIDs []uuid.UUID, filter EntryFilter) ([]*ValueEntry, error)

	// GetLatestBefore retrieves the chronologically nearest entry strictly
	// before date for the account. Returns (nil, nil) when no earlier
	// entry exists.
	GetLatestBefore(ctx context.Context, accountID uuid.UUID, date time.Time) (*ValueEntry, error)

	// Upsert inserts or replaces the entry keyed by (AccountID, Date) and
	// returns the persisted row.
	Upsert(ctx context.Context, entry *ValueEntry) (*ValueEntry, error)

	// DeleteByDateForAccounts removes every entry on date belonging to one
	// of the given accounts and returns the number deleted.
	DeleteByDateForAccounts(ctx context.Context, accountIDs []uuid.UUID, date time.Time) (int, error)

	// CountByDateForAccounts reports how many of the given accounts
	// already have an entry on date.
	CountByDateForAccounts(ctx context.Context, accountIDs []uuid.UUID, date time.Time) (int, error)
}
