package valueentry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
	"github.com/fintrack/networth-backend/internal/usecase/valuecalc"
)

// UpsertCommand represents the input for setting an account's value on a
// date. CashFlow and GainLoss are optional; nil means "derive it", an
// explicit zero is a supplied value.
type UpsertCommand struct {
	AccountID uuid.UUID
	Date      time.Time
	Value     decimal.Decimal
	CashFlow  *decimal.Decimal
	GainLoss  *decimal.Decimal
}

// ColumnFailure records one account's failed upsert during AddColumn
type ColumnFailure struct {
	AccountID uuid.UUID
	Name      string
	Err       error
}

// AddColumnResult reports the outcome of a bulk column insert. Partial
// failure is a valid terminal state: Created counts successes, Failures
// lists the rest.
type AddColumnResult struct {
	Created        int
	AlreadyPresent bool
	Failures       []ColumnFailure
}

// ValueEntryService handles value-entry write operations
type ValueEntryService struct {
	AccountRepo domain.AccountRepository
	EntryRepo   domain.ValueEntryRepository

	// Now supplies the current time; overridable in tests
	Now func() time.Time
}

// NewValueEntryService creates a new ValueEntryService instance
func NewValueEntryService(accountRepo domain.AccountRepository, entryRepo domain.ValueEntryRepository) *ValueEntryService {
	return &ValueEntryService{
		AccountRepo: accountRepo,
		EntryRepo:   entryRepo,
		Now:         time.Now,
	}
}

// Upsert creates or replaces the value entry for (account, date).
// Logic:
//  1. Verify the account exists and belongs to the user
//  2. Fetch the chronologically nearest earlier entry; its value (or 0)
//     is the previous value
//  3. Resolve cash flow and gain/loss via the calculator
//  4. Persist keyed by (account_id, date), last write wins
//
// The previous value is always looked up by date, never taken from the
// caller, so out-of-order edits reconcile against true history.
func (s *ValueEntryService) Upsert(ctx context.Context, userID uuid.UUID, cmd UpsertCommand) (*domain.ValueEntry, error) {
	account, err := s.AccountRepo.GetByID(ctx, userID, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	date := domain.NormalizeDate(cmd.Date)

	previous, err := s.EntryRepo.GetLatestBefore(ctx, account.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch previous entry: %w", err)
	}

	previousValue := decimal.Zero
	if previous != nil {
		previousValue = previous.Value
	}

	result, err := valuecalc.Calculate(cmd.Value, previousValue, account.Type, cmd.CashFlow, cmd.GainLoss)
	if err != nil {
		return nil, err
	}

	entry := &domain.ValueEntry{
		ID:        uuid.New(),
		AccountID: account.ID,
		Date:      date,
		Value:     cmd.Value,
		CashFlow:  result.CashFlow,
		GainLoss:  result.GainLoss,
	}

	persisted, err := s.EntryRepo.Upsert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert value entry: %w", err)
	}

	return persisted, nil
}

// DeleteEntriesByDate removes every entry on the given date across all of
// the user's accounts, archived included, and returns the count deleted.
// A user with no accounts gets 0, not an error.
func (s *ValueEntryService) DeleteEntriesByDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	accounts, err := s.AccountRepo.List(ctx, userID, true)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	if len(accounts) == 0 {
		return 0, nil
	}

	accountIDs := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		accountIDs = append(accountIDs, account.ID)
	}

	count, err := s.EntryRepo.DeleteByDateForAccounts(ctx, accountIDs, domain.NormalizeDate(date))
	if err != nil {
		return 0, fmt.Errorf("failed to delete value entries: %w", err)
	}

	return count, nil
}

// AddColumn inserts one entry per active account for the given date, each
// carrying the account's last known value with zero cash flow and zero
// gain/loss.
//
// Guards: future dates and users without accounts are rejected; a date that
// already has entries is reported via AlreadyPresent without writing.
// Individual upsert failures do not abort the loop; an error is returned
// only when every account fails.
func (s *ValueEntryService) AddColumn(ctx context.Context, userID uuid.UUID, date time.Time) (*AddColumnResult, error) {
	day := domain.NormalizeDate(date)
	if day.After(domain.NormalizeDate(s.Now())) {
		return nil, domain.NewValidationError("cannot add a column with a future date")
	}

	accounts, err := s.AccountRepo.List(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil, domain.NewValidationError("add accounts first to create value entries")
	}

	accountIDs := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		accountIDs = append(accountIDs, account.ID)
	}

	existing, err := s.EntryRepo.CountByDateForAccounts(ctx, accountIDs, day)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing entries: %w", err)
	}
	if existing > 0 {
		return &AddColumnResult{AlreadyPresent: true}, nil
	}

	result := &AddColumnResult{}
	for _, account := range accounts {
		if err := s.carryValueForward(ctx, account, day); err != nil {
			result.Failures = append(result.Failures, ColumnFailure{
				AccountID: account.ID,
				Name:      account.Name,
				Err:       err,
			})
			continue
		}
		result.Created++
	}

	if result.Created == 0 && len(result.Failures) > 0 {
		return result, fmt.Errorf("failed to add column: all %d upserts failed", len(result.Failures))
	}

	return result, nil
}

// carryValueForward writes one column entry for the account: last known
// value (0 for an account with no history), no movement.
func (s *ValueEntryService) carryValueForward(ctx context.Context, account *domain.Account, day time.Time) error {
	previous, err := s.EntryRepo.GetLatestBefore(ctx, account.ID, day)
	if err != nil {
		return fmt.Errorf("failed to fetch previous entry: %w", err)
	}

	value := decimal.Zero
	if previous != nil {
		value = previous.Value
	}

	entry := &domain.ValueEntry{
		ID:        uuid.New(),
		AccountID: account.ID,
		Date:      day,
		Value:     value,
		CashFlow:  decimal.Zero,
		GainLoss:  decimal.Zero,
	}

	if _, err := s.EntryRepo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("failed to upsert value entry: %w", err)
	}

	return nil
}
