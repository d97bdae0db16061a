package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
	"github.com/fintrack/networth-backend/internal/usecase/valuecalc"
)

const defaultCurrency = "PLN"

// CreateCommand represents the input for creating an account together with
// its first value entry
type CreateCommand struct {
	Name         string
	Type         domain.AccountType
	Currency     string
	Date         time.Time
	InitialValue decimal.Decimal
}

// UpdateCommand represents the input for renaming or retyping an account.
// Nil fields are left unchanged.
type UpdateCommand struct {
	Name *string
	Type *domain.AccountType
}

// AccountService handles account lifecycle operations
type AccountService struct {
	AccountRepo domain.AccountRepository
	EntryRepo   domain.ValueEntryRepository

	// Now supplies the current time; overridable in tests
	Now func() time.Time
}

// NewAccountService creates a new AccountService instance
func NewAccountService(accountRepo domain.AccountRepository, entryRepo domain.ValueEntryRepository) *AccountService {
	return &AccountService{
		AccountRepo: accountRepo,
		EntryRepo:   entryRepo,
		Now:         time.Now,
	}
}

// List retrieves the user's accounts, archived ones included only on request
func (s *AccountService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Account, error) {
	accounts, err := s.AccountRepo.List(ctx, userID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	return accounts, nil
}

// Create inserts a new account and its initial value entry.
// The pair is pseudo-atomic: if the entry insert fails, the freshly created
// account is deleted again so no account exists without history.
//
// The initial entry's decomposition follows the account type: the whole
// initial value is cash flow for cash accounts and liabilities, gain/loss
// for investments.
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*domain.Account, error) {
	currency := cmd.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      cmd.Name,
		Type:      cmd.Type,
		Currency:  currency,
		CreatedAt: s.Now(),
	}

	if err := account.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	result, err := valuecalc.Calculate(cmd.InitialValue, decimal.Zero, account.Type, nil, nil)
	if err != nil {
		// Unreachable with neither component supplied; kept for symmetry.
		return nil, err
	}

	entry := &domain.ValueEntry{
		ID:        uuid.New(),
		AccountID: account.ID,
		Date:      domain.NormalizeDate(cmd.Date),
		Value:     cmd.InitialValue,
		CashFlow:  result.CashFlow,
		GainLoss:  result.GainLoss,
	}

	if _, err := s.EntryRepo.Upsert(ctx, entry); err != nil {
		// Manual rollback: remove the account so the failure leaves no
		// half-created state behind.
		if delErr := s.AccountRepo.Delete(ctx, userID, account.ID); delErr != nil {
			return nil, fmt.Errorf("failed to insert initial value entry: %v (rollback also failed: %w)", err, delErr)
		}
		return nil, fmt.Errorf("failed to insert initial value entry: %w", err)
	}

	return account, nil
}

// Update renames and/or retypes one of the user's accounts
func (s *AccountService) Update(ctx context.Context, userID, id uuid.UUID, cmd UpdateCommand) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		account.Name = *cmd.Name
	}
	if cmd.Type != nil {
		account.Type = *cmd.Type
	}

	if err := account.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.AccountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// SetArchived archives (hides from default views) or unarchives an account
func (s *AccountService) SetArchived(ctx context.Context, userID, id uuid.UUID, archived bool) error {
	if _, err := s.AccountRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}

	var archivedAt *time.Time
	if archived {
		now := s.Now()
		archivedAt = &now
	}

	if err := s.AccountRepo.SetArchived(ctx, userID, id, archivedAt); err != nil {
		return fmt.Errorf("failed to update archive state: %w", err)
	}

	return nil
}

// Delete hard-deletes an account; its value entries cascade away with it
func (s *AccountService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.AccountRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}

	if err := s.AccountRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}
