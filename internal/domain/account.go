package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccountType represents the type of account in the system
type AccountType string

const (
	AccountTypeCashAsset       AccountType = "cash_asset"
	AccountTypeInvestmentAsset AccountType = "investment_asset"
	AccountTypeLiability       AccountType = "liability"
)

// IsValid reports whether the account type is one of the known types
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCashAsset, AccountTypeInvestmentAsset, AccountTypeLiability:
		return true
	}
	return false
}

// IsLiability reports whether values of this type are subtracted from net worth
func (t AccountType) IsLiability() bool {
	return t == AccountTypeLiability
}

// CashFlowMultiplier translates a value delta into the shared cash-flow sign
// convention. For a liability, borrowing (positive cash flow) increases the
// value, so the raw delta-to-cash-flow relationship is inverted.
func (t AccountType) CashFlowMultiplier() int64 {
	if t == AccountTypeLiability {
		return -1
	}
	return 1
}

// Account represents a tracked account entity in the domain layer
type Account struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Type       AccountType
	Currency   string
	ArchivedAt *time.Time // nil while the account is active
	CreatedAt  time.Time
}

// IsArchived reports whether the account has been soft-deleted
func (a *Account) IsArchived() bool {
	return a.ArchivedAt != nil
}

// Validate ensures the account adheres to domain rules
// Returns an error if validation fails
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}

	if !a.Type.IsValid() {
		return errors.New("account type must be cash_asset, investment_asset or liability")
	}

	if a.Currency == "" {
		return errors.New("account currency cannot be empty")
	}

	return nil
}
