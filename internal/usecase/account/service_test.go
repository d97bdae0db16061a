package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fintrack/networth-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Account, error) {
	args := m.Called(ctx, userID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetArchived(ctx context.Context, userID, id uuid.UUID, archivedAt *time.Time) error {
	args := m.Called(ctx, userID, id, archivedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockValueEntryRepository is a mock implementation of ValueEntryRepository for testing
type MockValueEntryRepository struct {
	mock.Mock
}

func (m *MockValueEntryRepository) ListForAccounts(ctx context.Context, accountIDs []uuid.UUID, filter domain.EntryFilter) ([]*domain.ValueEntry, error) {
	args := m.Called(ctx, accountIDs, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ValueEntry), args.Error(1)
}

func (m *MockValueEntryRepository) GetLatestBefore(ctx context.Context, accountID uuid.UUID, date time.Time) (*domain.ValueEntry, error) {
	args := m.Called(ctx, accountID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValueEntry), args.Error(1)
}

func (m *MockValueEntryRepository) Upsert(ctx context.Context, entry *domain.ValueEntry) (*domain.ValueEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValueEntry), args.Error(1)
}

func (m *MockValueEntryRepository) DeleteByDateForAccounts(ctx context.Context, accountIDs []uuid.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, accountIDs, date)
	return args.Int(0), args.Error(1)
}

func (m *MockValueEntryRepository) CountByDateForAccounts(ctx context.Context, accountIDs []uuid.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, accountIDs, date)
	return args.Int(0), args.Error(1)
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreate_CashAccountInitialEntry(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	userID := uuid.New()

	mockAccountRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockEntryRepo.On("Upsert", ctx, mock.MatchedBy(func(e *domain.ValueEntry) bool {
		// The initial value of a cash account is all cash flow
		return e.Value.Equal(dec("2500")) &&
			e.CashFlow.Equal(dec("2500")) &&
			e.GainLoss.IsZero() &&
			e.Date.Equal(day("2024-01-01"))
	})).Return(&domain.ValueEntry{ID: uuid.New()}, nil)

	created, err := service.Create(ctx, userID, CreateCommand{
		Name:         "mBank",
		Type:         domain.AccountTypeCashAsset,
		Date:         day("2024-01-01"),
		InitialValue: dec("2500"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "mBank", created.Name)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "PLN", created.Currency)
	mockAccountRepo.AssertExpectations(t)
	mockEntryRepo.AssertExpectations(t)
}

func TestCreate_InvestmentInitialEntryIsGainLoss(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	mockAccountRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockEntryRepo.On("Upsert", ctx, mock.MatchedBy(func(e *domain.ValueEntry) bool {
		return e.CashFlow.IsZero() && e.GainLoss.Equal(dec("10000"))
	})).Return(&domain.ValueEntry{ID: uuid.New()}, nil)

	_, err := service.Create(ctx, uuid.New(), CreateCommand{
		Name:         "XTB",
		Type:         domain.AccountTypeInvestmentAsset,
		Date:         day("2024-01-01"),
		InitialValue: dec("10000"),
	})

	assert.NoError(t, err)
	mockEntryRepo.AssertExpectations(t)
}

func TestCreate_LiabilityInitialEntrySign(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	mockAccountRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockEntryRepo.On("Upsert", ctx, mock.MatchedBy(func(e *domain.ValueEntry) bool {
		// Opening a 5000 liability means 5000 borrowed
		return e.CashFlow.Equal(dec("-5000")) && e.GainLoss.IsZero()
	})).Return(&domain.ValueEntry{ID: uuid.New()}, nil)

	_, err := service.Create(ctx, uuid.New(), CreateCommand{
		Name:         "Kredyt",
		Type:         domain.AccountTypeLiability,
		Date:         day("2024-01-01"),
		InitialValue: dec("5000"),
	})

	assert.NoError(t, err)
	mockEntryRepo.AssertExpectations(t)
}

func TestCreate_DuplicateName(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	mockAccountRepo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateName)

	_, err := service.Create(ctx, uuid.New(), CreateCommand{
		Name:         "mBank",
		Type:         domain.AccountTypeCashAsset,
		Date:         day("2024-01-01"),
		InitialValue: dec("100"),
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	mockEntryRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCreate_InvalidTypeRejected(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	_, err := service.Create(ctx, uuid.New(), CreateCommand{
		Name:         "Weird",
		Type:         domain.AccountType("crypto_wallet"),
		Date:         day("2024-01-01"),
		InitialValue: dec("100"),
	})

	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	mockAccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RollsBackAccountOnEntryFailure(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	userID := uuid.New()

	mockAccountRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockEntryRepo.On("Upsert", ctx, mock.Anything).Return(nil, errors.New("disk full"))
	mockAccountRepo.On("Delete", ctx, userID, mock.Anything).Return(nil)

	_, err := service.Create(ctx, userID, CreateCommand{
		Name:         "mBank",
		Type:         domain.AccountTypeCashAsset,
		Date:         day("2024-01-01"),
		InitialValue: dec("100"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert initial value entry")
	mockAccountRepo.AssertCalled(t, "Delete", ctx, userID, mock.Anything)
}

func TestUpdate_RenameConflict(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	userID := uuid.New()
	existing := &domain.Account{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "mBank",
		Type:     domain.AccountTypeCashAsset,
		Currency: "PLN",
	}

	mockAccountRepo.On("GetByID", ctx, userID, existing.ID).Return(existing, nil)
	mockAccountRepo.On("Update", ctx, mock.Anything).Return(domain.ErrDuplicateName)

	newName := "XTB"
	_, err := service.Update(ctx, userID, existing.ID, UpdateCommand{Name: &newName})

	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	userID := uuid.New()
	id := uuid.New()
	mockAccountRepo.On("GetByID", ctx, userID, id).Return(nil, domain.ErrAccountNotFound)

	name := "New name"
	_, err := service.Update(ctx, userID, id, UpdateCommand{Name: &name})

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestSetArchived_SetsAndClearsMarker(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)
	service.Now = func() time.Time { return day("2024-03-15") }

	userID := uuid.New()
	account := &domain.Account{ID: uuid.New(), UserID: userID, Name: "mBank", Type: domain.AccountTypeCashAsset, Currency: "PLN"}

	mockAccountRepo.On("GetByID", ctx, userID, account.ID).Return(account, nil)
	mockAccountRepo.On("SetArchived", ctx, userID, account.ID, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(day("2024-03-15"))
	})).Return(nil).Once()

	assert.NoError(t, service.SetArchived(ctx, userID, account.ID, true))

	mockAccountRepo.On("SetArchived", ctx, userID, account.ID, (*time.Time)(nil)).Return(nil).Once()

	assert.NoError(t, service.SetArchived(ctx, userID, account.ID, false))
	mockAccountRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockEntryRepo := new(MockValueEntryRepository)

	service := NewAccountService(mockAccountRepo, mockEntryRepo)

	userID := uuid.New()
	id := uuid.New()
	mockAccountRepo.On("GetByID", ctx, userID, id).Return(nil, domain.ErrAccountNotFound)

	err := service.Delete(ctx, userID, id)

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	mockAccountRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
