package grid

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
)

// GridService aggregates accounts and value entries into the data-grid
// projection: a dense forward-filled table plus per-date and range-wide
// summaries.
type GridService struct {
	AccountRepo domain.AccountRepository
	EntryRepo   domain.ValueEntryRepository
}

// NewGridService creates a new GridService instance
func NewGridService(accountRepo domain.AccountRepository, entryRepo domain.ValueEntryRepository) *GridService {
	return &GridService{
		AccountRepo: accountRepo,
		EntryRepo:   entryRepo,
	}
}

// GetGridData builds the grid for the user's accounts.
// Logic:
//  1. Fetch accounts (archived excluded unless opts.ShowArchived)
//  2. Fetch their value entries, bounded by the date range
//  3. Build the axis: sorted unique entry dates, day granularity
//  4. Forward-fill each account's series along the axis
//  5. Compute per-date net worth and the range KPIs
//
// A user with no accounts gets an empty grid, not an error.
func (s *GridService) GetGridData(ctx context.Context, userID uuid.UUID, opts Options) (*GridData, error) {
	if opts.From != nil && opts.To != nil && opts.From.After(*opts.To) {
		return nil, domain.NewValidationError("'from' date cannot be later than 'to' date")
	}

	accounts, err := s.AccountRepo.List(ctx, userID, opts.ShowArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	if len(accounts) == 0 {
		return emptyGridData(), nil
	}

	accountIDs := make([]uuid.UUID, 0, len(accounts))
	for _, account := range accounts {
		accountIDs = append(accountIDs, account.ID)
	}

	entries, err := s.EntryRepo.ListForAccounts(ctx, accountIDs, domain.EntryFilter{
		From: opts.From,
		To:   opts.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch value entries: %w", err)
	}

	axisDates := buildAxis(entries)
	sparse := groupByAccount(entries)

	rows := make([]AccountRow, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, AccountRow{
			ID:       account.ID,
			Name:     account.Name,
			Type:     account.Type,
			Archived: account.IsArchived(),
			Entries:  FillForward(sparse[account.ID], axisDates),
		})
	}

	return &GridData{
		Dates:    axisDates,
		Accounts: rows,
		Summary: Summary{
			ByDate: summarizeByDate(rows, axisDates),
			KPI:    computeKPI(rows, axisDates),
		},
	}, nil
}

func emptyGridData() *GridData {
	return &GridData{
		Dates:    []string{},
		Accounts: []AccountRow{},
		Summary: Summary{
			ByDate: map[string]DateSummary{},
			KPI:    KPI{},
		},
	}
}

// buildAxis extracts the sorted set of unique entry dates in YYYY-MM-DD form
func buildAxis(entries []*domain.ValueEntry) []string {
	set := make(map[string]struct{})
	for _, entry := range entries {
		set[entry.DateKey()] = struct{}{}
	}

	dates := make([]string, 0, len(set))
	for date := range set {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	return dates
}

// groupByAccount indexes entries as per-account sparse maps keyed by date
func groupByAccount(entries []*domain.ValueEntry) map[uuid.UUID]map[string]Entry {
	grouped := make(map[uuid.UUID]map[string]Entry)
	for _, entry := range entries {
		byDate, ok := grouped[entry.AccountID]
		if !ok {
			byDate = make(map[string]Entry)
			grouped[entry.AccountID] = byDate
		}
		byDate[entry.DateKey()] = Entry{
			Value:    entry.Value,
			CashFlow: entry.CashFlow,
			GainLoss: entry.GainLoss,
		}
	}

	return grouped
}

// summarizeByDate computes net worth for each axis date: assets added,
// liabilities subtracted, accounts without a cell on that date skipped.
func summarizeByDate(rows []AccountRow, axisDates []string) map[string]DateSummary {
	byDate := make(map[string]DateSummary, len(axisDates))
	for _, date := range axisDates {
		netWorth := decimal.Zero
		for _, row := range rows {
			entry, ok := row.Entries[date]
			if !ok {
				continue
			}
			if row.Type.IsLiability() {
				netWorth = netWorth.Sub(entry.Value)
			} else {
				netWorth = netWorth.Add(entry.Value)
			}
		}
		byDate[date] = DateSummary{NetWorth: netWorth}
	}

	return byDate
}

// computeKPI derives the range figures from the forward-filled projection.
// Totals and net worth come from the last axis date. The cumulative fields
// sum cash flow and gain/loss over every cell of every date, carried cells
// included: a value that persists across N dates contributes N times.
func computeKPI(rows []AccountRow, axisDates []string) KPI {
	kpi := KPI{}
	if len(axisDates) == 0 {
		return kpi
	}

	lastDate := axisDates[len(axisDates)-1]
	for _, row := range rows {
		if entry, ok := row.Entries[lastDate]; ok {
			if row.Type.IsLiability() {
				kpi.TotalLiabilities = kpi.TotalLiabilities.Add(entry.Value)
			} else {
				kpi.TotalAssets = kpi.TotalAssets.Add(entry.Value)
			}
		}

		for _, date := range axisDates {
			entry, ok := row.Entries[date]
			if !ok {
				continue
			}
			kpi.CumulativeCashFlow = kpi.CumulativeCashFlow.Add(entry.CashFlow)
			kpi.CumulativeGainLoss = kpi.CumulativeGainLoss.Add(entry.GainLoss)
		}
	}

	kpi.NetWorth = kpi.TotalAssets.Sub(kpi.TotalLiabilities)

	return kpi
}
