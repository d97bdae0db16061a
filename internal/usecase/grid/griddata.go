package grid

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
)

// Options control a grid query
type Options struct {
	// From/To bound entry dates (inclusive) before the axis is built
	From *time.Time
	To   *time.Time
	// ShowArchived includes archived accounts in the result
	ShowArchived bool
}

// Entry is one grid cell: an account's state on an axis date. Cells without
// a genuine stored entry carry the most recent earlier entry forward.
type Entry struct {
	Value    decimal.Decimal `json:"value"`
	CashFlow decimal.Decimal `json:"cash_flow"`
	GainLoss decimal.Decimal `json:"gain_loss"`
}

// AccountRow is one account's row in the grid, with its dense entry map
// keyed by YYYY-MM-DD axis date.
type AccountRow struct {
	ID       uuid.UUID          `json:"id"`
	Name     string             `json:"name"`
	Type     domain.AccountType `json:"type"`
	Archived bool               `json:"archived"`
	Entries  map[string]Entry   `json:"entries"`
}

// DateSummary holds the per-date aggregate over all accounts
type DateSummary struct {
	NetWorth decimal.Decimal `json:"net_worth"`
}

// KPI holds the range-wide aggregate figures. NetWorth, TotalAssets and
// TotalLiabilities come from the last axis date; the cumulative fields sum
// over every cell of the forward-filled projection.
type KPI struct {
	NetWorth           decimal.Decimal `json:"net_worth"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	CumulativeCashFlow decimal.Decimal `json:"cumulative_cash_flow"`
	CumulativeGainLoss decimal.Decimal `json:"cumulative_gain_loss"`
}

// Summary combines the per-date aggregates with the range KPIs
type Summary struct {
	ByDate map[string]DateSummary `json:"by_date"`
	KPI    KPI                    `json:"kpi"`
}

// GridData is the full grid query result
type GridData struct {
	Dates    []string     `json:"dates"`
	Accounts []AccountRow `json:"accounts"`
	Summary  Summary      `json:"summary"`
}
