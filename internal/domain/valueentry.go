package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the canonical day-granular date format used for grid keys
// and axis dates.
const DateLayout = "2006-01-02"

// ValueEntry represents one account's reported state on one calendar date.
// Identity is the (AccountID, Date) pair; the storage layer enforces the
// uniqueness constraint that gives upserts their semantics.
type ValueEntry struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Date      time.Time       // normalized to midnight UTC
	Value     decimal.Decimal // total account balance on Date
	CashFlow  decimal.Decimal // net external money movement (positive = money in)
	GainLoss  decimal.Decimal // appreciation independent of external movement
}

// DateKey returns the entry's date in YYYY-MM-DD form
func (e *ValueEntry) DateKey() string {
	return e.Date.Format(DateLayout)
}

// NormalizeDate discards the time-of-day component, keeping day granularity
// in UTC.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
