package grid

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func entry(value string) Entry {
	return Entry{
		Value:    decimal.RequireFromString(value),
		CashFlow: decimal.Zero,
		GainLoss: decimal.Zero,
	}
}

func TestFillForward_CarriesLastKnownEntry(t *testing.T) {
	axis := []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01"}
	sparse := map[string]Entry{
		"2024-01-01": entry("1000"),
		"2024-02-01": entry("1000"),
		"2024-04-01": entry("2000"),
	}

	dense := FillForward(sparse, axis)

	assert.Len(t, dense, 4)
	assert.True(t, decimal.RequireFromString("1000").Equal(dense["2024-01-01"].Value))
	assert.True(t, decimal.RequireFromString("1000").Equal(dense["2024-02-01"].Value))
	// March has no genuine entry and carries February forward
	assert.True(t, decimal.RequireFromString("1000").Equal(dense["2024-03-01"].Value))
	assert.True(t, decimal.RequireFromString("2000").Equal(dense["2024-04-01"].Value))
}

func TestFillForward_NeverBackfills(t *testing.T) {
	axis := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	sparse := map[string]Entry{
		"2024-02-01": entry("500"),
	}

	dense := FillForward(sparse, axis)

	// The account starts in February; January renders as "no data"
	_, ok := dense["2024-01-01"]
	assert.False(t, ok)
	assert.Len(t, dense, 2)
	assert.True(t, decimal.RequireFromString("500").Equal(dense["2024-03-01"].Value))
}

func TestFillForward_NoEntries(t *testing.T) {
	axis := []string{"2024-01-01", "2024-02-01"}

	dense := FillForward(map[string]Entry{}, axis)

	assert.Empty(t, dense)
}

func TestFillForward_NilSparseMap(t *testing.T) {
	axis := []string{"2024-01-01"}

	dense := FillForward(nil, axis)

	assert.Empty(t, dense)
}

func TestFillForward_CarriedCellKeepsFullEntry(t *testing.T) {
	axis := []string{"2024-01-01", "2024-02-01"}
	sparse := map[string]Entry{
		"2024-01-01": {
			Value:    decimal.RequireFromString("1000"),
			CashFlow: decimal.RequireFromString("1000"),
			GainLoss: decimal.RequireFromString("50"),
		},
	}

	dense := FillForward(sparse, axis)

	// The carry copies cash flow and gain/loss along with the value
	carried := dense["2024-02-01"]
	assert.True(t, decimal.RequireFromString("1000").Equal(carried.CashFlow))
	assert.True(t, decimal.RequireFromString("50").Equal(carried.GainLoss))
}
