// Package valuecalc reconciles a reported account value against its history,
// resolving the cash-flow/gain-loss decomposition of the value change.
package valuecalc

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack/networth-backend/internal/domain"
)

// tolerance is the absolute slack allowed when validating a caller-supplied
// triple. Client edits arrive as binary floating point, so exact equality
// would reject honestly-rounded input.
var tolerance = decimal.RequireFromString("0.0001")

// Scenario identifies which of the optional inputs the caller supplied.
// A value counts as supplied when it is present at all; an explicit zero is
// supplied.
type Scenario int

const (
	// ScenarioBothSupplied validates the caller's triple for consistency
	ScenarioBothSupplied Scenario = iota
	// ScenarioCashFlowSupplied derives gain/loss from the remaining delta
	ScenarioCashFlowSupplied
	// ScenarioGainLossSupplied derives cash flow from the remaining delta
	ScenarioGainLossSupplied
	// ScenarioNoneSupplied attributes the whole delta per account type
	ScenarioNoneSupplied
)

// ResolveScenario classifies the input combination once, so the four cases
// can be dispatched and tested exhaustively.
func ResolveScenario(cashFlow, gainLoss *decimal.Decimal) Scenario {
	switch {
	case cashFlow != nil && gainLoss != nil:
		return ScenarioBothSupplied
	case cashFlow != nil:
		return ScenarioCashFlowSupplied
	case gainLoss != nil:
		return ScenarioGainLossSupplied
	default:
		return ScenarioNoneSupplied
	}
}

// Result holds the resolved decomposition of a value change
type Result struct {
	CashFlow decimal.Decimal
	GainLoss decimal.Decimal
}

// Calculate resolves cash flow and gain/loss for a newly reported value so
// that previousValue + cashFlow*cfMultiplier + gainLoss equals value.
//
// cfMultiplier is -1 for liabilities and +1 otherwise: borrowing against a
// liability raises its value while counting as money in.
//
// Returns a domain.ValidationError when the caller supplied both components
// and they do not reconcile with the value within the tolerance.
func Calculate(
	value decimal.Decimal,
	previousValue decimal.Decimal,
	accountType domain.AccountType,
	cashFlow *decimal.Decimal,
	gainLoss *decimal.Decimal,
) (Result, error) {
	cfMultiplier := decimal.NewFromInt(accountType.CashFlowMultiplier())
	delta := value.Sub(previousValue)

	switch ResolveScenario(cashFlow, gainLoss) {
	case ScenarioBothSupplied:
		expected := previousValue.Add(cashFlow.Mul(cfMultiplier)).Add(*gainLoss)
		if expected.Sub(value).Abs().GreaterThan(tolerance) {
			return Result{}, domain.NewValidationError(
				"inconsistent data: previous value + cash flow + gain/loss does not equal new value")
		}
		return Result{CashFlow: *cashFlow, GainLoss: *gainLoss}, nil

	case ScenarioCashFlowSupplied:
		return Result{
			CashFlow: *cashFlow,
			GainLoss: delta.Sub(cashFlow.Mul(cfMultiplier)),
		}, nil

	case ScenarioGainLossSupplied:
		// cfMultiplier is its own inverse, so multiplying again maps the
		// residual delta back into the cash-flow sign convention.
		return Result{
			CashFlow: delta.Sub(*gainLoss).Mul(cfMultiplier),
			GainLoss: *gainLoss,
		}, nil

	default: // ScenarioNoneSupplied
		if accountType == domain.AccountTypeInvestmentAsset {
			// Investments move on their own: the delta is appreciation.
			return Result{CashFlow: decimal.Zero, GainLoss: delta}, nil
		}
		// Cash and liabilities only move when money moves.
		return Result{CashFlow: delta.Mul(cfMultiplier), GainLoss: decimal.Zero}, nil
	}
}
