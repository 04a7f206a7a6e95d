package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountLine is one account's contribution to a statement section.
type AccountLine struct {
	AccountID uuid.UUID
	Number    string
	Name      string
	Amount    decimal.Decimal
}

// ProfitLoss is the period-scoped income statement. Amounts are net
// movements within the window, not cumulative balances.
type ProfitLoss struct {
	Start         time.Time
	End           time.Time
	Revenue       []AccountLine
	Expenses      []AccountLine
	TotalRevenue  decimal.Decimal
	TotalCOGS     decimal.Decimal
	TotalExpenses decimal.Decimal
	GrossProfit   decimal.Decimal
	NetIncome     decimal.Decimal
}

// BalanceSheet is the point-in-time statement. Equity includes a synthetic
// current-earnings line so the accounting equation closes without a formal
// period-end close.
type BalanceSheet struct {
	AsOf             time.Time
	Assets           []AccountLine
	Liabilities      []AccountLine
	Equity           []AccountLine
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal

	// EquationDelta is totalAssets - (totalLiabilities + totalEquity);
	// Balanced is the accounting-equation audit. A failed audit is reported,
	// never corrected.
	EquationDelta decimal.Decimal
	Balanced      bool
}

// SummaryTotals are the point-in-time figures of a FinancialSummary.
type SummaryTotals struct {
	InventoryValue     decimal.Decimal
	AccountsReceivable decimal.Decimal
	AccountsPayable    decimal.Decimal
	CashBalance        decimal.Decimal
	TotalAssets        decimal.Decimal
	TotalLiabilities   decimal.Decimal
	Equity             decimal.Decimal
}

// PeriodTotals are the period-scoped figures of a FinancialSummary.
type PeriodTotals struct {
	Revenue     decimal.Decimal
	COGS        decimal.Decimal
	Expenses    decimal.Decimal
	GrossProfit decimal.Decimal
	NetIncome   decimal.Decimal
}

// Checks are the audit flags surfaced with a FinancialSummary.
type Checks struct {
	ARMatch          bool
	APMatch          bool
	InventoryMatch   bool
	EquationBalanced bool
}

// FinancialSummary is a pure projection for the dashboard; it is never
// persisted.
type FinancialSummary struct {
	Start   time.Time
	End     time.Time
	Summary SummaryTotals
	Period  PeriodTotals
	Checks  Checks
}
