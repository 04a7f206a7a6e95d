package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/reconcile"
	"github.com/tillbook/tillbook/internal/report"
)

type lineResponse struct {
	AccountID uuid.UUID       `json:"account_id,omitempty"`
	Number    string          `json:"number,omitempty"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

func toLines(lines []report.AccountLine) []lineResponse {
	resp := make([]lineResponse, len(lines))
	for i, l := range lines {
		resp[i] = lineResponse{AccountID: l.AccountID, Number: l.Number, Name: l.Name, Amount: l.Amount}
	}

	return resp
}

type profitLossResponse struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Revenue       []lineResponse  `json:"revenue"`
	Expenses      []lineResponse  `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalCOGS     decimal.Decimal `json:"total_cogs"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

func toProfitLossResponse(pl *report.ProfitLoss) profitLossResponse {
	return profitLossResponse{
		Start:         pl.Start,
		End:           pl.End,
		Revenue:       toLines(pl.Revenue),
		Expenses:      toLines(pl.Expenses),
		TotalRevenue:  pl.TotalRevenue,
		TotalCOGS:     pl.TotalCOGS,
		TotalExpenses: pl.TotalExpenses,
		GrossProfit:   pl.GrossProfit,
		NetIncome:     pl.NetIncome,
	}
}

type balanceSheetResponse struct {
	AsOf             time.Time       `json:"as_of"`
	Assets           []lineResponse  `json:"assets"`
	Liabilities      []lineResponse  `json:"liabilities"`
	Equity           []lineResponse  `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	EquationDelta    decimal.Decimal `json:"equation_delta"`
	Balanced         bool            `json:"balanced"`
}

func toBalanceSheetResponse(bs *report.BalanceSheet) balanceSheetResponse {
	return balanceSheetResponse{
		AsOf:             bs.AsOf,
		Assets:           toLines(bs.Assets),
		Liabilities:      toLines(bs.Liabilities),
		Equity:           toLines(bs.Equity),
		TotalAssets:      bs.TotalAssets,
		TotalLiabilities: bs.TotalLiabilities,
		TotalEquity:      bs.TotalEquity,
		EquationDelta:    bs.EquationDelta,
		Balanced:         bs.Balanced,
	}
}

type rebuildResponse struct {
	AccountsUpdated int64 `json:"accounts_updated"`
}

type checkResponse struct {
	Subledger decimal.Decimal `json:"subledger"`
	Control   decimal.Decimal `json:"control"`
	Delta     decimal.Decimal `json:"delta"`
	Match     bool            `json:"match"`
}

func toCheckResponse(c reconcile.Check) checkResponse {
	return checkResponse{Subledger: c.Subledger, Control: c.Control, Delta: c.Delta, Match: c.Match}
}

type reconciliationResponse struct {
	AccountsReceivable checkResponse `json:"accounts_receivable"`
	AccountsPayable    checkResponse `json:"accounts_payable"`
	Inventory          checkResponse `json:"inventory"`
	RanAt              time.Time     `json:"ran_at"`
}

func toReconciliationResponse(rec *reconcile.Report) reconciliationResponse {
	return reconciliationResponse{
		AccountsReceivable: toCheckResponse(rec.AccountsReceivable),
		AccountsPayable:    toCheckResponse(rec.AccountsPayable),
		Inventory:          toCheckResponse(rec.Inventory),
		RanAt:              rec.RanAt,
	}
}

type summaryResponse struct {
	Start   time.Time             `json:"start"`
	End     time.Time             `json:"end"`
	Summary summaryTotalsResponse `json:"summary"`
	Period  periodTotalsResponse  `json:"period"`
	Checks  summaryChecksResponse `json:"checks"`
}

type summaryTotalsResponse struct {
	InventoryValue     decimal.Decimal `json:"inventory_value"`
	AccountsReceivable decimal.Decimal `json:"accounts_receivable"`
	AccountsPayable    decimal.Decimal `json:"accounts_payable"`
	CashBalance        decimal.Decimal `json:"cash_balance"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	Equity             decimal.Decimal `json:"equity"`
}

type periodTotalsResponse struct {
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	Expenses    decimal.Decimal `json:"expenses"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	NetIncome   decimal.Decimal `json:"net_income"`
}

type summaryChecksResponse struct {
	ARMatch          bool `json:"ar_match"`
	APMatch          bool `json:"ap_match"`
	InventoryMatch   bool `json:"inventory_match"`
	EquationBalanced bool `json:"equation_balanced"`
}

func toSummaryResponse(s *report.FinancialSummary) summaryResponse {
	return summaryResponse{
		Start: s.Start,
		End:   s.End,
		Summary: summaryTotalsResponse{
			InventoryValue:     s.Summary.InventoryValue,
			AccountsReceivable: s.Summary.AccountsReceivable,
			AccountsPayable:    s.Summary.AccountsPayable,
			CashBalance:        s.Summary.CashBalance,
			TotalAssets:        s.Summary.TotalAssets,
			TotalLiabilities:   s.Summary.TotalLiabilities,
			Equity:             s.Summary.Equity,
		},
		Period: periodTotalsResponse{
			Revenue:     s.Period.Revenue,
			COGS:        s.Period.COGS,
			Expenses:    s.Period.Expenses,
			GrossProfit: s.Period.GrossProfit,
			NetIncome:   s.Period.NetIncome,
		},
		Checks: summaryChecksResponse{
			ARMatch:          s.Checks.ARMatch,
			APMatch:          s.Checks.APMatch,
			InventoryMatch:   s.Checks.InventoryMatch,
			EquationBalanced: s.Checks.EquationBalanced,
		},
	}
}
