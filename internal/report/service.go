package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/journal"
	"github.com/tillbook/tillbook/internal/reconcile"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=report

// Accounts is the slice of the account registry the builder needs.
type Accounts interface {
	List(ctx context.Context, order account.Order) ([]*account.Account, error)
	ControlAccount(ctx context.Context, subType account.SubType) (*account.Account, error)
}

// Balances is the slice of the balance calculator the builder needs.
type Balances interface {
	BalanceAsOf(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (decimal.Decimal, error)
	Movement(ctx context.Context, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
}

// Reconciler runs a sub-ledger reconciliation pass.
type Reconciler interface {
	Run(ctx context.Context) (*reconcile.Report, error)
}

// Service composes the registry, calculator, and reconciler into statements.
// It is read-only over the journal.
type Service struct {
	accounts   Accounts
	balances   Balances
	reconciler Reconciler
}

func NewService(accounts Accounts, balances Balances, reconciler Reconciler) *Service {
	return &Service{accounts: accounts, balances: balances, reconciler: reconciler}
}

// ProfitLoss builds the income statement for [start, end]. Accounts with no
// movement in the window are omitted.
func (s *Service) ProfitLoss(ctx context.Context, start, end time.Time, order account.Order) (*ProfitLoss, error) {
	accounts, err := s.accounts.List(ctx, account.OrderByNumber)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	pl := &ProfitLoss{Start: start, End: end}

	for _, a := range accounts {
		if a.Type != account.TypeRevenue && a.Type != account.TypeExpense {
			continue
		}

		movement, err := s.balances.Movement(ctx, a.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("movement for account %s: %w", a.Number, err)
		}

		if movement.IsZero() {
			continue
		}

		line := AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Amount: movement}

		if a.Type == account.TypeRevenue {
			pl.Revenue = append(pl.Revenue, line)
			pl.TotalRevenue = pl.TotalRevenue.Add(movement)

			continue
		}

		pl.Expenses = append(pl.Expenses, line)
		pl.TotalExpenses = pl.TotalExpenses.Add(movement)

		if a.SubType == account.SubTypeCOGS {
			pl.TotalCOGS = pl.TotalCOGS.Add(movement)
		}
	}

	// Without a cogs account the simplified model reports gross profit equal
	// to revenue.
	pl.GrossProfit = pl.TotalRevenue.Sub(pl.TotalCOGS)
	pl.NetIncome = pl.TotalRevenue.Sub(pl.TotalExpenses)

	sortLines(pl.Revenue, order)
	sortLines(pl.Expenses, order)

	return pl, nil
}

// BalanceSheet builds the point-in-time statement and performs the
// accounting-equation audit.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time, order account.Order) (*BalanceSheet, error) {
	accounts, err := s.accounts.List(ctx, account.OrderByNumber)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	bs := &BalanceSheet{AsOf: asOf}
	earnings := decimal.Zero

	for _, a := range accounts {
		balance, err := s.balances.BalanceAsOf(ctx, a.ID, asOf)
		if err != nil {
			return nil, fmt.Errorf("balance for account %s: %w", a.Number, err)
		}

		line := AccountLine{AccountID: a.ID, Number: a.Number, Name: a.Name, Amount: balance}

		switch a.Type {
		case account.TypeAsset:
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = bs.TotalAssets.Add(balance)
		case account.TypeLiability:
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(balance)
		case account.TypeEquity:
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity = bs.TotalEquity.Add(balance)
		case account.TypeRevenue:
			earnings = earnings.Add(balance)
		case account.TypeExpense:
			earnings = earnings.Sub(balance)
		}
	}

	// Accumulated P&L results belong to equity until a formal close moves
	// them into retained earnings.
	if !earnings.IsZero() {
		bs.Equity = append(bs.Equity, AccountLine{Name: "Current Earnings", Amount: earnings})
	}

	bs.TotalEquity = bs.TotalEquity.Add(earnings)

	bs.EquationDelta = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
	bs.Balanced = bs.EquationDelta.Abs().LessThan(journal.Tolerance)

	sortLines(bs.Assets, order)
	sortLines(bs.Liabilities, order)
	sortLines(bs.Equity, order)

	return bs, nil
}

// Summary builds the dashboard projection: point-in-time control balances,
// period P&L totals, and the reconciliation and equation audit flags.
func (s *Service) Summary(ctx context.Context, start, end time.Time) (*FinancialSummary, error) {
	bs, err := s.BalanceSheet(ctx, end, account.OrderByBalance)
	if err != nil {
		return nil, err
	}

	pl, err := s.ProfitLoss(ctx, start, end, account.OrderByBalance)
	if err != nil {
		return nil, err
	}

	rec, err := s.reconciler.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("running reconciliation: %w", err)
	}

	summary := &FinancialSummary{
		Start: start,
		End:   end,
		Summary: SummaryTotals{
			TotalAssets:      bs.TotalAssets,
			TotalLiabilities: bs.TotalLiabilities,
			Equity:           bs.TotalEquity,
		},
		Period: PeriodTotals{
			Revenue:     pl.TotalRevenue,
			COGS:        pl.TotalCOGS,
			Expenses:    pl.TotalExpenses,
			GrossProfit: pl.GrossProfit,
			NetIncome:   pl.NetIncome,
		},
		Checks: Checks{
			ARMatch:          rec.AccountsReceivable.Match,
			APMatch:          rec.AccountsPayable.Match,
			InventoryMatch:   rec.Inventory.Match,
			EquationBalanced: bs.Balanced,
		},
	}

	for _, c := range []struct {
		subType account.SubType
		dest    *decimal.Decimal
	}{
		{account.SubTypeCash, &summary.Summary.CashBalance},
		{account.SubTypeInventory, &summary.Summary.InventoryValue},
		{account.SubTypeAccountsReceivable, &summary.Summary.AccountsReceivable},
		{account.SubTypeAccountsPayable, &summary.Summary.AccountsPayable},
	} {
		ctrl, err := s.accounts.ControlAccount(ctx, c.subType)
		if err != nil {
			return nil, fmt.Errorf("resolving %s control account: %w", c.subType, err)
		}

		balance, err := s.balances.BalanceAsOf(ctx, ctrl.ID, end)
		if err != nil {
			return nil, fmt.Errorf("balance for %s control account: %w", c.subType, err)
		}

		*c.dest = balance
	}

	return summary, nil
}

// sortLines applies the requested presentation order: number ascending for
// formal statements, absolute amount descending for the dashboard.
func sortLines(lines []AccountLine, order account.Order) {
	switch order {
	case account.OrderByBalance:
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].Amount.Abs().GreaterThan(lines[j].Amount.Abs())
		})
	default:
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].Number < lines[j].Number
		})
	}
}
