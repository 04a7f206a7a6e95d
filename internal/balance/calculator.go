// Package balance derives account balances from the committed journal. The
// cached accounts.balance column is only a projection; everything here can be
// recomputed from journal lines alone, which is what makes the cache
// auditable and repairable.
package balance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=calculator.go -destination=repository_mock.go -package=balance
type Repository interface {
	// BalanceAsOf sums an account's lines with entry business date <= cutoff,
	// signed by the account's normal side.
	BalanceAsOf(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (decimal.Decimal, error)

	// Movement sums an account's lines with entry business date in
	// [start, end], signed by the account's normal side.
	Movement(ctx context.Context, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error)

	// RebuildBalances recomputes every cached account balance from the
	// journal and reports how many accounts were touched.
	RebuildBalances(ctx context.Context) (int64, error)
}

type Calculator struct {
	repo Repository
}

func NewCalculator(repo Repository) *Calculator {
	return &Calculator{repo: repo}
}

// BalanceAsOf returns the account's cumulative balance at the end of cutoff.
// Used for balance-sheet accounts, where balance accrues since creation.
func (c *Calculator) BalanceAsOf(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (decimal.Decimal, error) {
	return c.repo.BalanceAsOf(ctx, accountID, cutoff)
}

// Movement returns the account's net movement within the window. Used for
// P&L accounts, where only period activity is meaningful. Filtering is by the
// entry's business date, so backdated entries land in the right period
// regardless of when they were inserted.
func (c *Calculator) Movement(ctx context.Context, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	return c.repo.Movement(ctx, accountID, start, end)
}

// Rebuild recomputes every cached account balance from scratch. This is the
// audit/repair path: the cache is maintained incrementally by entry posting,
// and this proves (or restores) its agreement with the journal.
func (c *Calculator) Rebuild(ctx context.Context) (int64, error) {
	return c.repo.RebuildBalances(ctx)
}
