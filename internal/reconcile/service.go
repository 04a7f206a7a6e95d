package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/account"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconcile
type Repository interface {
	// ReceivablesTotal sums customer account balances.
	ReceivablesTotal(ctx context.Context) (decimal.Decimal, error)

	// OpenPayablesTotal sums the unpaid remainder of open supplier invoices.
	OpenPayablesTotal(ctx context.Context) (decimal.Decimal, error)

	// InventoryValue sums stock times cost price over all products.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}

// ControlAccounts resolves the single GL control account for a sub-type.
// Ambiguity (two cash accounts, say) is a configuration error and fails the
// pass rather than guessing.
type ControlAccounts interface {
	ControlAccount(ctx context.Context, subType account.SubType) (*account.Account, error)
}

type Service struct {
	repo     Repository
	accounts ControlAccounts
	now      func() time.Time
}

func NewService(repo Repository, accounts ControlAccounts) *Service {
	return &Service{repo: repo, accounts: accounts, now: time.Now}
}

// Run executes one reconciliation pass over all three sub-ledgers.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	ar, err := s.check(ctx, account.SubTypeAccountsReceivable, s.repo.ReceivablesTotal)
	if err != nil {
		return nil, fmt.Errorf("reconciling receivables: %w", err)
	}

	ap, err := s.check(ctx, account.SubTypeAccountsPayable, s.repo.OpenPayablesTotal)
	if err != nil {
		return nil, fmt.Errorf("reconciling payables: %w", err)
	}

	inv, err := s.check(ctx, account.SubTypeInventory, s.repo.InventoryValue)
	if err != nil {
		return nil, fmt.Errorf("reconciling inventory: %w", err)
	}

	return &Report{
		AccountsReceivable: ar,
		AccountsPayable:    ap,
		Inventory:          inv,
		RanAt:              s.now(),
	}, nil
}

func (s *Service) check(ctx context.Context, subType account.SubType, total func(context.Context) (decimal.Decimal, error)) (Check, error) {
	subledger, err := total(ctx)
	if err != nil {
		return Check{}, err
	}

	control, err := s.accounts.ControlAccount(ctx, subType)
	if err != nil {
		return Check{}, err
	}

	return newCheck(subledger, control.Balance), nil
}
