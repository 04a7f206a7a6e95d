package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/journal"
)

// Order selects how List sorts the chart of accounts. Formal statements want
// number order; the dashboard wants the largest balances first.
type Order string

const (
	OrderByNumber  Order = "number"
	OrderByBalance Order = "balance"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, order Order) ([]*Account, error)
	FindBySubType(ctx context.Context, subType SubType) ([]*Account, error)
}

// Poster posts journal entries; satisfied by the journal engine.
type Poster interface {
	Post(ctx context.Context, p journal.ProposedEntry) (*journal.Entry, error)
}

type Service struct {
	repo   Repository
	poster Poster
}

func NewService(repo Repository, poster Poster) *Service {
	return &Service{repo: repo, poster: poster}
}

type CreateParams struct {
	Number      string
	Name        string
	Type        Type
	SubType     SubType
	Description string
}

// Create registers a new account. DebitNormal is derived from the type, never
// supplied by the caller. Accounts open at zero; only journal postings move a
// balance after that.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, params.Type)
	}

	if !params.SubType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubType, params.SubType)
	}

	a := &Account{
		Number:      params.Number,
		Name:        params.Name,
		Type:        params.Type,
		SubType:     params.SubType,
		DebitNormal: params.Type.DebitNormal(),
		Description: params.Description,
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context, order Order) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, order)
}

// ControlAccount resolves the single system account tagged with subType.
// Zero or multiple matches are configuration errors surfaced to the caller;
// the registry never guesses which account a sub-ledger should reconcile
// against.
func (s *Service) ControlAccount(ctx context.Context, subType SubType) (*Account, error) {
	if subType == SubTypeNone || !subType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubType, subType)
	}

	accounts, err := s.repo.FindBySubType(ctx, subType)
	if err != nil {
		return nil, err
	}

	switch len(accounts) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNoControlAccount, subType)
	case 1:
		return accounts[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousControlAccount, subType)
	}
}

type AdjustParams struct {
	Amount decimal.Decimal
	Side   journal.Side
	Memo   string
	Date   time.Time
}

// Adjust corrects an account balance by posting a two-line entry against the
// inventory adjustment control account, so even manual corrections leave a
// journal trail. The control account itself cannot be the target.
func (s *Service) Adjust(ctx context.Context, id uuid.UUID, params AdjustParams) (*journal.Entry, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAdjustment)
	}

	if !params.Side.Valid() {
		return nil, fmt.Errorf("%w: side %q", ErrInvalidAdjustment, params.Side)
	}

	target, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	offset, err := s.ControlAccount(ctx, SubTypeInventoryAdjustment)
	if err != nil {
		return nil, err
	}

	if target.ID == offset.ID {
		return nil, fmt.Errorf("%w: cannot adjust the adjustment account", ErrInvalidAdjustment)
	}

	date := params.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	memo := params.Memo
	if memo == "" {
		memo = fmt.Sprintf("Balance adjustment: %s", target.Name)
	}

	entry, err := s.poster.Post(ctx, journal.ProposedEntry{
		Date:        date,
		Description: memo,
		Source:      journal.Source{Type: journal.SourceAdjustment, ID: &target.ID},
		Lines: []journal.ProposedLine{
			{AccountID: target.ID, Side: params.Side, Amount: params.Amount},
			{AccountID: offset.ID, Side: params.Side.Opposite(), Amount: params.Amount},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("posting adjustment: %w", err)
	}

	return entry, nil
}
