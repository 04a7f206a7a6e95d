package payables

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/journal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payables
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	// ApplyPayment inserts the payment and bumps the invoice's amount_paid in
	// one transaction, guarded so the new total never exceeds the invoice
	// amount. A failed guard is ErrOverpayment.
	ApplyPayment(ctx context.Context, invoiceID uuid.UUID, p *Payment) (*Invoice, error)

	// RevertPayment undoes an applied payment whose journal posting failed.
	RevertPayment(ctx context.Context, paymentID, invoiceID uuid.UUID, amount decimal.Decimal) error

	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
}

// Accounts resolves control accounts; satisfied by the account service.
type Accounts interface {
	ControlAccount(ctx context.Context, subType account.SubType) (*account.Account, error)
}

// Poster posts journal entries; satisfied by the journal engine.
type Poster interface {
	Post(ctx context.Context, p journal.ProposedEntry) (*journal.Entry, error)
}

type Service struct {
	repo     Repository
	accounts Accounts
	poster   Poster
	now      func() time.Time
}

func NewService(repo Repository, accounts Accounts, poster Poster) *Service {
	return &Service{repo: repo, accounts: accounts, poster: poster, now: time.Now}
}

type ListFilter struct {
	Status     *Status
	SupplierID *uuid.UUID
	AsOf       time.Time
}

type RecordInvoiceParams struct {
	SupplierID   uuid.UUID
	SupplierName string
	Number       string
	Amount       decimal.Decimal
	InvoiceDate  time.Time
	DueDate      time.Time

	// DebitAccountID is the account the purchase is charged to, typically
	// the inventory control account or an expense account.
	DebitAccountID uuid.UUID
}

// RecordInvoice stores the invoice and posts the matching liability entry,
// debit the purchase account and credit accounts payable. If the posting
// fails the stored invoice is removed so the sub-ledger and the general
// ledger never diverge.
func (s *Service) RecordInvoice(ctx context.Context, params RecordInvoiceParams) (*Invoice, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	ap, err := s.accounts.ControlAccount(ctx, account.SubTypeAccountsPayable)
	if err != nil {
		return nil, fmt.Errorf("resolving accounts payable control account: %w", err)
	}

	inv := &Invoice{
		SupplierID:   params.SupplierID,
		SupplierName: params.SupplierName,
		Number:       params.Number,
		Amount:       params.Amount,
		AmountPaid:   decimal.Zero,
		InvoiceDate:  params.InvoiceDate,
		DueDate:      params.DueDate,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	proposed := journal.ProposedEntry{
		Date:        params.InvoiceDate,
		Description: fmt.Sprintf("Supplier invoice %s from %s", params.Number, params.SupplierName),
		Source:      journal.Source{Type: journal.SourcePurchase, ID: &inv.ID},
		Lines: []journal.ProposedLine{
			{AccountID: params.DebitAccountID, Side: journal.SideDebit, Amount: params.Amount},
			{AccountID: ap.ID, Side: journal.SideCredit, Amount: params.Amount},
		},
	}

	if _, err := s.poster.Post(ctx, proposed); err != nil {
		if derr := s.repo.DeleteInvoice(ctx, inv.ID); derr != nil {
			return nil, fmt.Errorf("posting invoice entry: %w (removing invoice also failed: %v)", err, derr)
		}

		return nil, fmt.Errorf("posting invoice entry: %w", err)
	}

	return inv, nil
}

type PaymentParams struct {
	Amount decimal.Decimal
	Date   time.Time
	Method string
}

// ApplyPayment settles part or all of an invoice. The sub-ledger update is
// guarded against overpayment at the store, then the settlement entry is
// posted, debit accounts payable and credit cash. A failed posting reverts
// the sub-ledger update.
func (s *Service) ApplyPayment(ctx context.Context, invoiceID uuid.UUID, params PaymentParams) (*Invoice, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	ap, err := s.accounts.ControlAccount(ctx, account.SubTypeAccountsPayable)
	if err != nil {
		return nil, fmt.Errorf("resolving accounts payable control account: %w", err)
	}

	cash, err := s.accounts.ControlAccount(ctx, account.SubTypeCash)
	if err != nil {
		return nil, fmt.Errorf("resolving cash control account: %w", err)
	}

	p := &Payment{
		Amount: params.Amount,
		Date:   params.Date,
		Method: params.Method,
	}

	inv, err := s.repo.ApplyPayment(ctx, invoiceID, p)
	if err != nil {
		return nil, err
	}

	proposed := journal.ProposedEntry{
		Date:        params.Date,
		Description: fmt.Sprintf("Payment for supplier invoice %s", inv.Number),
		Source:      journal.Source{Type: journal.SourcePayment, ID: &p.ID},
		Lines: []journal.ProposedLine{
			{AccountID: ap.ID, Side: journal.SideDebit, Amount: params.Amount},
			{AccountID: cash.ID, Side: journal.SideCredit, Amount: params.Amount},
		},
	}

	if _, err := s.poster.Post(ctx, proposed); err != nil {
		if rerr := s.repo.RevertPayment(ctx, p.ID, invoiceID, params.Amount); rerr != nil {
			return nil, fmt.Errorf("posting payment entry: %w (revert also failed: %v)", err, rerr)
		}

		return nil, fmt.Errorf("posting payment entry: %w", err)
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, status *Status, supplierID *uuid.UUID) ([]*Invoice, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *status)
	}

	return s.repo.ListInvoices(ctx, ListFilter{Status: status, SupplierID: supplierID, AsOf: s.now()})
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, invoiceID)
}
