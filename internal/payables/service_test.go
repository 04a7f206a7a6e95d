package payables_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/journal"
	"github.com/tillbook/tillbook/internal/payables"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInvoice_StatusAt(t *testing.T) {
	due := date(2024, 6, 30)

	tests := []struct {
		name string
		paid string
		now  time.Time
		want payables.Status
	}{
		{name: "Unpaid", paid: "0", now: date(2024, 6, 1), want: payables.StatusUnpaid},
		{name: "PartiallyPaid", paid: "40.00", now: date(2024, 6, 1), want: payables.StatusPartiallyPaid},
		{name: "Paid", paid: "100.00", now: date(2024, 6, 1), want: payables.StatusPaid},
		{name: "OverdueUnpaid", paid: "0", now: date(2024, 7, 1), want: payables.StatusOverdue},
		{name: "OverduePartial", paid: "40.00", now: date(2024, 7, 1), want: payables.StatusOverdue},
		{name: "PaidNeverOverdue", paid: "100.00", now: date(2024, 7, 1), want: payables.StatusPaid},
		{name: "NotOverdueOnDueDate", paid: "0", now: due, want: payables.StatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &payables.Invoice{
				Amount:     decimal.RequireFromString("100.00"),
				AmountPaid: decimal.RequireFromString(tt.paid),
				DueDate:    due,
			}

			assert.Equal(t, tt.want, inv.StatusAt(tt.now))
		})
	}
}

func controlAccount(subType account.SubType) *account.Account {
	return &account.Account{ID: uuid.New(), SubType: subType}
}

func TestService_RecordInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payables.NewMockRepository(ctrl)
	accounts := payables.NewMockAccounts(ctrl)
	poster := payables.NewMockPoster(ctrl)
	svc := payables.NewService(repo, accounts, poster)

	ap := controlAccount(account.SubTypeAccountsPayable)
	inventoryID := uuid.New()

	accounts.EXPECT().
		ControlAccount(gomock.Any(), account.SubTypeAccountsPayable).
		Return(ap, nil)

	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *payables.Invoice) error {
			inv.ID = uuid.New()
			return nil
		})

	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p journal.ProposedEntry) (*journal.Entry, error) {
			require.Len(t, p.Lines, 2)
			assert.Equal(t, journal.SourcePurchase, p.Source.Type)
			assert.Equal(t, inventoryID, p.Lines[0].AccountID)
			assert.Equal(t, journal.SideDebit, p.Lines[0].Side)
			assert.Equal(t, ap.ID, p.Lines[1].AccountID)
			assert.Equal(t, journal.SideCredit, p.Lines[1].Side)

			return &journal.Entry{ID: uuid.New()}, nil
		})

	inv, err := svc.RecordInvoice(context.Background(), payables.RecordInvoiceParams{
		SupplierID:     uuid.New(),
		SupplierName:   "Fresh Foods Ltd",
		Number:         "INV-1042",
		Amount:         decimal.RequireFromString("250.00"),
		InvoiceDate:    date(2024, 6, 1),
		DueDate:        date(2024, 6, 30),
		DebitAccountID: inventoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, payables.StatusUnpaid, inv.StatusAt(date(2024, 6, 1)))
	assert.True(t, inv.Balance().Equal(decimal.RequireFromString("250.00")))
}

func TestService_RecordInvoice_RemovesInvoiceWhenPostFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payables.NewMockRepository(ctrl)
	accounts := payables.NewMockAccounts(ctrl)
	poster := payables.NewMockPoster(ctrl)
	svc := payables.NewService(repo, accounts, poster)

	accounts.EXPECT().
		ControlAccount(gomock.Any(), account.SubTypeAccountsPayable).
		Return(controlAccount(account.SubTypeAccountsPayable), nil)

	var createdID uuid.UUID

	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *payables.Invoice) error {
			inv.ID = uuid.New()
			createdID = inv.ID
			return nil
		})

	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		Return(nil, journal.ErrUnknownAccount)

	repo.EXPECT().
		DeleteInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, createdID, id)
			return nil
		})

	_, err := svc.RecordInvoice(context.Background(), payables.RecordInvoiceParams{
		SupplierID:     uuid.New(),
		SupplierName:   "Fresh Foods Ltd",
		Number:         "INV-1043",
		Amount:         decimal.RequireFromString("250.00"),
		InvoiceDate:    date(2024, 6, 1),
		DueDate:        date(2024, 6, 30),
		DebitAccountID: uuid.New(),
	})
	assert.ErrorIs(t, err, journal.ErrUnknownAccount)
}

func TestService_RecordInvoice_RejectsNonPositiveAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := payables.NewService(
		payables.NewMockRepository(ctrl),
		payables.NewMockAccounts(ctrl),
		payables.NewMockPoster(ctrl),
	)

	_, err := svc.RecordInvoice(context.Background(), payables.RecordInvoiceParams{
		Amount:         decimal.Zero,
		DebitAccountID: uuid.New(),
	})
	assert.ErrorIs(t, err, payables.ErrInvalidAmount)
}

func TestService_ApplyPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payables.NewMockRepository(ctrl)
	accounts := payables.NewMockAccounts(ctrl)
	poster := payables.NewMockPoster(ctrl)
	svc := payables.NewService(repo, accounts, poster)

	ap := controlAccount(account.SubTypeAccountsPayable)
	cash := controlAccount(account.SubTypeCash)
	invoiceID := uuid.New()
	amount := decimal.RequireFromString("100.00")

	accounts.EXPECT().ControlAccount(gomock.Any(), account.SubTypeAccountsPayable).Return(ap, nil)
	accounts.EXPECT().ControlAccount(gomock.Any(), account.SubTypeCash).Return(cash, nil)

	repo.EXPECT().
		ApplyPayment(gomock.Any(), invoiceID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, p *payables.Payment) (*payables.Invoice, error) {
			p.ID = uuid.New()
			p.InvoiceID = id

			return &payables.Invoice{
				ID:         id,
				Number:     "INV-1042",
				Amount:     decimal.RequireFromString("250.00"),
				AmountPaid: amount,
				DueDate:    date(2024, 6, 30),
			}, nil
		})

	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p journal.ProposedEntry) (*journal.Entry, error) {
			require.Len(t, p.Lines, 2)
			assert.Equal(t, journal.SourcePayment, p.Source.Type)
			assert.Equal(t, ap.ID, p.Lines[0].AccountID)
			assert.Equal(t, journal.SideDebit, p.Lines[0].Side)
			assert.Equal(t, cash.ID, p.Lines[1].AccountID)
			assert.Equal(t, journal.SideCredit, p.Lines[1].Side)
			assert.True(t, p.Lines[0].Amount.Equal(amount))

			return &journal.Entry{ID: uuid.New()}, nil
		})

	inv, err := svc.ApplyPayment(context.Background(), invoiceID, payables.PaymentParams{
		Amount: amount,
		Date:   date(2024, 6, 15),
		Method: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, payables.StatusPartiallyPaid, inv.StatusAt(date(2024, 6, 15)))
}

func TestService_ApplyPayment_Overpayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payables.NewMockRepository(ctrl)
	accounts := payables.NewMockAccounts(ctrl)
	poster := payables.NewMockPoster(ctrl)
	svc := payables.NewService(repo, accounts, poster)

	accounts.EXPECT().ControlAccount(gomock.Any(), account.SubTypeAccountsPayable).Return(controlAccount(account.SubTypeAccountsPayable), nil)
	accounts.EXPECT().ControlAccount(gomock.Any(), account.SubTypeCash).Return(controlAccount(account.SubTypeCash), nil)

	repo.EXPECT().
		ApplyPayment(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, payables.ErrOverpayment)

	_, err := svc.ApplyPayment(context.Background(), uuid.New(), payables.PaymentParams{
		Amount: decimal.RequireFromString("300.00"),
		Date:   date(2024, 6, 15),
	})
	assert.ErrorIs(t, err, payables.ErrOverpayment)
}

func TestService_ApplyPayment_RevertsWhenPostFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payables.NewMockRepository(ctrl)
	accounts := payables.NewMockAccounts(ctrl)
	poster := payables.NewMockPoster(ctrl)
	svc := payables.NewService(repo, accounts, poster)

	accounts.EXPECT().ControlAccount(gomock.Any(), account.SubTypeAccountsPayable).Return(controlAccount(account.SubTypeAccountsPayable), nil)
	accounts.EXPECT().ControlAccount(gomock.Any(), account.SubTypeCash).Return(controlAccount(account.SubTypeCash), nil)

	invoiceID := uuid.New()
	amount := decimal.RequireFromString("100.00")

	var paymentID uuid.UUID

	repo.EXPECT().
		ApplyPayment(gomock.Any(), invoiceID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, p *payables.Payment) (*payables.Invoice, error) {
			p.ID = uuid.New()
			paymentID = p.ID

			return &payables.Invoice{ID: id, Number: "INV-1042", Amount: amount, AmountPaid: amount}, nil
		})

	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		Return(nil, journal.ErrUnbalancedEntry)

	repo.EXPECT().
		RevertPayment(gomock.Any(), gomock.Any(), invoiceID, amount).
		DoAndReturn(func(_ context.Context, pid, _ uuid.UUID, _ decimal.Decimal) error {
			assert.Equal(t, paymentID, pid)
			return nil
		})

	_, err := svc.ApplyPayment(context.Background(), invoiceID, payables.PaymentParams{
		Amount: amount,
		Date:   date(2024, 6, 15),
	})
	assert.ErrorIs(t, err, journal.ErrUnbalancedEntry)
}
