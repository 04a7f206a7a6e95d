package account_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/journal"
)

func TestService_Create(t *testing.T) {
	tests := []struct {
		name            string
		params          account.CreateParams
		wantDebitNormal bool
		wantErrIs       error
	}{
		{
			name: "AssetIsDebitNormal",
			params: account.CreateParams{
				Number:  "1000",
				Name:    "Cash Register",
				Type:    account.TypeAsset,
				SubType: account.SubTypeCash,
			},
			wantDebitNormal: true,
		},
		{
			name: "ExpenseIsDebitNormal",
			params: account.CreateParams{
				Number: "5100",
				Name:   "Rent",
				Type:   account.TypeExpense,
			},
			wantDebitNormal: true,
		},
		{
			name: "LiabilityIsCreditNormal",
			params: account.CreateParams{
				Number:  "2000",
				Name:    "Accounts Payable",
				Type:    account.TypeLiability,
				SubType: account.SubTypeAccountsPayable,
			},
			wantDebitNormal: false,
		},
		{
			name: "RevenueIsCreditNormal",
			params: account.CreateParams{
				Number:  "4000",
				Name:    "Sales",
				Type:    account.TypeRevenue,
				SubType: account.SubTypeSalesRevenue,
			},
			wantDebitNormal: false,
		},
		{
			name: "EquityIsCreditNormal",
			params: account.CreateParams{
				Number: "3000",
				Name:   "Owner Equity",
				Type:   account.TypeEquity,
			},
			wantDebitNormal: false,
		},
		{
			name: "UnknownType",
			params: account.CreateParams{
				Number: "9000",
				Name:   "Suspense",
				Type:   "contra",
			},
			wantErrIs: account.ErrInvalidType,
		},
		{
			name: "UnknownSubType",
			params: account.CreateParams{
				Number:  "1000",
				Name:    "Cash Register",
				Type:    account.TypeAsset,
				SubType: "petty_cash",
			},
			wantErrIs: account.ErrInvalidSubType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			svc := account.NewService(repo, account.NewMockPoster(ctrl))

			if tt.wantErrIs == nil {
				repo.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *account.Account) error {
						a.ID = uuid.New()
						return nil
					})
			}

			a, err := svc.Create(context.Background(), tt.params)

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDebitNormal, a.DebitNormal)
			assert.True(t, a.Balance.Equal(decimal.Zero))
		})
	}
}

func TestService_ControlAccount(t *testing.T) {
	one := &account.Account{ID: uuid.New(), Number: "1200", SubType: account.SubTypeAccountsReceivable}

	tests := []struct {
		name      string
		subType   account.SubType
		found     []*account.Account
		want      *account.Account
		wantErrIs error
	}{
		{
			name:    "Single",
			subType: account.SubTypeAccountsReceivable,
			found:   []*account.Account{one},
			want:    one,
		},
		{
			name:      "None",
			subType:   account.SubTypeAccountsReceivable,
			found:     nil,
			wantErrIs: account.ErrNoControlAccount,
		},
		{
			name:      "Ambiguous",
			subType:   account.SubTypeCash,
			found:     []*account.Account{{ID: uuid.New()}, {ID: uuid.New()}},
			wantErrIs: account.ErrAmbiguousControlAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			svc := account.NewService(repo, account.NewMockPoster(ctrl))

			repo.EXPECT().FindBySubType(gomock.Any(), tt.subType).Return(tt.found, nil)

			a, err := svc.ControlAccount(context.Background(), tt.subType)

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestService_Adjust(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := &account.Account{ID: uuid.New(), Name: "Inventory", Type: account.TypeAsset, SubType: account.SubTypeInventory}
	offset := &account.Account{ID: uuid.New(), Name: "Inventory Adjustment", Type: account.TypeExpense, SubType: account.SubTypeInventoryAdjustment}

	repo := account.NewMockRepository(ctrl)
	poster := account.NewMockPoster(ctrl)
	svc := account.NewService(repo, poster)

	repo.EXPECT().GetAccount(gomock.Any(), target.ID).Return(target, nil)
	repo.EXPECT().FindBySubType(gomock.Any(), account.SubTypeInventoryAdjustment).Return([]*account.Account{offset}, nil)
	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p journal.ProposedEntry) (*journal.Entry, error) {
			assert.Equal(t, "Shrinkage after stock count", p.Description)
			assert.Equal(t, journal.SourceAdjustment, p.Source.Type)
			require.NotNil(t, p.Source.ID)
			assert.Equal(t, target.ID, *p.Source.ID)

			require.Len(t, p.Lines, 2)
			assert.Equal(t, target.ID, p.Lines[0].AccountID)
			assert.Equal(t, journal.SideCredit, p.Lines[0].Side)
			assert.True(t, p.Lines[0].Amount.Equal(decimal.NewFromFloat(45.50)))
			assert.Equal(t, offset.ID, p.Lines[1].AccountID)
			assert.Equal(t, journal.SideDebit, p.Lines[1].Side)
			assert.True(t, p.Lines[1].Amount.Equal(decimal.NewFromFloat(45.50)))

			return &journal.Entry{ID: uuid.New(), Description: p.Description}, nil
		})

	entry, err := svc.Adjust(context.Background(), target.ID, account.AdjustParams{
		Amount: decimal.NewFromFloat(45.50),
		Side:   journal.SideCredit,
		Memo:   "Shrinkage after stock count",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestService_Adjust_Rejections(t *testing.T) {
	adjustAcct := &account.Account{ID: uuid.New(), Name: "Inventory Adjustment", SubType: account.SubTypeInventoryAdjustment}

	tests := []struct {
		name      string
		params    account.AdjustParams
		setup     func(repo *account.MockRepository)
		wantErrIs error
	}{
		{
			name:      "NonPositiveAmount",
			params:    account.AdjustParams{Amount: decimal.Zero, Side: journal.SideDebit},
			wantErrIs: account.ErrInvalidAdjustment,
		},
		{
			name:      "UnknownSide",
			params:    account.AdjustParams{Amount: decimal.NewFromInt(10), Side: "both"},
			wantErrIs: account.ErrInvalidAdjustment,
		},
		{
			name:   "TargetIsTheAdjustmentAccount",
			params: account.AdjustParams{Amount: decimal.NewFromInt(10), Side: journal.SideDebit},
			setup: func(repo *account.MockRepository) {
				repo.EXPECT().GetAccount(gomock.Any(), adjustAcct.ID).Return(adjustAcct, nil)
				repo.EXPECT().FindBySubType(gomock.Any(), account.SubTypeInventoryAdjustment).Return([]*account.Account{adjustAcct}, nil)
			},
			wantErrIs: account.ErrInvalidAdjustment,
		},
		{
			name:   "NoAdjustmentAccountConfigured",
			params: account.AdjustParams{Amount: decimal.NewFromInt(10), Side: journal.SideDebit},
			setup: func(repo *account.MockRepository) {
				repo.EXPECT().GetAccount(gomock.Any(), adjustAcct.ID).Return(adjustAcct, nil)
				repo.EXPECT().FindBySubType(gomock.Any(), account.SubTypeInventoryAdjustment).Return(nil, nil)
			},
			wantErrIs: account.ErrNoControlAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo)
			}

			svc := account.NewService(repo, account.NewMockPoster(ctrl))

			_, err := svc.Adjust(context.Background(), adjustAcct.ID, tt.params)
			assert.ErrorIs(t, err, tt.wantErrIs)
		})
	}
}

func TestService_ControlAccount_RejectsEmptySubType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := account.NewService(account.NewMockRepository(ctrl), account.NewMockPoster(ctrl))

	_, err := svc.ControlAccount(context.Background(), account.SubTypeNone)
	assert.ErrorIs(t, err, account.ErrInvalidSubType)
}
