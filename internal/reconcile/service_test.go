package reconcile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/reconcile"
)

func control(subType account.SubType, balance string) *account.Account {
	return &account.Account{
		ID:      uuid.New(),
		SubType: subType,
		Balance: decimal.RequireFromString(balance),
	}
}

func TestService_Run(t *testing.T) {
	tests := []struct {
		name         string
		ar, ap, inv  string
		arCtl        string
		wantARMatch  bool
		wantARDelta  string
		wantAPMatch  bool
		wantInvMatch bool
	}{
		{
			name: "AllMatch",
			ar:   "1000.00", arCtl: "1000.00",
			ap: "450.00", inv: "2300.50",
			wantARMatch: true, wantARDelta: "0",
			wantAPMatch: true, wantInvMatch: true,
		},
		{
			name: "SubCentDifferenceStillMatches",
			ar:   "1000.00", arCtl: "1000.005",
			ap: "450.00", inv: "2300.50",
			wantARMatch: true, wantARDelta: "-0.005",
			wantAPMatch: true, wantInvMatch: true,
		},
		{
			name: "TwoCentDriftIsAMismatch",
			ar:   "1000.02", arCtl: "1000.00",
			ap: "450.00", inv: "2300.50",
			wantARMatch: false, wantARDelta: "0.02",
			wantAPMatch: true, wantInvMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := reconcile.NewMockRepository(ctrl)
			accounts := reconcile.NewMockControlAccounts(ctrl)
			svc := reconcile.NewService(repo, accounts)

			repo.EXPECT().ReceivablesTotal(gomock.Any()).Return(decimal.RequireFromString(tt.ar), nil)
			repo.EXPECT().OpenPayablesTotal(gomock.Any()).Return(decimal.RequireFromString(tt.ap), nil)
			repo.EXPECT().InventoryValue(gomock.Any()).Return(decimal.RequireFromString(tt.inv), nil)

			accounts.EXPECT().
				ControlAccount(gomock.Any(), account.SubTypeAccountsReceivable).
				Return(control(account.SubTypeAccountsReceivable, tt.arCtl), nil)
			accounts.EXPECT().
				ControlAccount(gomock.Any(), account.SubTypeAccountsPayable).
				Return(control(account.SubTypeAccountsPayable, tt.ap), nil)
			accounts.EXPECT().
				ControlAccount(gomock.Any(), account.SubTypeInventory).
				Return(control(account.SubTypeInventory, tt.inv), nil)

			report, err := svc.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantARMatch, report.AccountsReceivable.Match)
			assert.True(t, report.AccountsReceivable.Delta.Equal(decimal.RequireFromString(tt.wantARDelta)),
				"delta = %s", report.AccountsReceivable.Delta)
			assert.Equal(t, tt.wantAPMatch, report.AccountsPayable.Match)
			assert.Equal(t, tt.wantInvMatch, report.Inventory.Match)
			assert.False(t, report.RanAt.IsZero())
		})
	}
}

// A missing or ambiguous control account fails the pass instead of producing
// a report that silently compared against the wrong account.
func TestService_Run_ControlAccountError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := reconcile.NewMockRepository(ctrl)
	accounts := reconcile.NewMockControlAccounts(ctrl)
	svc := reconcile.NewService(repo, accounts)

	repo.EXPECT().ReceivablesTotal(gomock.Any()).Return(decimal.Zero, nil)
	accounts.EXPECT().
		ControlAccount(gomock.Any(), account.SubTypeAccountsReceivable).
		Return(nil, account.ErrAmbiguousControlAccount)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, account.ErrAmbiguousControlAccount)
}
