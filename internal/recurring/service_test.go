package recurring_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tillbook/tillbook/internal/journal"
	"github.com/tillbook/tillbook/internal/recurring"
)

func activeDefinition(nextRun time.Time) *recurring.Definition {
	return &recurring.Definition{
		ID:               uuid.New(),
		Name:             "Shop rent",
		Amount:           decimal.RequireFromString("50.00"),
		Frequency:        recurring.FrequencyMonthly,
		StartDate:        nextRun,
		NextRunDate:      nextRun,
		Status:           recurring.StatusActive,
		ExpenseAccountID: uuid.New(),
		PaymentAccountID: uuid.New(),
	}
}

// A monthly definition left at 2024-01-01 and run on 2024-03-15 must post the
// January and February occurrences as distinct entries dated on their
// original schedule and rest at 2024-03-01.
func TestService_RunDue_CatchUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	poster := recurring.NewMockPoster(ctrl)
	svc := recurring.NewService(repo, poster)

	def := activeDefinition(date(2024, 1, 1))
	now := date(2024, 3, 15)

	repo.EXPECT().
		ListDefinitions(gomock.Any(), gomock.Any()).
		Return([]*recurring.Definition{def}, nil)

	jan := &recurring.Expense{ID: uuid.New(), RecurringExpenseID: def.ID, Amount: def.Amount, OccurredOn: date(2024, 1, 1)}
	feb := &recurring.Expense{ID: uuid.New(), RecurringExpenseID: def.ID, Amount: def.Amount, OccurredOn: date(2024, 2, 1)}

	repo.EXPECT().
		RecordFiring(gomock.Any(), def, date(2024, 1, 1), date(2024, 2, 1)).
		Return(jan, true, nil)
	repo.EXPECT().
		RecordFiring(gomock.Any(), def, date(2024, 2, 1), date(2024, 3, 1)).
		Return(feb, true, nil)

	var postedDates []time.Time

	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, p journal.ProposedEntry) (*journal.Entry, error) {
			postedDates = append(postedDates, p.Date)

			require.Len(t, p.Lines, 2)
			assert.Equal(t, journal.SourceExpense, p.Source.Type)
			assert.Equal(t, def.ExpenseAccountID, p.Lines[0].AccountID)
			assert.Equal(t, journal.SideDebit, p.Lines[0].Side)
			assert.Equal(t, def.PaymentAccountID, p.Lines[1].AccountID)
			assert.Equal(t, journal.SideCredit, p.Lines[1].Side)
			assert.True(t, p.Lines[0].Amount.Equal(def.Amount))

			return &journal.Entry{ID: uuid.New()}, nil
		})

	result, err := svc.RunDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Fired)
	assert.Empty(t, result.Errors)

	require.Len(t, postedDates, 2)
	assert.True(t, postedDates[0].Equal(date(2024, 1, 1)))
	assert.True(t, postedDates[1].Equal(date(2024, 2, 1)))
}

// A second pass on the same tick loses the compare-and-set claim and posts
// nothing.
func TestService_RunDue_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	poster := recurring.NewMockPoster(ctrl)
	svc := recurring.NewService(repo, poster)

	def := activeDefinition(date(2024, 1, 1))

	repo.EXPECT().
		ListDefinitions(gomock.Any(), gomock.Any()).
		Return([]*recurring.Definition{def}, nil)
	repo.EXPECT().
		RecordFiring(gomock.Any(), def, date(2024, 1, 1), date(2024, 2, 1)).
		Return(nil, false, nil)

	result, err := svc.RunDue(context.Background(), date(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Fired)
	assert.Empty(t, result.Errors)
}

// A definition whose current period has not fully elapsed does not fire.
func TestService_RunDue_NothingElapsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	poster := recurring.NewMockPoster(ctrl)
	svc := recurring.NewService(repo, poster)

	def := activeDefinition(date(2024, 3, 1))

	repo.EXPECT().
		ListDefinitions(gomock.Any(), gomock.Any()).
		Return([]*recurring.Definition{def}, nil)

	result, err := svc.RunDue(context.Background(), date(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Fired)
	assert.Empty(t, result.Errors)
}

// One definition's failure is collected and the rest of the batch still runs.
func TestService_RunDue_CollectsPerRecordErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	poster := recurring.NewMockPoster(ctrl)
	svc := recurring.NewService(repo, poster)

	broken := activeDefinition(date(2024, 1, 1))
	healthy := activeDefinition(date(2024, 1, 1))
	healthy.Frequency = recurring.FrequencyWeekly
	now := date(2024, 2, 2)

	repo.EXPECT().
		ListDefinitions(gomock.Any(), gomock.Any()).
		Return([]*recurring.Definition{broken, healthy}, nil)

	brokenExpense := &recurring.Expense{ID: uuid.New(), RecurringExpenseID: broken.ID, OccurredOn: date(2024, 1, 1), Amount: broken.Amount}

	repo.EXPECT().
		RecordFiring(gomock.Any(), broken, date(2024, 1, 1), date(2024, 2, 1)).
		Return(brokenExpense, true, nil)
	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		Return(nil, journal.ErrUnknownAccount)
	repo.EXPECT().
		RevertFiring(gomock.Any(), brokenExpense.ID, broken.ID, date(2024, 1, 1), date(2024, 2, 1)).
		Return(nil)

	healthyExpenses := []*recurring.Expense{
		{ID: uuid.New(), RecurringExpenseID: healthy.ID, OccurredOn: date(2024, 1, 1), Amount: healthy.Amount},
		{ID: uuid.New(), RecurringExpenseID: healthy.ID, OccurredOn: date(2024, 1, 8), Amount: healthy.Amount},
		{ID: uuid.New(), RecurringExpenseID: healthy.ID, OccurredOn: date(2024, 1, 15), Amount: healthy.Amount},
		{ID: uuid.New(), RecurringExpenseID: healthy.ID, OccurredOn: date(2024, 1, 22), Amount: healthy.Amount},
	}

	prev := date(2024, 1, 1)
	for _, e := range healthyExpenses {
		next := prev.AddDate(0, 0, 7)
		repo.EXPECT().
			RecordFiring(gomock.Any(), healthy, prev, next).
			Return(e, true, nil)
		prev = next
	}

	poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		Times(len(healthyExpenses)).
		Return(&journal.Entry{ID: uuid.New()}, nil)

	result, err := svc.RunDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, len(healthyExpenses), result.Fired)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, broken.ID, result.Errors[0].DefinitionID)
	assert.ErrorIs(t, result.Errors[0].Err, journal.ErrUnknownAccount)
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	poster := recurring.NewMockPoster(ctrl)
	svc := recurring.NewService(repo, poster)

	t.Run("Success", func(t *testing.T) {
		repo.EXPECT().
			CreateDefinition(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *recurring.Definition) error {
				d.ID = uuid.New()
				return nil
			})

		start := date(2024, 5, 1)
		d, err := svc.Create(context.Background(), recurring.CreateParams{
			Name:             "Electricity",
			Amount:           decimal.RequireFromString("120.00"),
			Frequency:        recurring.FrequencyMonthly,
			StartDate:        start,
			ExpenseAccountID: uuid.New(),
			PaymentAccountID: uuid.New(),
		})
		require.NoError(t, err)
		assert.Equal(t, recurring.StatusActive, d.Status)
		assert.True(t, d.NextRunDate.Equal(start))
	})

	t.Run("BadFrequency", func(t *testing.T) {
		_, err := svc.Create(context.Background(), recurring.CreateParams{
			Name:             "Electricity",
			Amount:           decimal.RequireFromString("120.00"),
			Frequency:        "fortnightly",
			StartDate:        date(2024, 5, 1),
			ExpenseAccountID: uuid.New(),
			PaymentAccountID: uuid.New(),
		})
		assert.ErrorIs(t, err, recurring.ErrInvalidFrequency)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		_, err := svc.Create(context.Background(), recurring.CreateParams{
			Name:             "Electricity",
			Amount:           decimal.Zero,
			Frequency:        recurring.FrequencyMonthly,
			StartDate:        date(2024, 5, 1),
			ExpenseAccountID: uuid.New(),
			PaymentAccountID: uuid.New(),
		})
		assert.ErrorIs(t, err, recurring.ErrInvalidAmount)
	})

	t.Run("ZeroStartDate", func(t *testing.T) {
		_, err := svc.Create(context.Background(), recurring.CreateParams{
			Name:             "Electricity",
			Amount:           decimal.RequireFromString("120.00"),
			Frequency:        recurring.FrequencyMonthly,
			ExpenseAccountID: uuid.New(),
			PaymentAccountID: uuid.New(),
		})
		assert.ErrorIs(t, err, recurring.ErrInvalidStartDate)
	})

	t.Run("MissingAccounts", func(t *testing.T) {
		_, err := svc.Create(context.Background(), recurring.CreateParams{
			Name:      "Electricity",
			Amount:    decimal.RequireFromString("120.00"),
			Frequency: recurring.FrequencyMonthly,
			StartDate: date(2024, 5, 1),
		})
		assert.ErrorIs(t, err, recurring.ErrMissingAccount)
	})
}

func TestService_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    recurring.Status
		call    func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error
		to      recurring.Status
		wantErr error
	}{
		{
			name: "PauseActive",
			from: recurring.StatusActive,
			call: func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Pause(ctx, id) },
			to:   recurring.StatusPaused,
		},
		{
			name: "ResumePaused",
			from: recurring.StatusPaused,
			call: func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Resume(ctx, id) },
			to:   recurring.StatusActive,
		},
		{
			name: "CancelActive",
			from: recurring.StatusActive,
			call: func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Cancel(ctx, id) },
			to:   recurring.StatusCancelled,
		},
		{
			name: "CancelPaused",
			from: recurring.StatusPaused,
			call: func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Cancel(ctx, id) },
			to:   recurring.StatusCancelled,
		},
		{
			name:    "PausePaused",
			from:    recurring.StatusPaused,
			call:    func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Pause(ctx, id) },
			wantErr: recurring.ErrInvalidTransition,
		},
		{
			name:    "ResumeCancelled",
			from:    recurring.StatusCancelled,
			call:    func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Resume(ctx, id) },
			wantErr: recurring.ErrInvalidTransition,
		},
		{
			name:    "CancelCancelled",
			from:    recurring.StatusCancelled,
			call:    func(svc *recurring.Service, ctx context.Context, id uuid.UUID) error { return svc.Cancel(ctx, id) },
			wantErr: recurring.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := recurring.NewMockRepository(ctrl)
			poster := recurring.NewMockPoster(ctrl)
			svc := recurring.NewService(repo, poster)

			def := activeDefinition(date(2024, 1, 1))
			def.Status = tt.from

			repo.EXPECT().GetDefinition(gomock.Any(), def.ID).Return(def, nil)

			if tt.wantErr == nil {
				repo.EXPECT().SetStatus(gomock.Any(), def.ID, tt.to).Return(nil)
			}

			err := tt.call(svc, context.Background(), def.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
