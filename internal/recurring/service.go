package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/journal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=recurring
type Repository interface {
	CreateDefinition(ctx context.Context, d *Definition) error
	GetDefinition(ctx context.Context, id uuid.UUID) (*Definition, error)
	ListDefinitions(ctx context.Context, status *Status) ([]*Definition, error)
	UpdateDefinition(ctx context.Context, d *Definition) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error

	// RecordFiring claims the firing identified by (definition, prev): it
	// advances next_run_date from prev to next and inserts the expense dated
	// prev, atomically. claimed is false when another pass got there first.
	RecordFiring(ctx context.Context, d *Definition, prev, next time.Time) (expense *Expense, claimed bool, err error)

	// RevertFiring undoes a recorded firing whose journal posting failed,
	// deleting the expense and moving next_run_date back from next to prev.
	RevertFiring(ctx context.Context, expenseID, definitionID uuid.UUID, prev, next time.Time) error

	ListExpenses(ctx context.Context, definitionID uuid.UUID) ([]*Expense, error)
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
	Name             string
	Amount           decimal.Decimal
	Frequency        Frequency
	StartDate        time.Time
	ExpenseAccountID uuid.UUID
	PaymentAccountID uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Definition, error) {
	if !params.Frequency.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, params.Frequency)
	}

	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	// A zero start date would put a firing backlog stretching back to year
	// one in front of the scheduler.
	if params.StartDate.IsZero() {
		return nil, ErrInvalidStartDate
	}

	if params.ExpenseAccountID == uuid.Nil || params.PaymentAccountID == uuid.Nil {
		return nil, ErrMissingAccount
	}

	d := &Definition{
		Name:             params.Name,
		Amount:           params.Amount,
		Frequency:        params.Frequency,
		StartDate:        params.StartDate,
		NextRunDate:      params.StartDate,
		Status:           StatusActive,
		ExpenseAccountID: params.ExpenseAccountID,
		PaymentAccountID: params.PaymentAccountID,
	}

	if err := s.repo.CreateDefinition(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

type UpdateParams struct {
	Name      *string
	Amount    *decimal.Decimal
	Frequency *Frequency
}

// Update changes a definition's template fields. Scheduling state
// (NextRunDate) is owned by the scheduler and cannot be set directly.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Definition, error) {
	d, err := s.repo.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.Status == StatusCancelled {
		return nil, ErrCancelled
	}

	if params.Name != nil {
		d.Name = *params.Name
	}

	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}

		d.Amount = *params.Amount
	}

	if params.Frequency != nil {
		if !params.Frequency.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, *params.Frequency)
		}

		d.Frequency = *params.Frequency
	}

	if err := s.repo.UpdateDefinition(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Definition, error) {
	return s.repo.GetDefinition(ctx, id)
}

func (s *Service) List(ctx context.Context, status *Status) ([]*Definition, error) {
	return s.repo.ListDefinitions(ctx, status)
}

func (s *Service) ListExpenses(ctx context.Context, definitionID uuid.UUID) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, definitionID)
}

func (s *Service) Pause(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusPaused, StatusActive)
}

func (s *Service) Resume(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusActive, StatusPaused)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, StatusCancelled, StatusActive, StatusPaused)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, from ...Status) error {
	d, err := s.repo.GetDefinition(ctx, id)
	if err != nil {
		return err
	}

	allowed := false

	for _, f := range from {
		if d.Status == f {
			allowed = true
			break
		}
	}

	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}

	return s.repo.SetStatus(ctx, id, to)
}

// FiringError is one definition's failure during a scheduler pass.
type FiringError struct {
	DefinitionID uuid.UUID
	Name         string
	Err          error
}

// RunResult summarizes a scheduler pass.
type RunResult struct {
	Fired  int
	Errors []FiringError
}

// RunDue fires every elapsed occurrence of every active definition. An
// occurrence dated next posts once its full period has elapsed, that is once
// NextAfter(next) <= now; backlog is caught up as distinct postings dated on
// their original schedule, one period at a time, so a monthly definition left
// at 2024-01-01 and run on 2024-03-15 posts the January and February
// occurrences and rests at 2024-03-01.
//
// Each firing is claimed with a compare-and-set advance of next_run_date, so
// concurrent or repeated passes post each occurrence at most once. A failed
// definition is recorded and skipped; it never aborts the rest of the pass.
func (s *Service) RunDue(ctx context.Context, now time.Time) (*RunResult, error) {
	active := StatusActive

	defs, err := s.repo.ListDefinitions(ctx, &active)
	if err != nil {
		return nil, fmt.Errorf("listing active definitions: %w", err)
	}

	result := &RunResult{}

	for _, d := range defs {
		if !d.Frequency.Valid() {
			result.Errors = append(result.Errors, FiringError{
				DefinitionID: d.ID,
				Name:         d.Name,
				Err:          fmt.Errorf("%w: %q", ErrInvalidFrequency, d.Frequency),
			})

			continue
		}

		fired, err := s.fireBacklog(ctx, d, now)
		result.Fired += fired

		if err != nil {
			result.Errors = append(result.Errors, FiringError{DefinitionID: d.ID, Name: d.Name, Err: err})
		}
	}

	return result, nil
}

func (s *Service) fireBacklog(ctx context.Context, d *Definition, now time.Time) (int, error) {
	fired := 0
	next := d.NextRunDate

	for {
		following := NextAfter(next, d.Frequency)
		if following.After(now) {
			return fired, nil
		}

		expense, claimed, err := s.repo.RecordFiring(ctx, d, next, following)
		if err != nil {
			return fired, fmt.Errorf("recording firing for %s: %w", next.Format(time.DateOnly), err)
		}

		if !claimed {
			// Another pass owns this firing.
			return fired, nil
		}

		if _, err := s.poster.Post(ctx, s.expenseEntry(d, expense)); err != nil {
			if rerr := s.repo.RevertFiring(ctx, expense.ID, d.ID, next, following); rerr != nil {
				return fired, fmt.Errorf("posting expense entry: %w (revert also failed: %v)", err, rerr)
			}

			return fired, fmt.Errorf("posting expense entry: %w", err)
		}

		fired++
		next = following
	}
}

func (s *Service) expenseEntry(d *Definition, e *Expense) journal.ProposedEntry {
	return journal.ProposedEntry{
		Date:        e.OccurredOn,
		Description: fmt.Sprintf("Recurring expense: %s", d.Name),
		Source:      journal.Source{Type: journal.SourceExpense, ID: &e.ID},
		Lines: []journal.ProposedLine{
			{AccountID: d.ExpenseAccountID, Side: journal.SideDebit, Amount: d.Amount},
			{AccountID: d.PaymentAccountID, Side: journal.SideCredit, Amount: d.Amount},
		},
	}
}
