package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/tillbook/tillbook/internal/recurring"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// firingLockKey serializes firings of a single definition across concurrent
// scheduler passes.
func firingLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id[:])

	return int64(h.Sum64())
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectDefinitionColumns = `
	r.id, r.name, r.amount, r.frequency, r.start_date, r.next_run_date, r.status,
	r.expense_account_id, r.payment_account_id, r.created_at, r.updated_at
`

func scanDefinition(s scanner) (*recurring.Definition, error) {
	var d recurring.Definition

	var frequency, status string

	if err := s.Scan(
		&d.ID, &d.Name, &d.Amount, &frequency, &d.StartDate, &d.NextRunDate,
		&status, &d.ExpenseAccountID, &d.PaymentAccountID, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Frequency = recurring.Frequency(frequency)
	d.Status = recurring.Status(status)

	return &d, nil
}

func (s *Store) CreateDefinition(ctx context.Context, d *recurring.Definition) error {
	query := `
		INSERT INTO recurring_expenses (name, amount, frequency, start_date, next_run_date, status, expense_account_id, payment_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		d.Name,
		d.Amount,
		d.Frequency,
		d.StartDate,
		d.NextRunDate,
		d.Status,
		d.ExpenseAccountID,
		d.PaymentAccountID,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating recurring expense: %w", err)
	}

	return nil
}

func (s *Store) GetDefinition(ctx context.Context, id uuid.UUID) (*recurring.Definition, error) {
	query := `SELECT ` + selectDefinitionColumns + ` FROM recurring_expenses r WHERE r.id = $1`

	d, err := scanDefinition(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring expense: %w", err)
	}

	return d, nil
}

func (s *Store) ListDefinitions(ctx context.Context, status *recurring.Status) ([]*recurring.Definition, error) {
	query := `SELECT ` + selectDefinitionColumns + ` FROM recurring_expenses r`

	var args []any

	if status != nil {
		query += " WHERE r.status = $1"

		args = append(args, *status)
	}

	query += " ORDER BY r.name ASC, r.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring expenses: %w", err)
	}
	defer rows.Close()

	var defs []*recurring.Definition

	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring expense: %w", err)
		}

		defs = append(defs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring expenses: %w", err)
	}

	return defs, nil
}

func (s *Store) UpdateDefinition(ctx context.Context, d *recurring.Definition) error {
	query := `
		UPDATE recurring_expenses
		SET name = $1, amount = $2, frequency = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, d.Name, d.Amount, d.Frequency, d.ID)
	if err != nil {
		return fmt.Errorf("updating recurring expense: %w", err)
	}

	return nil
}

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status recurring.Status) error {
	query := `
		UPDATE recurring_expenses
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating recurring expense status: %w", err)
	}

	return nil
}

// RecordFiring claims one firing under a per-definition advisory lock: the
// compare-and-set on next_run_date and the expense insert commit together or
// not at all. A lost compare-and-set or a duplicate (definition, occurred_on)
// expense both mean another pass already owns the firing.
func (s *Store) RecordFiring(ctx context.Context, d *recurring.Definition, prev, next time.Time) (*recurring.Expense, bool, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("beginning firing tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", firingLockKey(d.ID)); err != nil {
		return nil, false, fmt.Errorf("acquiring firing lock: %w", err)
	}

	claimQuery := `
		UPDATE recurring_expenses
		SET next_run_date = $3, updated_at = NOW()
		WHERE id = $1 AND next_run_date = $2 AND status = 'active'
	`

	res, err := dbTx.ExecContext(ctx, claimQuery, d.ID, prev, next)
	if err != nil {
		return nil, false, fmt.Errorf("claiming firing: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("claiming firing: %w", err)
	}

	if affected == 0 {
		return nil, false, nil
	}

	expense := &recurring.Expense{
		RecurringExpenseID: d.ID,
		Name:               d.Name,
		Amount:             d.Amount,
		OccurredOn:         prev,
	}

	expenseQuery := `
		INSERT INTO expenses (recurring_expense_id, name, amount, occurred_on, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (recurring_expense_id, occurred_on) DO NOTHING
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, expenseQuery,
		expense.RecurringExpenseID,
		expense.Name,
		expense.Amount,
		expense.OccurredOn,
	).Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// This occurrence was already recorded by an earlier pass.
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("recording expense: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing firing tx: %w", err)
	}

	return expense, true, nil
}

// RevertFiring rolls back a claimed firing whose journal posting failed so
// the occurrence can be retried on a later pass.
func (s *Store) RevertFiring(ctx context.Context, expenseID, definitionID uuid.UUID, prev, next time.Time) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning revert tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", firingLockKey(definitionID)); err != nil {
		return fmt.Errorf("acquiring firing lock: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "DELETE FROM expenses WHERE id = $1", expenseID); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	revertQuery := `
		UPDATE recurring_expenses
		SET next_run_date = $3, updated_at = NOW()
		WHERE id = $1 AND next_run_date = $2
	`

	if _, err := dbTx.ExecContext(ctx, revertQuery, definitionID, next, prev); err != nil {
		return fmt.Errorf("reverting next run date: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing revert tx: %w", err)
	}

	return nil
}

func (s *Store) ListExpenses(ctx context.Context, definitionID uuid.UUID) ([]*recurring.Expense, error) {
	query := `
		SELECT id, recurring_expense_id, name, amount, occurred_on, created_at
		FROM expenses
		WHERE recurring_expense_id = $1
		ORDER BY occurred_on DESC
	`

	rows, err := s.db.QueryContext(ctx, query, definitionID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*recurring.Expense

	for rows.Next() {
		var e recurring.Expense

		if err := rows.Scan(&e.ID, &e.RecurringExpenseID, &e.Name, &e.Amount, &e.OccurredOn, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}
