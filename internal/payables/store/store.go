package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/payables"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	i.id, i.supplier_id, i.supplier_name, i.number, i.amount, i.amount_paid,
	i.invoice_date, i.due_date, i.created_at, i.updated_at
`

func scanInvoice(s scanner) (*payables.Invoice, error) {
	var inv payables.Invoice

	if err := s.Scan(
		&inv.ID, &inv.SupplierID, &inv.SupplierName, &inv.Number, &inv.Amount,
		&inv.AmountPaid, &inv.InvoiceDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *payables.Invoice) error {
	query := `
		INSERT INTO supplier_invoices (supplier_id, supplier_name, number, amount, amount_paid, invoice_date, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.SupplierID,
		inv.SupplierName,
		inv.Number,
		inv.Amount,
		inv.AmountPaid,
		inv.InvoiceDate,
		inv.DueDate,
	).Scan(&inv.ID, &inv.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return payables.ErrDuplicateNumber
	}

	if err != nil {
		return fmt.Errorf("inserting supplier invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*payables.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM supplier_invoices i WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, payables.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("selecting supplier invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter payables.ListFilter) ([]*payables.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM supplier_invoices i`

	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.SupplierID != nil {
		conds = append(conds, "i.supplier_id = "+arg(*filter.SupplierID))
	}

	if filter.Status != nil {
		asOf := arg(filter.AsOf)

		switch *filter.Status {
		case payables.StatusPaid:
			conds = append(conds, "i.amount_paid >= i.amount")
		case payables.StatusOverdue:
			conds = append(conds, "i.amount_paid < i.amount AND i.due_date < "+asOf)
		case payables.StatusPartiallyPaid:
			conds = append(conds, "i.amount_paid > 0 AND i.amount_paid < i.amount AND i.due_date >= "+asOf)
		case payables.StatusUnpaid:
			conds = append(conds, "i.amount_paid = 0 AND i.due_date >= "+asOf)
		}
	}

	for idx, c := range conds {
		if idx == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	query += " ORDER BY i.due_date ASC, i.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting supplier invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*payables.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning supplier invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supplier invoices: %w", err)
	}

	return invoices, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM supplier_invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting supplier invoice: %w", err)
	}

	return nil
}

// ApplyPayment bumps amount_paid and inserts the payment row in one
// transaction. The UPDATE is guarded so amount_paid never exceeds amount;
// concurrent payments race on the guard, not on a stale read.
func (s *Store) ApplyPayment(ctx context.Context, invoiceID uuid.UUID, p *payables.Payment) (*payables.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE supplier_invoices i
		SET amount_paid = i.amount_paid + $2, updated_at = NOW()
		WHERE i.id = $1 AND i.amount_paid + $2 <= i.amount
		RETURNING ` + selectInvoiceColumns

	inv, err := scanInvoice(tx.QueryRowContext(ctx, query, invoiceID, p.Amount))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool

		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM supplier_invoices WHERE id = $1)`, invoiceID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking supplier invoice: %w", err)
		}

		if !exists {
			return nil, payables.ErrNotFound
		}

		return nil, payables.ErrOverpayment
	}

	if err != nil {
		return nil, fmt.Errorf("updating supplier invoice: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO supplier_payments (invoice_id, amount, date, method, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`, invoiceID, p.Amount, p.Date, p.Method).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting supplier payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	p.InvoiceID = invoiceID

	return inv, nil
}

func (s *Store) RevertPayment(ctx context.Context, paymentID, invoiceID uuid.UUID, amount decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM supplier_payments WHERE id = $1`, paymentID); err != nil {
		return fmt.Errorf("deleting supplier payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE supplier_invoices SET amount_paid = amount_paid - $2, updated_at = NOW() WHERE id = $1
	`, invoiceID, amount); err != nil {
		return fmt.Errorf("reverting supplier invoice: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*payables.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, date, method, created_at
		FROM supplier_payments
		WHERE invoice_id = $1
		ORDER BY date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("selecting supplier payments: %w", err)
	}
	defer rows.Close()

	var payments []*payables.Payment

	for rows.Next() {
		var p payables.Payment

		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Date, &p.Method, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning supplier payment: %w", err)
		}

		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supplier payments: %w", err)
	}

	return payments, nil
}
