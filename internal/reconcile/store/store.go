package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Store only reads. The customers and products tables are owned by the CRM
// and inventory services; the payables tables are owned by this service but
// are still consumed read-only here.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ReceivablesTotal(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(account_balance), 0) FROM customers`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing receivables: %w", err)
	}

	return total, nil
}

func (s *Store) OpenPayablesTotal(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount - amount_paid), 0)
		FROM supplier_invoices
		WHERE amount_paid < amount
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing open payables: %w", err)
	}

	return total, nil
}

func (s *Store) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(stock * cost_price), 0) FROM products`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing inventory value: %w", err)
	}

	return total, nil
}
