package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tillbook/tillbook/internal/account"
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

const selectAccountColumns = `
	a.id, a.number, a.name, a.type, a.sub_type, a.debit_normal, a.balance,
	a.description, a.created_at, a.updated_at
`

func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account

	var typeStr, subTypeStr string

	if err := s.Scan(
		&a.ID, &a.Number, &a.Name, &typeStr, &subTypeStr, &a.DebitNormal,
		&a.Balance, &a.Description, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Type = account.Type(typeStr)
	a.SubType = account.SubType(subTypeStr)

	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (number, name, type, sub_type, debit_normal, balance, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.Number,
		a.Name,
		a.Type,
		a.SubType,
		a.DebitNormal,
		a.Balance,
		a.Description,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "accounts_sub_type_uniq" {
				return account.ErrDuplicateSubType
			}

			return account.ErrDuplicateNumber
		}

		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE a.id = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, order account.Order) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a`

	switch order {
	case account.OrderByBalance:
		query += " ORDER BY ABS(a.balance) DESC, a.number ASC"
	default:
		query += " ORDER BY a.number ASC"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	return accounts, nil
}

func (s *Store) FindBySubType(ctx context.Context, subType account.SubType) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM accounts a
		WHERE a.sub_type = $1
		ORDER BY a.number ASC`

	rows, err := s.db.QueryContext(ctx, query, subType)
	if err != nil {
		return nil, fmt.Errorf("finding accounts by sub-type: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	return accounts, nil
}
