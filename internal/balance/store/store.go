package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	journalstore "github.com/tillbook/tillbook/internal/journal/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// signedSum is the core aggregation: a line adds to the balance when its side
// matches the account's normal side, otherwise it subtracts.
const signedSum = `
	COALESCE(SUM(CASE WHEN (l.side = 'debit') = a.debit_normal THEN l.amount ELSE -l.amount END), 0)
`

func (s *Store) BalanceAsOf(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (decimal.Decimal, error) {
	query := `
		SELECT ` + signedSum + `
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN accounts a ON a.id = l.account_id
		WHERE l.account_id = $1 AND e.date <= $2
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, accountID, cutoff).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing balance as of: %w", err)
	}

	return total, nil
}

func (s *Store) Movement(ctx context.Context, accountID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT ` + signedSum + `
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN accounts a ON a.id = l.account_id
		WHERE l.account_id = $1 AND e.date >= $2 AND e.date <= $3
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, accountID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing period movement: %w", err)
	}

	return total, nil
}

// RebuildBalances recomputes accounts.balance from the journal for every
// account. It takes the posting lock so a rebuild and a posting can never
// interleave.
func (s *Store) RebuildBalances(ctx context.Context) (int64, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning rebuild tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", journalstore.PostingLockKey); err != nil {
		return 0, fmt.Errorf("acquiring posting lock: %w", err)
	}

	query := `
		UPDATE accounts a
		SET balance = COALESCE(s.total, 0), updated_at = NOW()
		FROM accounts a2
		LEFT JOIN (
			SELECT l.account_id,
			       SUM(CASE WHEN (l.side = 'debit') = la.debit_normal THEN l.amount ELSE -l.amount END) AS total
			FROM journal_lines l
			JOIN accounts la ON la.id = l.account_id
			GROUP BY l.account_id
		) s ON s.account_id = a2.id
		WHERE a.id = a2.id
	`

	res, err := dbTx.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("rebuilding balances: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rebuilding balances: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild tx: %w", err)
	}

	return affected, nil
}
