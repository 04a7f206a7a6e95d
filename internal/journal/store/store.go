package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"

	"github.com/tillbook/tillbook/internal/journal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// PostingLockKey serializes all entry posting. Balance updates are
// read-modify-write on shared account rows, so the ledger has a single
// logical writer. The balance rebuild takes the same lock so a repair never
// races a posting.
var PostingLockKey = func() int64 {
	h := fnv.New64a()
	h.Write([]byte("tillbook.journal.post"))

	return int64(h.Sum64())
}()

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectEntryColumns = `
	e.id, e.date, e.description, e.reference, e.source_type, e.source_id, e.created_at
`

func scanEntry(s scanner) (*journal.Entry, error) {
	var e journal.Entry

	var sourceType string

	var sourceID *uuid.UUID

	if err := s.Scan(
		&e.ID, &e.Date, &e.Description, &e.Reference, &sourceType, &sourceID, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Source = journal.Source{Type: journal.SourceType(sourceType), ID: sourceID}

	return &e, nil
}

func (s *Store) ResolveAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]journal.AccountRef, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]journal.AccountRef{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))

	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT id, name, debit_normal FROM accounts WHERE id IN (%s)",
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolving accounts: %w", err)
	}
	defer rows.Close()

	refs := make(map[uuid.UUID]journal.AccountRef, len(ids))

	for rows.Next() {
		var id uuid.UUID

		var ref journal.AccountRef

		if err := rows.Scan(&id, &ref.Name, &ref.DebitNormal); err != nil {
			return nil, fmt.Errorf("scanning account ref: %w", err)
		}

		refs[id] = ref
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account refs: %w", err)
	}

	return refs, nil
}

// CreateEntry persists the entry, its lines, and the per-account balance
// deltas in one transaction under the posting advisory lock.
func (s *Store) CreateEntry(ctx context.Context, e *journal.Entry) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning posting tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", PostingLockKey); err != nil {
		return fmt.Errorf("acquiring posting lock: %w", err)
	}

	entryQuery := `
		INSERT INTO journal_entries (date, description, reference, source_type, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, entryQuery,
		e.Date,
		e.Description,
		e.Reference,
		e.Source.Type,
		e.Source.ID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (entry_id, position, account_id, account_name, side, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	balanceQuery := `
		UPDATE accounts
		SET balance = balance + CASE WHEN debit_normal = $2 THEN $3::numeric ELSE -$3::numeric END,
		    updated_at = NOW()
		WHERE id = $1
	`

	for i, l := range e.Lines {
		if _, err := dbTx.ExecContext(ctx, lineQuery,
			e.ID, i, l.AccountID, l.AccountName, l.Side, l.Amount,
		); err != nil {
			return fmt.Errorf("creating journal line: %w", err)
		}

		res, err := dbTx.ExecContext(ctx, balanceQuery, l.AccountID, l.Side == journal.SideDebit, l.Amount)
		if err != nil {
			return fmt.Errorf("applying balance delta: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("applying balance delta: %w", err)
		}

		if affected == 0 {
			return fmt.Errorf("%w: %s", journal.ErrUnknownAccount, l.AccountID)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing posting tx: %w", err)
	}

	return nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM journal_entries e WHERE e.id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, journal.ErrNotFound
		}

		return nil, fmt.Errorf("getting journal entry: %w", err)
	}

	if err := s.attachLines(ctx, []*journal.Entry{e}); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter journal.ListFilter) ([]*journal.Entry, error) {
	query := `SELECT DISTINCT ` + selectEntryColumns + ` FROM journal_entries e`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += " JOIN journal_lines l ON l.entry_id = e.id"
	}

	query += " WHERE 1=1"

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND l.account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Source != nil {
		query += fmt.Sprintf(" AND e.source_type = $%d", argIdx)

		args = append(args, *filter.Source)
		argIdx++
	}

	if filter.Reference != nil {
		query += fmt.Sprintf(" AND e.reference = $%d", argIdx)

		args = append(args, *filter.Reference)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY e.date DESC, e.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*journal.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}

	if err := s.attachLines(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Store) attachLines(ctx context.Context, entries []*journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	placeholders := make([]string, len(entries))
	args := make([]any, len(entries))
	byID := make(map[uuid.UUID]*journal.Entry, len(entries))

	for i, e := range entries {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = e.ID
		byID[e.ID] = e
	}

	query := fmt.Sprintf(`
		SELECT entry_id, account_id, account_name, side, amount
		FROM journal_lines
		WHERE entry_id IN (%s)
		ORDER BY entry_id, position`,
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID uuid.UUID

		var l journal.Line

		var side string

		if err := rows.Scan(&entryID, &l.AccountID, &l.AccountName, &side, &l.Amount); err != nil {
			return fmt.Errorf("scanning journal line: %w", err)
		}

		l.Side = journal.Side(side)

		e := byID[entryID]
		e.Lines = append(e.Lines, l)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating journal lines: %w", err)
	}

	return nil
}
