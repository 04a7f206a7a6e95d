package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccountRef is the slice of account state the engine needs at posting time:
// the name snapshot embedded into lines and the normal side used for balance
// deltas.
type AccountRef struct {
	Name        string
	DebitNormal bool
}

// ListFilter narrows List results. All fields are optional and combined with
// AND. Date filtering always uses the entry's business date, never insertion
// order, so backdated entries are handled correctly.
type ListFilter struct {
	Source    *SourceType
	AccountID *uuid.UUID
	Reference *string
	StartDate *time.Time
	EndDate   *time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=journal
type Repository interface {
	// ResolveAccounts returns refs for the given account ids; ids with no
	// account are absent from the result.
	ResolveAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]AccountRef, error)

	// CreateEntry persists the entry and its lines and applies balance
	// deltas to the referenced accounts in a single serialized transaction.
	CreateEntry(ctx context.Context, e *Entry) error

	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

// Service is the journal engine: the single writer of ledger state. Every
// account balance change in the system flows through Post.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Post validates a proposed entry and commits it as immutable. On success the
// referenced accounts' cached balances have been updated atomically with the
// entry. On any failure no state has changed.
func (s *Service) Post(ctx context.Context, p ProposedEntry) (*Entry, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(p.Lines))
	seen := make(map[uuid.UUID]struct{}, len(p.Lines))

	for _, l := range p.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}

		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}

	refs, err := s.repo.ResolveAccounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving accounts: %w", err)
	}

	entry := &Entry{
		Date:        p.Date,
		Description: p.Description,
		Reference:   p.Reference,
		Source:      p.Source,
		Lines:       make([]Line, len(p.Lines)),
	}

	for i, l := range p.Lines {
		ref, ok := refs[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, l.AccountID)
		}

		entry.Lines[i] = Line{
			AccountID:   l.AccountID,
			AccountName: ref.Name,
			Side:        l.Side,
			Amount:      l.Amount,
		}
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Reverse posts a new entry mirroring the original with debit and credit
// sides swapped, referencing the original entry's id. The original is left
// untouched.
func (s *Service) Reverse(ctx context.Context, id uuid.UUID, date time.Time, memo string) (*Entry, error) {
	orig, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	ref := orig.ID.String()

	existing, err := s.repo.ListEntries(ctx, ListFilter{Reference: &ref})
	if err != nil {
		return nil, fmt.Errorf("checking for prior reversal: %w", err)
	}

	if len(existing) > 0 {
		return nil, ErrAlreadyReversed
	}

	if memo == "" {
		memo = fmt.Sprintf("Reversal of: %s", orig.Description)
	}

	p := ProposedEntry{
		Date:        date,
		Description: memo,
		Reference:   ref,
		Source:      Source{Type: SourceAdjustment, ID: &orig.ID},
		Lines:       make([]ProposedLine, len(orig.Lines)),
	}

	for i, l := range orig.Lines {
		p.Lines[i] = ProposedLine{
			AccountID: l.AccountID,
			Side:      l.Side.Opposite(),
			Amount:    l.Amount,
		}
	}

	return s.Post(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}
