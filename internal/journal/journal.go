package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the debit/credit side of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Valid reports whether s is debit or credit.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// Opposite returns the other side, used when building reversing entries.
func (s Side) Opposite() Side {
	if s == SideDebit {
		return SideCredit
	}

	return SideDebit
}

// SourceType identifies the business event that produced an entry.
type SourceType string

const (
	SourceSale       SourceType = "sale"
	SourcePurchase   SourceType = "purchase"
	SourceManual     SourceType = "manual"
	SourcePayment    SourceType = "payment"
	SourceAdjustment SourceType = "adjustment"
	SourceExpense    SourceType = "expense"
)

// Valid reports whether t is a known source type.
func (t SourceType) Valid() bool {
	switch t {
	case SourceSale, SourcePurchase, SourceManual, SourcePayment,
		SourceAdjustment, SourceExpense:
		return true
	}

	return false
}

// Source links an entry back to the record that produced it.
type Source struct {
	Type SourceType
	ID   *uuid.UUID
}

var (
	ErrNotFound        = errors.New("journal entry not found")
	ErrUnbalancedEntry = errors.New("entry debits do not equal credits")
	ErrUnknownAccount  = errors.New("entry references unknown account")
	ErrInvalidLine     = errors.New("entry line is invalid")
	ErrTooFewLines     = errors.New("entry needs at least two lines")
	ErrInvalidSource   = errors.New("entry source type is invalid")
	ErrZeroDate        = errors.New("entry date is required")
	ErrAlreadyReversed = errors.New("entry has already been reversed")
)

// Tolerance is the maximum accepted difference between an entry's total
// debits and credits.
var Tolerance = decimal.NewFromFloat(0.01)

// Line is one side of a posted entry. AccountName is a snapshot taken at
// posting time and is never re-resolved afterwards.
type Line struct {
	AccountID   uuid.UUID
	AccountName string
	Side        Side
	Amount      decimal.Decimal
}

// Entry is a posted, immutable journal entry. Corrections are made with new
// reversing or adjusting entries, never by mutating a posted one.
type Entry struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Reference   string
	Source      Source
	Lines       []Line
	CreatedAt   time.Time
}

// Totals returns the entry's summed debits and credits.
func (e *Entry) Totals() (debits, credits decimal.Decimal) {
	for _, l := range e.Lines {
		if l.Side == SideDebit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}

	return debits, credits
}

// ProposedLine is an unposted line submitted by a caller.
type ProposedLine struct {
	AccountID uuid.UUID
	Side      Side
	Amount    decimal.Decimal
}

// ProposedEntry is an entry as assembled by the surrounding workflows, before
// validation and posting.
type ProposedEntry struct {
	Date        time.Time
	Description string
	Reference   string
	Source      Source
	Lines       []ProposedLine
}
