package journal_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillbook/tillbook/internal/journal"
)

func proposed(lines ...journal.ProposedLine) journal.ProposedEntry {
	return journal.ProposedEntry{
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: "Test entry",
		Source:      journal.Source{Type: journal.SourceManual},
		Lines:       lines,
	}
}

func line(side journal.Side, amount string) journal.ProposedLine {
	return journal.ProposedLine{
		AccountID: uuid.New(),
		Side:      side,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   journal.ProposedEntry
		wantErr error
	}{
		{
			name:  "BalancedPair",
			entry: proposed(line(journal.SideDebit, "100.00"), line(journal.SideCredit, "100.00")),
		},
		{
			name: "BalancedSplit",
			entry: proposed(
				line(journal.SideDebit, "90.00"),
				line(journal.SideDebit, "10.00"),
				line(journal.SideCredit, "92.50"),
				line(journal.SideCredit, "7.50"),
			),
		},
		{
			name:  "WithinTolerance",
			entry: proposed(line(journal.SideDebit, "100.00"), line(journal.SideCredit, "99.99")),
		},
		{
			name:    "Unbalanced",
			entry:   proposed(line(journal.SideDebit, "100.00"), line(journal.SideCredit, "99.00")),
			wantErr: journal.ErrUnbalancedEntry,
		},
		{
			name:    "SingleLine",
			entry:   proposed(line(journal.SideDebit, "100.00")),
			wantErr: journal.ErrTooFewLines,
		},
		{
			name:    "NoLines",
			entry:   proposed(),
			wantErr: journal.ErrTooFewLines,
		},
		{
			name:    "ZeroAmount",
			entry:   proposed(line(journal.SideDebit, "0"), line(journal.SideCredit, "0")),
			wantErr: journal.ErrInvalidLine,
		},
		{
			name:    "NegativeAmount",
			entry:   proposed(line(journal.SideDebit, "-10.00"), line(journal.SideCredit, "-10.00")),
			wantErr: journal.ErrInvalidLine,
		},
		{
			name:    "TooManyDecimalPlaces",
			entry:   proposed(line(journal.SideDebit, "10.005"), line(journal.SideCredit, "10.005")),
			wantErr: journal.ErrInvalidLine,
		},
		{
			name: "BadSide",
			entry: proposed(
				journal.ProposedLine{AccountID: uuid.New(), Side: "both", Amount: decimal.NewFromInt(10)},
				line(journal.SideCredit, "10.00"),
			),
			wantErr: journal.ErrInvalidLine,
		},
		{
			name: "ZeroDate",
			entry: journal.ProposedEntry{
				Source: journal.Source{Type: journal.SourceManual},
				Lines: []journal.ProposedLine{
					line(journal.SideDebit, "10.00"),
					line(journal.SideCredit, "10.00"),
				},
			},
			wantErr: journal.ErrZeroDate,
		},
		{
			name: "BadSourceType",
			entry: journal.ProposedEntry{
				Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Source: journal.Source{Type: "webhook"},
				Lines: []journal.ProposedLine{
					line(journal.SideDebit, "10.00"),
					line(journal.SideCredit, "10.00"),
				},
			},
			wantErr: journal.ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := journal.Validate(tt.entry)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEntryTotals(t *testing.T) {
	e := &journal.Entry{
		Lines: []journal.Line{
			{Side: journal.SideDebit, Amount: decimal.RequireFromString("60.00")},
			{Side: journal.SideDebit, Amount: decimal.RequireFromString("40.00")},
			{Side: journal.SideCredit, Amount: decimal.RequireFromString("100.00")},
		},
	}

	debits, credits := e.Totals()
	assert.True(t, debits.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, credits.Equal(decimal.RequireFromString("100.00")))
}
