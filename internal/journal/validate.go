package journal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validate checks the structural invariants of a proposed entry: a real date,
// a known source type, at least two lines, every line positive with at most
// two decimal places and a valid side, and total debits equal to total
// credits within Tolerance. Account existence is checked against the registry
// at posting time, not here.
func Validate(p ProposedEntry) error {
	if p.Date.IsZero() {
		return ErrZeroDate
	}

	if !p.Source.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSource, p.Source.Type)
	}

	if len(p.Lines) < 2 {
		return ErrTooFewLines
	}

	debits := decimal.Zero
	credits := decimal.Zero

	for i, l := range p.Lines {
		if !l.Side.Valid() {
			return fmt.Errorf("%w: line %d side %q", ErrInvalidLine, i, l.Side)
		}

		if !l.Amount.IsPositive() {
			return fmt.Errorf("%w: line %d amount %s is not positive", ErrInvalidLine, i, l.Amount)
		}

		if !l.Amount.Mul(hundred).Equal(l.Amount.Mul(hundred).Floor()) {
			return fmt.Errorf("%w: line %d amount %s has more than 2 decimal places", ErrInvalidLine, i, l.Amount)
		}

		if l.Side == SideDebit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}

	if debits.Sub(credits).Abs().GreaterThan(Tolerance) {
		return fmt.Errorf("%w: debits %s, credits %s",
			ErrUnbalancedEntry, debits.StringFixed(2), credits.StringFixed(2))
	}

	return nil
}
