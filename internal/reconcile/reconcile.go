// Package reconcile compares the three sub-ledgers (receivables, payables,
// inventory) against their general-ledger control accounts. Its failure
// posture is detect and report: a mismatch is surfaced as a flag for an
// operator to investigate, never auto-corrected.
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest sub-ledger/control difference still considered a
// match.
var Tolerance = decimal.NewFromFloat(0.01)

// Check is the outcome of comparing one sub-ledger total to its control
// account balance.
type Check struct {
	Subledger decimal.Decimal
	Control   decimal.Decimal
	Delta     decimal.Decimal
	Match     bool
}

func newCheck(subledger, control decimal.Decimal) Check {
	delta := subledger.Sub(control)

	return Check{
		Subledger: subledger,
		Control:   control,
		Delta:     delta,
		Match:     delta.Abs().LessThan(Tolerance),
	}
}

// Report carries all three checks from one reconciliation pass.
type Report struct {
	AccountsReceivable Check
	AccountsPayable    Check
	Inventory          Check
	RanAt              time.Time
}
