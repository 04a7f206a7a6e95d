package recurring

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring expense fires.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}

	return false
}

// Status is the lifecycle state of a definition. Only active definitions are
// eligible for firing; cancelled is terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

var (
	ErrNotFound          = errors.New("recurring expense not found")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidStartDate  = errors.New("start date is required")
	ErrMissingAccount    = errors.New("expense and payment accounts are required")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCancelled         = errors.New("recurring expense is cancelled")
)

// Definition is a recurring expense template. NextRunDate is the only mutable
// scheduling field and is always advanced from its previous value, never from
// the wall clock, so a late scheduler catches up instead of drifting.
type Definition struct {
	ID               uuid.UUID
	Name             string
	Amount           decimal.Decimal
	Frequency        Frequency
	StartDate        time.Time
	NextRunDate      time.Time
	Status           Status
	ExpenseAccountID uuid.UUID
	PaymentAccountID uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// Expense is one concrete firing of a definition. The matching journal entry
// references the expense through its source.
type Expense struct {
	ID                 uuid.UUID
	RecurringExpenseID uuid.UUID
	Name               string
	Amount             decimal.Decimal
	OccurredOn         time.Time
	CreatedAt          time.Time
}
