package payables

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("supplier invoice not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidStatus   = errors.New("invalid invoice status")
	ErrDuplicateNumber = errors.New("supplier invoice number already exists")
	ErrOverpayment     = errors.New("payment exceeds invoice balance")
)

// Status is derived from the invoice's amounts and due date, never stored.
type Status string

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusOverdue       Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusOverdue:
		return true
	}

	return false
}

// Invoice is a supplier invoice tracked in the accounts payable sub-ledger.
// Recording one posts the liability; payments reduce it.
type Invoice struct {
	ID           uuid.UUID
	SupplierID   uuid.UUID
	SupplierName string
	Number       string
	Amount       decimal.Decimal
	AmountPaid   decimal.Decimal
	InvoiceDate  time.Time
	DueDate      time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Balance is the open amount still owed on the invoice.
func (i *Invoice) Balance() decimal.Decimal {
	return i.Amount.Sub(i.AmountPaid)
}

// StatusAt derives the invoice status as of now. An invoice with an open
// balance past its due date is overdue regardless of partial payments.
func (i *Invoice) StatusAt(now time.Time) Status {
	if i.AmountPaid.GreaterThanOrEqual(i.Amount) {
		return StatusPaid
	}

	if now.After(i.DueDate) {
		return StatusOverdue
	}

	if i.AmountPaid.IsPositive() {
		return StatusPartiallyPaid
	}

	return StatusUnpaid
}

type Payment struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
	Method    string
	CreatedAt time.Time
}
