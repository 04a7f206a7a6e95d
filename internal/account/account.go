package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies an account in the chart of accounts.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Valid reports whether t is one of the five account types.
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}

	return false
}

// DebitNormal reports whether accounts of this type increase on the debit side.
func (t Type) DebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// SubType tags the system accounts used for automatic mapping. At most one
// account per sub-type may exist; the store enforces this with a partial
// unique index.
type SubType string

const (
	SubTypeNone                SubType = ""
	SubTypeCash                SubType = "cash"
	SubTypeAccountsReceivable  SubType = "accounts_receivable"
	SubTypeInventory           SubType = "inventory"
	SubTypeAccountsPayable     SubType = "accounts_payable"
	SubTypeSalesTaxPayable     SubType = "sales_tax_payable"
	SubTypeSalesRevenue        SubType = "sales_revenue"
	SubTypeCOGS                SubType = "cogs"
	SubTypeStoreCreditPayable  SubType = "store_credit_payable"
	SubTypeInventoryAdjustment SubType = "inventory_adjustment"
)

// Valid reports whether s is a known sub-type tag (empty means untagged).
func (s SubType) Valid() bool {
	switch s {
	case SubTypeNone, SubTypeCash, SubTypeAccountsReceivable, SubTypeInventory,
		SubTypeAccountsPayable, SubTypeSalesTaxPayable, SubTypeSalesRevenue,
		SubTypeCOGS, SubTypeStoreCreditPayable, SubTypeInventoryAdjustment:
		return true
	}

	return false
}

var (
	ErrNotFound                = errors.New("account not found")
	ErrInvalidType             = errors.New("invalid account type")
	ErrInvalidSubType          = errors.New("invalid account sub-type")
	ErrInvalidAdjustment       = errors.New("invalid balance adjustment")
	ErrDuplicateNumber         = errors.New("account number already in use")
	ErrDuplicateSubType        = errors.New("an account with this sub-type already exists")
	ErrNoControlAccount        = errors.New("no control account for sub-type")
	ErrAmbiguousControlAccount = errors.New("multiple accounts share control sub-type")
)

// Account is a node in the chart of accounts. Balance is a cached projection
// of the journal; it is only changed by entry posting and can be rebuilt from
// the journal at any time.
type Account struct {
	ID          uuid.UUID
	Number      string
	Name        string
	Type        Type
	SubType     SubType
	DebitNormal bool
	Balance     decimal.Decimal
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
