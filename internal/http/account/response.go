package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/journal"
)

type accountResponse struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	Type        account.Type    `json:"type"`
	SubType     account.SubType `json:"sub_type,omitempty"`
	DebitNormal bool            `json:"debit_normal"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Number:      a.Number,
		Name:        a.Name,
		Type:        a.Type,
		SubType:     a.SubType,
		DebitNormal: a.DebitNormal,
		Balance:     a.Balance,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type adjustmentResponse struct {
	EntryID     uuid.UUID `json:"entry_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

func toAdjustmentResponse(e *journal.Entry) adjustmentResponse {
	return adjustmentResponse{
		EntryID:     e.ID,
		Date:        e.Date,
		Description: e.Description,
	}
}

func toResponseList(accounts []*account.Account) []accountResponse {
	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toResponse(a)
	}

	return resp
}
