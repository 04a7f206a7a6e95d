package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/journal"
)

type lineResponse struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	Side        journal.Side    `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
}

type entryResponse struct {
	ID          uuid.UUID          `json:"id"`
	Date        time.Time          `json:"date"`
	Description string             `json:"description"`
	Reference   string             `json:"reference,omitempty"`
	SourceType  journal.SourceType `json:"source_type"`
	SourceID    *uuid.UUID         `json:"source_id,omitempty"`
	Lines       []lineResponse     `json:"lines"`
	Debits      decimal.Decimal    `json:"debits"`
	Credits     decimal.Decimal    `json:"credits"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toResponse(e *journal.Entry) entryResponse {
	debits, credits := e.Totals()

	resp := entryResponse{
		ID:          e.ID,
		Date:        e.Date,
		Description: e.Description,
		Reference:   e.Reference,
		SourceType:  e.Source.Type,
		SourceID:    e.Source.ID,
		Lines:       make([]lineResponse, len(e.Lines)),
		Debits:      debits,
		Credits:     credits,
		CreatedAt:   e.CreatedAt,
	}

	for i, l := range e.Lines {
		resp.Lines[i] = lineResponse{
			AccountID:   l.AccountID,
			AccountName: l.AccountName,
			Side:        l.Side,
			Amount:      l.Amount,
		}
	}

	return resp
}

func toResponseList(entries []*journal.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
