package payables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/payables"
)

type invoiceResponse struct {
	ID           uuid.UUID       `json:"id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Number       string          `json:"number"`
	Amount       decimal.Decimal `json:"amount"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Balance      decimal.Decimal `json:"balance"`
	Status       payables.Status `json:"status"`
	InvoiceDate  time.Time       `json:"invoice_date"`
	DueDate      time.Time       `json:"due_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(inv *payables.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:           inv.ID,
		SupplierID:   inv.SupplierID,
		SupplierName: inv.SupplierName,
		Number:       inv.Number,
		Amount:       inv.Amount,
		AmountPaid:   inv.AmountPaid,
		Balance:      inv.Balance(),
		Status:       inv.StatusAt(time.Now()),
		InvoiceDate:  inv.InvoiceDate,
		DueDate:      inv.DueDate,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func toResponseList(invoices []*payables.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}

type paymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Method    string          `json:"method,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toPaymentResponseList(payments []*payables.Payment) []paymentResponse {
	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = paymentResponse{
			ID:        p.ID,
			InvoiceID: p.InvoiceID,
			Amount:    p.Amount,
			Date:      p.Date,
			Method:    p.Method,
			CreatedAt: p.CreatedAt,
		}
	}

	return resp
}
