package recurring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/recurring"
)

type definitionResponse struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	Amount           decimal.Decimal     `json:"amount"`
	Frequency        recurring.Frequency `json:"frequency"`
	StartDate        time.Time           `json:"start_date"`
	NextRunDate      time.Time           `json:"next_run_date"`
	Status           recurring.Status    `json:"status"`
	ExpenseAccountID uuid.UUID           `json:"expense_account_id"`
	PaymentAccountID uuid.UUID           `json:"payment_account_id"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        *time.Time          `json:"updated_at,omitempty"`
}

func toResponse(d *recurring.Definition) definitionResponse {
	return definitionResponse{
		ID:               d.ID,
		Name:             d.Name,
		Amount:           d.Amount,
		Frequency:        d.Frequency,
		StartDate:        d.StartDate,
		NextRunDate:      d.NextRunDate,
		Status:           d.Status,
		ExpenseAccountID: d.ExpenseAccountID,
		PaymentAccountID: d.PaymentAccountID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toResponseList(defs []*recurring.Definition) []definitionResponse {
	resp := make([]definitionResponse, len(defs))
	for i, d := range defs {
		resp[i] = toResponse(d)
	}

	return resp
}

type expenseResponse struct {
	ID                 uuid.UUID       `json:"id"`
	RecurringExpenseID uuid.UUID       `json:"recurring_expense_id"`
	Name               string          `json:"name"`
	Amount             decimal.Decimal `json:"amount"`
	OccurredOn         time.Time       `json:"occurred_on"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toExpenseResponseList(expenses []*recurring.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = expenseResponse{
			ID:                 e.ID,
			RecurringExpenseID: e.RecurringExpenseID,
			Name:               e.Name,
			Amount:             e.Amount,
			OccurredOn:         e.OccurredOn,
			CreatedAt:          e.CreatedAt,
		}
	}

	return resp
}

type runErrorResponse struct {
	RecurringExpenseID uuid.UUID `json:"recurring_expense_id"`
	Name               string    `json:"name"`
	Error              string    `json:"error"`
}

type runResponse struct {
	Fired  int                `json:"fired"`
	Errors []runErrorResponse `json:"errors"`
}

func toRunResponse(result *recurring.RunResult) runResponse {
	resp := runResponse{Fired: result.Fired, Errors: make([]runErrorResponse, len(result.Errors))}

	for i, e := range result.Errors {
		resp.Errors[i] = runErrorResponse{
			RecurringExpenseID: e.DefinitionID,
			Name:               e.Name,
			Error:              e.Err.Error(),
		}
	}

	return resp
}
