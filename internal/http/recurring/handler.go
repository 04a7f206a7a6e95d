package recurring

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/recurring"
)

type Handler struct {
	svc *recurring.Service
}

func NewHandler(svc *recurring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/run", h.run)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/pause", h.transition((*recurring.Service).Pause))
	r.Post("/{id}/resume", h.transition((*recurring.Service).Resume))
	r.Post("/{id}/cancel", h.transition((*recurring.Service).Cancel))
	r.Get("/{id}/expenses", h.listExpenses)
}

type createRequest struct {
	Name             string              `json:"name"`
	Amount           decimal.Decimal     `json:"amount"`
	Frequency        recurring.Frequency `json:"frequency"`
	StartDate        time.Time           `json:"start_date"`
	ExpenseAccountID uuid.UUID           `json:"expense_account_id"`
	PaymentAccountID uuid.UUID           `json:"payment_account_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.svc.Create(r.Context(), recurring.CreateParams{
		Name:             req.Name,
		Amount:           req.Amount,
		Frequency:        req.Frequency,
		StartDate:        req.StartDate,
		ExpenseAccountID: req.ExpenseAccountID,
		PaymentAccountID: req.PaymentAccountID,
	})
	if err != nil {
		switch {
		case errors.Is(err, recurring.ErrInvalidFrequency),
			errors.Is(err, recurring.ErrInvalidAmount),
			errors.Is(err, recurring.ErrInvalidStartDate),
			errors.Is(err, recurring.ErrMissingAccount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var status *recurring.Status

	if s := r.URL.Query().Get("status"); s != "" {
		st := recurring.Status(s)
		status = &st
	}

	defs, err := h.svc.List(r.Context(), status)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(defs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, recurring.ErrNotFound) {
			http.Error(w, "recurring expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateRequest struct {
	Name      *string              `json:"name,omitempty"`
	Amount    *decimal.Decimal     `json:"amount,omitempty"`
	Frequency *recurring.Frequency `json:"frequency,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.svc.Update(r.Context(), id, recurring.UpdateParams{
		Name:      req.Name,
		Amount:    req.Amount,
		Frequency: req.Frequency,
	})
	if err != nil {
		switch {
		case errors.Is(err, recurring.ErrNotFound):
			http.Error(w, "recurring expense not found", http.StatusNotFound)
		case errors.Is(err, recurring.ErrInvalidFrequency), errors.Is(err, recurring.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, recurring.ErrCancelled):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) transition(op func(*recurring.Service, context.Context, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := op(h.svc, r.Context(), id); err != nil {
			switch {
			case errors.Is(err, recurring.ErrNotFound):
				http.Error(w, "recurring expense not found", http.StatusNotFound)
			case errors.Is(err, recurring.ErrInvalidTransition):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// run triggers a scheduler pass outside the background ticker, mostly for
// operators catching up after downtime.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RunDue(r.Context(), time.Now().UTC())
	if err != nil {
		slog.Error("failed to run recurring expenses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRunResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	expenses, err := h.svc.ListExpenses(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toExpenseResponseList(expenses)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
