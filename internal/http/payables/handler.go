package payables

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/journal"
	"github.com/tillbook/tillbook/internal/payables"
)

type Handler struct {
	svc *payables.Service
}

func NewHandler(svc *payables.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/payments", h.pay)
	r.Get("/{id}/payments", h.listPayments)
}

type createInvoiceRequest struct {
	SupplierID     uuid.UUID       `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name"`
	Number         string          `json:"number"`
	Amount         decimal.Decimal `json:"amount"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	DueDate        time.Time       `json:"due_date"`
	DebitAccountID uuid.UUID       `json:"debit_account_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.RecordInvoice(r.Context(), payables.RecordInvoiceParams{
		SupplierID:     req.SupplierID,
		SupplierName:   req.SupplierName,
		Number:         req.Number,
		Amount:         req.Amount,
		InvoiceDate:    req.InvoiceDate,
		DueDate:        req.DueDate,
		DebitAccountID: req.DebitAccountID,
	})
	if err != nil {
		switch {
		case errors.Is(err, payables.ErrInvalidAmount),
			errors.Is(err, journal.ErrUnknownAccount),
			errors.Is(err, journal.ErrZeroDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, payables.ErrDuplicateNumber):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, account.ErrNoControlAccount), errors.Is(err, account.ErrAmbiguousControlAccount):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		status     *payables.Status
		supplierID *uuid.UUID
	)

	if s := r.URL.Query().Get("status"); s != "" {
		st := payables.Status(s)
		status = &st
	}

	if s := r.URL.Query().Get("supplier_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			supplierID = &id
		}
	}

	invoices, err := h.svc.List(r.Context(), status, supplierID)
	if err != nil {
		if errors.Is(err, payables.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(invoices)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, payables.ErrNotFound) {
			http.Error(w, "supplier invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type payRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Method string          `json:"method"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.ApplyPayment(r.Context(), id, payables.PaymentParams{
		Amount: req.Amount,
		Date:   req.Date,
		Method: req.Method,
	})
	if err != nil {
		switch {
		case errors.Is(err, payables.ErrNotFound):
			http.Error(w, "supplier invoice not found", http.StatusNotFound)
		case errors.Is(err, payables.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, payables.ErrOverpayment):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, account.ErrNoControlAccount), errors.Is(err, account.ErrAmbiguousControlAccount):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	payments, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPaymentResponseList(payments)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
