package account

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
)

type Handler struct {
	svc *account.Service
}

func NewHandler(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/adjustments", h.adjust)
}

type createAccountRequest struct {
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	Type        account.Type    `json:"type"`
	SubType     account.SubType `json:"sub_type"`
	Description string          `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.Create(r.Context(), account.CreateParams{
		Number:      req.Number,
		Name:        req.Name,
		Type:        req.Type,
		SubType:     req.SubType,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidType), errors.Is(err, account.ErrInvalidSubType):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, account.ErrDuplicateNumber), errors.Is(err, account.ErrDuplicateSubType):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(a)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	order := account.OrderByNumber
	if r.URL.Query().Get("order") == "balance" {
		order = account.OrderByBalance
	}

	accounts, err := h.svc.List(r.Context(), order)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(accounts)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type adjustAccountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Side   journal.Side    `json:"side"`
	Memo   string          `json:"memo"`
	Date   time.Time       `json:"date"`
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req adjustAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Adjust(r.Context(), id, account.AdjustParams{
		Amount: req.Amount,
		Side:   req.Side,
		Memo:   req.Memo,
		Date:   req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			http.Error(w, "account not found", http.StatusNotFound)
		case errors.Is(err, account.ErrInvalidAdjustment):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, account.ErrNoControlAccount), errors.Is(err, account.ErrAmbiguousControlAccount):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toAdjustmentResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(a)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
