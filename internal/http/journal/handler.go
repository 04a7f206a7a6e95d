package journal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillbook/tillbook/internal/journal"
)

type Handler struct {
	svc *journal.Service
}

func NewHandler(svc *journal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.post)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/reverse", h.reverse)
}

type postLineRequest struct {
	AccountID uuid.UUID       `json:"account_id"`
	Side      journal.Side    `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
}

type postEntryRequest struct {
	Date        time.Time          `json:"date"`
	Description string             `json:"description"`
	Reference   string             `json:"reference"`
	SourceType  journal.SourceType `json:"source_type"`
	SourceID    *uuid.UUID         `json:"source_id"`
	Lines       []postLineRequest  `json:"lines"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var req postEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SourceType == "" {
		req.SourceType = journal.SourceManual
	}

	proposed := journal.ProposedEntry{
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Source:      journal.Source{Type: req.SourceType, ID: req.SourceID},
		Lines:       make([]journal.ProposedLine, len(req.Lines)),
	}

	for i, l := range req.Lines {
		proposed.Lines[i] = journal.ProposedLine{AccountID: l.AccountID, Side: l.Side, Amount: l.Amount}
	}

	entry, err := h.svc.Post(r.Context(), proposed)
	if err != nil {
		switch {
		case errors.Is(err, journal.ErrUnbalancedEntry),
			errors.Is(err, journal.ErrInvalidLine),
			errors.Is(err, journal.ErrTooFewLines),
			errors.Is(err, journal.ErrInvalidSource),
			errors.Is(err, journal.ErrZeroDate),
			errors.Is(err, journal.ErrUnknownAccount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := journal.ListFilter{}

	if s := r.URL.Query().Get("source"); s != "" {
		source := journal.SourceType(s)
		filter.Source = &source
	}

	if s := r.URL.Query().Get("account_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.AccountID = &id
		}
	}

	if s := r.URL.Query().Get("reference"); s != "" {
		filter.Reference = &s
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			http.Error(w, "journal entry not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type reverseEntryRequest struct {
	Date time.Time `json:"date"`
	Memo string    `json:"memo"`
}

func (h *Handler) reverse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reverseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Reverse(r.Context(), id, req.Date, req.Memo)
	if err != nil {
		switch {
		case errors.Is(err, journal.ErrNotFound):
			http.Error(w, "journal entry not found", http.StatusNotFound)
		case errors.Is(err, journal.ErrAlreadyReversed):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, journal.ErrZeroDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
