package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillbook/tillbook/internal/account"
	"github.com/tillbook/tillbook/internal/balance"
	"github.com/tillbook/tillbook/internal/reconcile"
	"github.com/tillbook/tillbook/internal/report"
)

type Handler struct {
	svc        *report.Service
	reconciler *reconcile.Service
	calculator *balance.Calculator
}

func NewHandler(svc *report.Service, reconciler *reconcile.Service, calculator *balance.Calculator) *Handler {
	return &Handler{svc: svc, reconciler: reconciler, calculator: calculator}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/profit-loss", h.profitLoss)
	r.Get("/balance-sheet", h.balanceSheet)
	r.Get("/reconciliation", h.reconciliation)
	r.Post("/rebuild-balances", h.rebuildBalances)
}

// period reads start_date and end_date, defaulting to the current month to
// date.
func period(r *http.Request) (start, end time.Time) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = now

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			start = t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			end = t
		}
	}

	return start, end
}

func order(r *http.Request) account.Order {
	if r.URL.Query().Get("order") == "balance" {
		return account.OrderByBalance
	}

	return account.OrderByNumber
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	start, end := period(r)

	summary, err := h.svc.Summary(r.Context(), start, end)
	if err != nil {
		h.reportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSummaryResponse(summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) profitLoss(w http.ResponseWriter, r *http.Request) {
	start, end := period(r)

	pl, err := h.svc.ProfitLoss(r.Context(), start, end, order(r))
	if err != nil {
		h.reportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toProfitLossResponse(pl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if s := r.URL.Query().Get("as_of"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			asOf = t
		}
	}

	bs, err := h.svc.BalanceSheet(r.Context(), asOf, order(r))
	if err != nil {
		h.reportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBalanceSheetResponse(bs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) reconciliation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reconciler.Run(r.Context())
	if err != nil {
		h.reportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReconciliationResponse(rec)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) rebuildBalances(w http.ResponseWriter, r *http.Request) {
	updated, err := h.calculator.Rebuild(r.Context())
	if err != nil {
		slog.Error("failed to rebuild balances", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rebuildResponse{AccountsUpdated: updated}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Control account misconfiguration is an operator problem, not a malformed
// request.
func (h *Handler) reportError(w http.ResponseWriter, err error) {
	if errors.Is(err, account.ErrNoControlAccount) || errors.Is(err, account.ErrAmbiguousControlAccount) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
