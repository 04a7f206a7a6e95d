package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tillbook/tillbook/internal/http/account"
	"github.com/tillbook/tillbook/internal/http/journal"
	"github.com/tillbook/tillbook/internal/http/payables"
	"github.com/tillbook/tillbook/internal/http/recurring"
	"github.com/tillbook/tillbook/internal/http/report"
)

func New(
	accountsV1 *account.Handler,
	journalV1 *journal.Handler,
	reportsV1 *report.Handler,
	payablesV1 *payables.Handler,
	recurringV1 *recurring.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			journalV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		r.Route("/supplier-invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			payablesV1.Routes(r)
		})

		r.Route("/recurring-expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			recurringV1.Routes(r)
		})
	})

	return router
}
