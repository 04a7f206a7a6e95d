package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tillbook/tillbook/internal/account"
	accountStore "github.com/tillbook/tillbook/internal/account/store"
	"github.com/tillbook/tillbook/internal/balance"
	balanceStore "github.com/tillbook/tillbook/internal/balance/store"
	"github.com/tillbook/tillbook/internal/config"
	"github.com/tillbook/tillbook/internal/database"
	tillbookHttp "github.com/tillbook/tillbook/internal/http"
	accountHandler "github.com/tillbook/tillbook/internal/http/account"
	journalHandler "github.com/tillbook/tillbook/internal/http/journal"
	payablesHandler "github.com/tillbook/tillbook/internal/http/payables"
	recurringHandler "github.com/tillbook/tillbook/internal/http/recurring"
	reportHandler "github.com/tillbook/tillbook/internal/http/report"
	"github.com/tillbook/tillbook/internal/journal"
	journalStore "github.com/tillbook/tillbook/internal/journal/store"
	"github.com/tillbook/tillbook/internal/payables"
	payablesStore "github.com/tillbook/tillbook/internal/payables/store"
	"github.com/tillbook/tillbook/internal/reconcile"
	reconcileStore "github.com/tillbook/tillbook/internal/reconcile/store"
	"github.com/tillbook/tillbook/internal/recurring"
	recurringStore "github.com/tillbook/tillbook/internal/recurring/store"
	"github.com/tillbook/tillbook/internal/report"
)

func main() {
	// Best effort; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.ConnMaxLifetime)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		journalService   = journal.NewService(journalStore.New(db))
		accountService   = account.NewService(accountStore.New(db), journalService)
		calculator       = balance.NewCalculator(balanceStore.New(db))
		reconcileService = reconcile.NewService(reconcileStore.New(db), accountService)
		reportService    = report.NewService(accountService, calculator, reconcileService)
		payablesService  = payables.NewService(payablesStore.New(db), accountService, journalService)
		recurringService = recurring.NewService(recurringStore.New(db), journalService)
	)

	var (
		accountH   = accountHandler.NewHandler(accountService)
		journalH   = journalHandler.NewHandler(journalService)
		reportH    = reportHandler.NewHandler(reportService, reconcileService, calculator)
		payablesH  = payablesHandler.NewHandler(payablesService)
		recurringH = recurringHandler.NewHandler(recurringService)
	)

	router := tillbookHttp.New(accountH, journalH, reportH, payablesH, recurringH, cfg.Server.AllowedOrigins)

	go runScheduler(context.Background(), recurringService, cfg.Scheduler.Interval)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// runScheduler fires due recurring expenses on a fixed interval. A pass that
// fails entirely is logged and retried on the next tick; per-definition
// failures are reported in the pass result.
func runScheduler(ctx context.Context, svc *recurring.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := svc.RunDue(ctx, time.Now().UTC())
		if err != nil {
			slog.Error("recurring expense pass failed", "error", err)
		} else {
			if result.Fired > 0 || len(result.Errors) > 0 {
				slog.Info("recurring expense pass", "fired", result.Fired, "errors", len(result.Errors))
			}

			for _, e := range result.Errors {
				slog.Error("recurring expense failed", "id", e.DefinitionID, "name", e.Name, "error", e.Err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
