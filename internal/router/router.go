package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/finance-tracker/internal/handlers"
	"github.com/GregMSThompson/finance-tracker/internal/middleware"
)

func NewRouter(deps *handlers.Deps, log *slog.Logger) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(log)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	plh := handlers.NewPlaidHandlers(deps)
	wbh := handlers.NewWebhookHandlers(deps)
	imh := handlers.NewImportHandlers(deps)
	ach := handlers.NewAccountHandlers(deps)
	txh := handlers.NewTransactionHandlers(deps)
	bgh := handlers.NewBudgetHandlers(deps)
	tgh := handlers.NewTagHandlers(deps)
	peh := handlers.NewPeriodHandlers(deps)
	anh := handlers.NewAnalyticsHandlers(deps)

	r.Mount("/plaid", plh.PlaidRoutes())
	r.Mount("/webhooks", wbh.WebhookRoutes())
	r.Mount("/imports", imh.ImportRoutes())
	r.Mount("/accounts", ach.AccountRoutes())
	r.Mount("/transactions", txh.TransactionRoutes())
	r.Mount("/budgets", bgh.BudgetRoutes())
	r.Mount("/tags", tgh.TagRoutes())
	r.Mount("/periods", peh.PeriodRoutes())
	r.Mount("/analytics", anh.AnalyticsRoutes())
	return r
}
