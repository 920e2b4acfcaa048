package bootstrap

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/handlers"
	"github.com/GregMSThompson/finance-tracker/internal/importer"
	"github.com/GregMSThompson/finance-tracker/internal/response"
	"github.com/GregMSThompson/finance-tracker/internal/services"
)

// NewDeps builds the services on top of a finished bootstrap. The HTTP
// server and the command line tool share it.
func NewDeps(bs *Bootstrap, cfg *config.Config) (*handlers.Deps, error) {
	profile := importer.DefaultProfile()
	if cfg.ImportProfile != "" {
		p, err := importer.LoadProfile(cfg.ImportProfile)
		if err != nil {
			return nil, err
		}
		profile = p
		bs.Log.Info("import profile loaded", "profile", p.Name, "path", cfg.ImportProfile)
	}
	parser := importer.NewParser(profile)

	repos := bs.Repos

	// services
	bgserv := services.NewBudgetService(repos.Budgets, repos.Transactions)
	rcserv := services.NewReconcileService(
		bs.PlaidAdapter,
		repos.Accounts,
		repos.Transactions,
		repos.Connections,
		bs.Vault,
		bgserv,
		parser,
		services.ReconcileOptions{
			MaxPages:       cfg.SyncMaxPages,
			CardIssuerName: cfg.CardIssuerAccountName,
		},
	)
	txserv := services.NewTransactionService(repos.Transactions, repos.Budgets, bgserv)
	acserv := services.NewAccountService(repos.Accounts, repos.Transactions, repos.Budgets, bgserv)
	tgserv := services.NewTagService(repos.Tags, bgserv)
	anserv := services.NewAnalyticsService(repos.Transactions)

	// dependancies
	deps := new(handlers.Deps)
	deps.ResponseHandler = response.New()
	deps.AggregatorSvc = rcserv
	deps.CardIssuerSvc = rcserv
	deps.ImportSvc = rcserv
	deps.ManualEntrySvc = rcserv
	deps.AccountSvc = acserv
	deps.TransactionSvc = txserv
	deps.BudgetSvc = bgserv
	deps.BudgetTagSvc = tgserv
	deps.TagSvc = tgserv
	deps.AnalyticsSvc = anserv
	deps.Clock = time.Now
	return deps, nil
}
