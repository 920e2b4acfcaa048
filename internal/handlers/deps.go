package handlers

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type Deps struct {
	ResponseHandler response.ResponseHandler
	AggregatorSvc   aggregatorService
	CardIssuerSvc   cardIssuerService
	ImportSvc       importService
	AccountSvc      accountService
	TransactionSvc  transactionService
	ManualEntrySvc  manualEntryService
	BudgetSvc       budgetService
	BudgetTagSvc    budgetTagService
	TagSvc          tagService
	AnalyticsSvc    analyticsService
	Clock           func() time.Time
}
