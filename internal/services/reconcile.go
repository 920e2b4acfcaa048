package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/fingerprint"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/money"
	"github.com/GregMSThompson/finance-tracker/internal/period"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type accountRCStore interface {
	Insert(ctx context.Context, a *models.Account) (string, bool, error)
	Get(ctx context.Context, accountID string) (*models.Account, error)
	FindIDByFingerprint(ctx context.Context, fingerprint string) (string, error)
	ListByConnection(ctx context.Context, connectionID string) ([]*models.Account, error)
}

type transactionRCStore interface {
	Insert(ctx context.Context, t *models.Transaction) (string, bool, error)
	FindID(ctx context.Context, fingerprint, externalID string) (string, error)
}

type connectionRCStore interface {
	Create(ctx context.Context, c *models.Connection) (string, error)
	List(ctx context.Context) ([]*models.Connection, error)
	SetCursor(ctx context.Context, connectionID, cursor string, syncedAt time.Time) error
}

type tokenVault interface {
	Seal(ctx context.Context, itemID, token string) (string, error)
	Open(ctx context.Context, itemID, sealed string) (string, error)
}

// aggregatorClient is the Plaid SDK adapter surface used by this service.
type aggregatorClient interface {
	CreateLinkToken(ctx context.Context) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (dto.ExchangeResult, error)
	ListAccounts(ctx context.Context, accessToken string) ([]dto.AggregatorAccount, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (dto.AggregatorPage, error)
}

// budgetAssigner is the rollup surface needed to attach reconciled rows.
type budgetAssigner interface {
	Get(ctx context.Context, budgetID string) (*models.Budget, error)
	ListForPeriod(ctx context.Context, month, year int) ([]*models.Budget, error)
	Assign(ctx context.Context, budgetID, transactionID string, month, year int) error
}

type rowParser interface {
	Parse(r io.Reader) ([]dto.ImportRow, int, error)
}

type ReconcileOptions struct {
	// MaxPages bounds one connection's pagination in case a source never
	// reports HasMore=false.
	MaxPages       int
	CardIssuerName string
}

type reconcileService struct {
	aggregator  aggregatorClient
	accounts    accountRCStore
	txs         transactionRCStore
	connections connectionRCStore
	vault       tokenVault
	budgets     budgetAssigner
	parser      rowParser
	opts        ReconcileOptions
	clockNow    func() time.Time
}

func NewReconcileService(
	aggregator aggregatorClient,
	accounts accountRCStore,
	txs transactionRCStore,
	connections connectionRCStore,
	vault tokenVault,
	budgets budgetAssigner,
	parser rowParser,
	opts ReconcileOptions,
) *reconcileService {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 100
	}
	if opts.CardIssuerName == "" {
		opts.CardIssuerName = "Apple Card"
	}
	return &reconcileService{
		aggregator:  aggregator,
		accounts:    accounts,
		txs:         txs,
		connections: connections,
		vault:       vault,
		budgets:     budgets,
		parser:      parser,
		opts:        opts,
		clockNow:    time.Now,
	}
}

// insertTransaction checks for an existing row by external id or
// fingerprint before inserting. amount must already be a magnitude.
func (s *reconcileService) insertTransaction(ctx context.Context, accountID, name string, amount int64, dir models.Direction, at time.Time, externalID string) (string, bool, error) {
	fp := fingerprint.Transaction(name, amount, string(dir), at)

	existing, err := s.txs.FindID(ctx, fp, externalID)
	if err != nil {
		return "", false, err
	}
	if existing != "" {
		return existing, false, nil
	}

	return s.txs.Insert(ctx, &models.Transaction{
		AccountID:   accountID,
		ExternalID:  externalID,
		Name:        name,
		Amount:      amount,
		Direction:   dir,
		OccurredAt:  at.UTC(),
		Fingerprint: fp,
		CreatedAt:   s.clockNow().UTC(),
	})
}

// RecordCardIssuerTransactions stores a webhook batch against the single
// card-issuer account, creating that account on first use.
func (s *reconcileService) RecordCardIssuerTransactions(ctx context.Context, txs []dto.CardIssuerTransaction) (dto.RecordResult, error) {
	result := dto.RecordResult{}
	if len(txs) == 0 {
		return result, nil
	}
	log := logger.FromContext(ctx)

	// The payload carries no stable account identity, so the account is keyed
	// by its fixed name and the first record's account id is kept for reference.
	accountID, created, err := s.accounts.Insert(ctx, &models.Account{
		ExternalID:  txs[0].AccountID,
		Source:      models.SourceCardIssuer,
		Type:        models.AccountCredit,
		Name:        s.opts.CardIssuerName,
		Fingerprint: fingerprint.CardIssuerAccount(s.opts.CardIssuerName),
		CreatedAt:   s.clockNow().UTC(),
	})
	if err != nil {
		return result, err
	}
	if created {
		log.Info("card issuer account created", "account_id", accountID)
	}
	result.AccountID = accountID

	for _, t := range txs {
		amount := money.Abs(money.ToMinorUnits(t.Amount))
		_, inserted, err := s.insertTransaction(ctx, accountID, t.Name, amount, parseDirection(t.Direction), t.Date, t.ID)
		if err != nil {
			return result, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Duplicates++
		}
	}

	log.Info("card issuer transactions recorded", "inserted", result.Inserted, "duplicates", result.Duplicates)
	return result, nil
}

// RecordManualTransaction stores an outflow entered by hand.
func (s *reconcileService) RecordManualTransaction(ctx context.Context, in dto.NewTransaction) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", errs.NewValidationError("transaction name is required")
	}
	if in.OccurredAt.IsZero() {
		return "", errs.NewValidationError("transaction date is required")
	}
	if _, err := s.accounts.Get(ctx, in.AccountID); err != nil {
		return "", err
	}

	amount := money.Abs(money.ToMinorUnits(in.Amount))
	id, created, err := s.insertTransaction(ctx, in.AccountID, name, amount, models.DirectionOut, in.OccurredAt.Time, "")
	if err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info("manual transaction recorded", "transaction_id", id, "created", created)
	return id, nil
}

// RecordBudgetTransaction records a manual outflow and assigns it to the
// budget. The date must fall in the budget's month; nothing is written
// otherwise.
func (s *reconcileService) RecordBudgetTransaction(ctx context.Context, budgetID string, in dto.NewTransaction) (string, error) {
	budget, err := s.budgets.Get(ctx, budgetID)
	if err != nil {
		return "", err
	}
	month, year := int(budget.CreatedAt.UTC().Month()), budget.CreatedAt.UTC().Year()
	if !in.OccurredAt.IsZero() && !period.Of(month, year, s.clockNow()).Contains(in.OccurredAt.Time) {
		return "", errs.NewValidationError(errOutsidePeriod)
	}

	id, err := s.RecordManualTransaction(ctx, in)
	if err != nil {
		return "", err
	}
	if err := s.budgets.Assign(ctx, budgetID, id, month, year); err != nil {
		return "", err
	}
	return id, nil
}

// ImportFromDelimitedFile parses and imports a whole file. Parse errors
// reject the file before anything is written.
func (s *reconcileService) ImportFromDelimitedFile(ctx context.Context, r io.Reader) (dto.ImportResult, error) {
	rows, skipped, err := s.parser.Parse(r)
	if err != nil {
		return dto.ImportResult{}, err
	}
	result, err := s.ImportRows(ctx, rows)
	result.Skipped += skipped
	return result, err
}

// ImportRows reconciles parsed rows. Each row's account is resolved by its
// normalized name and each named budget is looked up in the row's own month.
func (s *reconcileService) ImportRows(ctx context.Context, rows []dto.ImportRow) (dto.ImportResult, error) {
	result := dto.ImportResult{}
	log := logger.FromContext(ctx)

	accountIDs := make(map[string]string)
	budgetsByPeriod := make(map[[2]int]map[string]string)

	for _, row := range rows {
		accountName := strings.Join(strings.Fields(row.AccountName), " ")
		accountFP := fingerprint.ImportedAccount(accountName)
		accountID, ok := accountIDs[accountFP]
		if !ok {
			id, created, err := s.accounts.Insert(ctx, &models.Account{
				Source:      models.SourceImport,
				Type:        models.AccountDepository,
				Name:        accountName,
				Fingerprint: accountFP,
				CreatedAt:   s.clockNow().UTC(),
			})
			if err != nil {
				return result, err
			}
			if created {
				result.AccountsOpened++
			}
			accountIDs[accountFP] = id
			accountID = id
		}

		signed := money.ToMinorUnits(row.Amount)
		dir := deriveDirection(signed, false)
		name := strings.TrimSpace(row.Description)

		txID, created, err := s.insertTransaction(ctx, accountID, name, money.Abs(signed), dir, row.Date, "")
		if err != nil {
			return result, err
		}
		result.Imported++
		if !created {
			result.Duplicates++
		}

		if strings.TrimSpace(row.BudgetName) == "" {
			continue
		}

		month, year := int(row.Date.UTC().Month()), row.Date.UTC().Year()
		key := [2]int{year, month}
		byName, ok := budgetsByPeriod[key]
		if !ok {
			budgets, err := s.budgets.ListForPeriod(ctx, month, year)
			if err != nil {
				return result, err
			}
			byName = make(map[string]string, len(budgets))
			for _, b := range budgets {
				if _, dup := byName[fingerprint.Normalize(b.Name)]; !dup {
					byName[fingerprint.Normalize(b.Name)] = b.BudgetID
				}
			}
			budgetsByPeriod[key] = byName
		}

		budgetID, ok := byName[fingerprint.Normalize(row.BudgetName)]
		if !ok {
			log.Debug("import budget not found", "line", row.Line, "budget", row.BudgetName)
			continue
		}
		if err := s.budgets.Assign(ctx, budgetID, txID, month, year); err != nil {
			var validation *errs.ValidationError
			if errors.As(err, &validation) {
				log.Debug("import budget assignment skipped", "line", row.Line, "error", err)
				continue
			}
			return result, err
		}
		result.Assigned++
	}

	log.Info("import completed",
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"assigned", result.Assigned,
		"accounts_opened", result.AccountsOpened)
	return result, nil
}
