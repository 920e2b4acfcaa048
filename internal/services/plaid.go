package services

import (
	"context"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/fingerprint"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/money"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

func (s *reconcileService) CreateLinkToken(ctx context.Context) (string, error) {
	linkToken, err := s.aggregator.CreateLinkToken(ctx)
	if err != nil {
		return "", err
	}
	return linkToken, nil
}

// LinkNewConnection exchanges the public token and stores the connection
// only when the item exposes at least one account not already known by
// fingerprint. Otherwise the access token is dropped.
func (s *reconcileService) LinkNewConnection(ctx context.Context, publicToken string) (dto.LinkResult, error) {
	result := dto.LinkResult{NewAccounts: []string{}}
	if publicToken == "" {
		return result, errs.NewValidationError("public token is required")
	}
	log := logger.FromContext(ctx)

	exchange, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return result, err
	}
	remote, err := s.aggregator.ListAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return result, err
	}

	// Settle the full new-vs-existing set before writing anything.
	seen := make(map[string]bool, len(remote))
	fresh := make([]*models.Account, 0, len(remote))
	for _, acc := range remote {
		fp := fingerprint.Account(acc.InstitutionID, acc.DisplayName(), acc.Subtype, acc.Mask)
		if seen[fp] {
			continue
		}
		seen[fp] = true

		existing, err := s.accounts.FindIDByFingerprint(ctx, fp)
		if err != nil {
			return result, err
		}
		if existing != "" {
			continue
		}
		fresh = append(fresh, &models.Account{
			ExternalID:  acc.ExternalID,
			Source:      models.SourceAggregator,
			Type:        accountTypeFromAggregator(acc.Type),
			Name:        acc.Name,
			Balance:     money.FromFloat(acc.CurrentBalance),
			Fingerprint: fp,
		})
	}

	if len(fresh) == 0 {
		log.Info("link found no new accounts, access token discarded", "item_id", exchange.ItemID, "accounts", len(remote))
		return result, nil
	}

	sealed, err := s.vault.Seal(ctx, exchange.ItemID, exchange.AccessToken)
	if err != nil {
		return result, err
	}
	connectionID, err := s.connections.Create(ctx, &models.Connection{
		ItemID:      exchange.ItemID,
		AccessToken: sealed,
		CreatedAt:   s.clockNow().UTC(),
	})
	if err != nil {
		return result, err
	}
	result.ConnectionID = connectionID
	result.Persisted = true

	for _, a := range fresh {
		a.ConnectionID = connectionID
		a.CreatedAt = s.clockNow().UTC()
		id, _, err := s.accounts.Insert(ctx, a)
		if err != nil {
			return result, err
		}
		result.NewAccounts = append(result.NewAccounts, id)
	}

	log.Info("connection linked", "connection_id", connectionID, "item_id", exchange.ItemID, "new_accounts", len(fresh))
	return result, nil
}

// SyncFromAggregator drains every connection's transaction feed and
// reconciles it. A connection's pages are fully fetched before any of them
// is written, and its cursor is saved only after its rows are stored.
func (s *reconcileService) SyncFromAggregator(ctx context.Context) (dto.SyncResult, error) {
	result := dto.SyncResult{}
	log := logger.FromContext(ctx)

	conns, err := s.connections.List(ctx)
	if err != nil {
		return result, err
	}
	log.Info("transaction sync started", "connection_count", len(conns))

	for _, c := range conns {
		connLog := log.With("connection_id", c.ConnectionID)

		token, err := s.vault.Open(ctx, c.ItemID, c.AccessToken)
		if err != nil {
			return result, err
		}

		accounts, err := s.accounts.ListByConnection(ctx, c.ConnectionID)
		if err != nil {
			return result, err
		}
		byExternalID := make(map[string]*models.Account, len(accounts))
		for _, a := range accounts {
			byExternalID[a.ExternalID] = a
		}

		fetched, cursor, err := s.drain(ctx, token, c.Cursor)
		if err != nil {
			connLog.Warn("connection sync failed", "error", err)
			return result, err
		}
		result.TransactionsFetched += len(fetched)

		for _, t := range fetched {
			acc, ok := byExternalID[t.ExternalAccountID]
			if !ok {
				result.SkippedUnknown++
				connLog.Debug("transaction for unknown account skipped", "external_account_id", t.ExternalAccountID)
				continue
			}

			name := t.Name
			if t.MerchantName != "" {
				name = t.MerchantName
			}
			signed := money.FromFloat(t.Amount)
			dir := deriveDirection(signed, acc.IsCredit())

			_, created, err := s.insertTransaction(ctx, acc.AccountID, name, money.Abs(signed), dir, t.Date, t.ExternalID)
			if err != nil {
				return result, err
			}
			if created {
				result.TransactionsInserted++
			} else {
				result.Duplicates++
			}
		}

		if err := s.connections.SetCursor(ctx, c.ConnectionID, cursor, s.clockNow().UTC()); err != nil {
			return result, err
		}
		result.ConnectionsSynced++
	}

	log.Info("transaction sync completed",
		"connections_synced", result.ConnectionsSynced,
		"transactions_fetched", result.TransactionsFetched,
		"transactions_inserted", result.TransactionsInserted,
		"duplicates", result.Duplicates)
	return result, nil
}

// drain follows the cursor until HasMore is false or MaxPages is reached.
func (s *reconcileService) drain(ctx context.Context, token, cursor string) ([]dto.AggregatorTransaction, string, error) {
	var all []dto.AggregatorTransaction
	hasMore := true
	for pages := 0; hasMore; pages++ {
		if pages >= s.opts.MaxPages {
			logger.FromContext(ctx).Warn("pagination bound reached, treating feed as exhausted", "max_pages", s.opts.MaxPages)
			break
		}
		page, err := s.aggregator.SyncTransactions(ctx, token, cursor)
		if err != nil {
			return nil, "", err
		}
		all = append(all, page.Transactions...)
		cursor = page.Cursor
		hasMore = page.HasMore
	}
	return all, cursor, nil
}
