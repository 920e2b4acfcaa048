package plaidclient

import (
	"context"
	"net/http"
	"time"

	"github.com/plaid/plaid-go/v24/plaid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

const (
	serviceName  = "plaid"
	clientName   = "Finance Tracker"
	clientUserID = "finance-tracker-owner"
	syncPageSize = 500
)

// development keeps existing development items reachable.
const development = plaid.Environment("https://development.plaid.com")

type Adapter struct {
	client *plaid.APIClient
}

func NewAdapter(clientID, secret string, env dto.PlaidEnvironment) *Adapter {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(toPlaidEnv(env))

	return &Adapter{
		client: plaid.NewAPIClient(cfg),
	}
}

func (a *Adapter) CreateLinkToken(ctx context.Context) (string, error) {
	req := plaid.NewLinkTokenCreateRequest(
		clientName,
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		plaid.LinkTokenCreateRequestUser{ClientUserId: clientUserID},
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, httpResp, err := a.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", wrapError("failed to create link token", httpResp, err)
	}
	return resp.GetLinkToken(), nil
}

func (a *Adapter) ExchangePublicToken(ctx context.Context, publicToken string) (dto.ExchangeResult, error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, httpResp, err := a.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return dto.ExchangeResult{}, wrapError("failed to exchange public token", httpResp, err)
	}
	return dto.ExchangeResult{ItemID: resp.GetItemId(), AccessToken: resp.GetAccessToken()}, nil
}

// ListAccounts returns every account on the item, stamped with the item's
// institution id.
func (a *Adapter) ListAccounts(ctx context.Context, accessToken string) ([]dto.AggregatorAccount, error) {
	req := plaid.NewAccountsGetRequest(accessToken)
	resp, httpResp, err := a.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*req).Execute()
	if err != nil {
		return nil, wrapError("failed to list accounts", httpResp, err)
	}

	item := resp.GetItem()
	institutionID := item.GetInstitutionId()

	accounts := make([]dto.AggregatorAccount, 0, len(resp.GetAccounts()))
	for _, acc := range resp.GetAccounts() {
		accounts = append(accounts, toAggregatorAccount(acc, institutionID))
	}
	return accounts, nil
}

// SyncTransactions fetches one /transactions/sync page. Modified records are
// returned alongside added ones; removals are ignored.
func (a *Adapter) SyncTransactions(ctx context.Context, accessToken, cursor string) (dto.AggregatorPage, error) {
	req := plaid.NewTransactionsSyncRequest(accessToken)
	if cursor != "" {
		req.SetCursor(cursor)
	}
	req.SetCount(syncPageSize)

	var page dto.AggregatorPage

	resp, httpResp, err := a.client.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*req).Execute()
	if err != nil {
		return page, wrapError("failed to sync transactions", httpResp, err)
	}

	txs := make([]dto.AggregatorTransaction, 0, len(resp.GetAdded())+len(resp.GetModified()))
	for _, t := range resp.GetAdded() {
		txs = append(txs, toAggregatorTransaction(t))
	}
	for _, t := range resp.GetModified() {
		txs = append(txs, toAggregatorTransaction(t))
	}

	page.Transactions = txs
	page.Cursor = resp.GetNextCursor()
	page.HasMore = resp.GetHasMore()

	return page, nil
}

func toAggregatorAccount(acc plaid.AccountBase, institutionID string) dto.AggregatorAccount {
	balances := acc.GetBalances()
	return dto.AggregatorAccount{
		ExternalID:     acc.GetAccountId(),
		Name:           acc.GetName(),
		OfficialName:   acc.GetOfficialName(),
		Type:           string(acc.GetType()),
		Subtype:        string(acc.GetSubtype()),
		Mask:           acc.GetMask(),
		CurrentBalance: balances.GetCurrent(),
		InstitutionID:  institutionID,
	}
}

func toAggregatorTransaction(t plaid.Transaction) dto.AggregatorTransaction {
	// Plaid dates are calendar dates; an unparseable one leaves the zero time.
	date, _ := time.Parse(time.DateOnly, t.GetDate())
	return dto.AggregatorTransaction{
		ExternalID:        t.GetTransactionId(),
		ExternalAccountID: t.GetAccountId(),
		Name:              t.GetName(),
		MerchantName:      t.GetMerchantName(),
		Amount:            t.GetAmount(),
		Date:              date,
	}
}

func wrapError(message string, resp *http.Response, err error) error {
	return errs.NewExternalServiceError(serviceName, message, isTransient(resp), err)
}

func isTransient(resp *http.Response) bool {
	if resp == nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

func toPlaidEnv(env dto.PlaidEnvironment) plaid.Environment {
	switch env {
	case dto.PlaidSandbox:
		return plaid.Sandbox
	case dto.PlaidDevelopment:
		return development
	default: // dto.PlaidProduction:
		return plaid.Production
	}
}
