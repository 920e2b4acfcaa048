package dto

import "time"

// AggregatorAccount is one account returned for a linked item.
type AggregatorAccount struct {
	ExternalID     string
	Name           string
	OfficialName   string
	Type           string
	Subtype        string
	Mask           string
	CurrentBalance float64
	InstitutionID  string
}

// DisplayName is the name the account fingerprint uses: the official name
// when present. Accounts are stored under Name.
func (a AggregatorAccount) DisplayName() string {
	if a.OfficialName != "" {
		return a.OfficialName
	}
	return a.Name
}

// AggregatorTransaction is a raw record from /transactions/sync. Amount is
// signed the way the aggregator reports it.
type AggregatorTransaction struct {
	ExternalID        string
	ExternalAccountID string
	Name              string
	MerchantName      string
	Amount            float64
	Date              time.Time
}

// Paid adapter result - represents one page from /transactions/sync
type AggregatorPage struct {
	Transactions []AggregatorTransaction
	Cursor       string
	HasMore      bool
}

// ExchangeResult is the outcome of swapping a public token.
type ExchangeResult struct {
	ItemID      string
	AccessToken string
}

type PlaidEnvironment string

const (
	PlaidSandbox     PlaidEnvironment = "sandbox"
	PlaidDevelopment PlaidEnvironment = "development"
	PlaidProduction  PlaidEnvironment = "production"
)
