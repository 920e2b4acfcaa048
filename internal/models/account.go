package models

import (
	"time"
)

type AccountSource string

const (
	SourceAggregator AccountSource = "AGGREGATOR"
	SourceCardIssuer AccountSource = "CARD_ISSUER"
	SourceImport     AccountSource = "IMPORT"
)

type AccountType string

const (
	AccountCredit     AccountType = "CREDIT"
	AccountDepository AccountType = "DEPOSITORY"
	AccountLoan       AccountType = "LOAN"
	AccountInvestment AccountType = "INVESTMENT"
)

type Account struct {
	AccountID    string        `firestore:"accountId" json:"accountId"`
	ExternalID   string        `firestore:"externalId" json:"externalId"` // aggregator or issuer account id
	Source       AccountSource `firestore:"source" json:"source"`
	Type         AccountType   `firestore:"type" json:"type"`
	Name         string        `firestore:"name" json:"name"`
	Balance      int64         `firestore:"balance" json:"balance"` // cents
	Fingerprint  string        `firestore:"fingerprint" json:"fingerprint"`
	ConnectionID string        `firestore:"connectionId,omitempty" json:"connectionId,omitempty"`
	CreatedAt    time.Time     `firestore:"createdAt" json:"createdAt"`
}

func (a Account) IsCredit() bool {
	return a.Type == AccountCredit
}
