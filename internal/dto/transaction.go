package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewTransaction is a manual entry. Amount is in major units and its sign is
// discarded.
type NewTransaction struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	AccountID  string          `json:"accountId"`
	OccurredAt Date            `json:"date"`
}

// CardIssuerTransaction is one record of the card issuer webhook payload.
type CardIssuerTransaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Date      time.Time       `json:"date"`
}

type UpdateNote struct {
	Note string `json:"note"`
}

type AssignTransaction struct {
	TransactionID string `json:"transactionId"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
}
