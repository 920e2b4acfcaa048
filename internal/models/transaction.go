package models

import (
	"time"
)

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Transaction amounts are non-negative cents; Direction carries the sign.
type Transaction struct {
	TransactionID string    `firestore:"transactionId" json:"transactionId"`
	AccountID     string    `firestore:"accountId" json:"accountId"`
	ExternalID    string    `firestore:"externalId,omitempty" json:"externalId,omitempty"`
	Name          string    `firestore:"name" json:"name"`
	Amount        int64     `firestore:"amount" json:"amount"`
	Direction     Direction `firestore:"direction" json:"direction"`
	OccurredAt    time.Time `firestore:"occurredAt" json:"occurredAt"`
	Fingerprint   string    `firestore:"fingerprint" json:"fingerprint"`
	Note          string    `firestore:"note,omitempty" json:"note,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
}
