package models

import (
	"time"
)

// Connection is one linked aggregator item. AccessToken is ciphertext when a
// KMS key is configured and empty when tokens live in Secret Manager.
type Connection struct {
	ConnectionID string    `firestore:"connectionId" json:"connectionId"`
	ItemID       string    `firestore:"itemId" json:"itemId"`
	AccessToken  string    `firestore:"accessToken" json:"-"`
	Cursor       string    `firestore:"cursor" json:"-"`
	LastSyncAt   time.Time `firestore:"lastSyncAt,omitempty" json:"lastSyncAt,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
}
