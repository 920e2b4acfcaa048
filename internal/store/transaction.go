package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) txCollection() *firestore.CollectionRef {
	return s.client.Collection(transactionsCollection)
}

func (s *transactionStore) findID(tx *firestore.Transaction, fingerprint, externalID string) (string, error) {
	if externalID != "" {
		id, err := firstID(tx, s.txCollection().Where("externalId", "==", externalID))
		if err != nil || id != "" {
			return id, err
		}
	}
	return firstID(tx, s.txCollection().Where("fingerprint", "==", fingerprint))
}

func (s *transactionStore) Insert(ctx context.Context, t *models.Transaction) (string, bool, error) {
	if t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	id, created := t.TransactionID, false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := s.findID(tx, t.Fingerprint, t.ExternalID)
		if err != nil {
			return err
		}
		if existing != "" {
			id, created = existing, false
			return nil
		}
		id, created = t.TransactionID, true
		return tx.Create(s.txCollection().Doc(t.TransactionID), t)
	})
	if err != nil {
		return "", false, errs.NewDatabaseError("insert transaction", "failed to insert transaction", err)
	}
	return id, created, nil
}

func (s *transactionStore) FindID(ctx context.Context, fingerprint, externalID string) (string, error) {
	var id string
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var err error
		id, err = s.findID(tx, fingerprint, externalID)
		return err
	}, firestore.ReadOnly)
	if err != nil {
		return "", errs.NewDatabaseError("find transaction", "failed to query transactions", err)
	}
	return id, nil
}

func (s *transactionStore) Get(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return getDoc[models.Transaction](ctx, s.txCollection().Doc(transactionID), "transaction")
}

func (s *transactionStore) ListRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	q := s.txCollection().
		Where("occurredAt", ">=", start).
		Where("occurredAt", "<", end).
		OrderBy("occurredAt", firestore.Desc)
	return queryDocs[models.Transaction](ctx, q, "transactions")
}

func (s *transactionStore) ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	return queryDocs[models.Transaction](ctx, s.txCollection().Where("accountId", "==", accountID), "transactions")
}

func (s *transactionStore) UpdateNote(ctx context.Context, transactionID, note string) error {
	_, err := s.txCollection().Doc(transactionID).Update(ctx, []firestore.Update{
		{Path: "note", Value: note},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("transaction not found")
	}
	if err != nil {
		return errs.NewDatabaseError("update transaction note", "failed to update note", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, transactionID string) error {
	q := s.client.Collection(budgetTransactionsCollection).Where("transactionId", "==", transactionID)
	if err := deleteWhere(ctx, s.client, q); err != nil {
		return errs.NewDatabaseError("delete transaction", "failed to delete budget links", err)
	}
	if _, err := s.txCollection().Doc(transactionID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete transaction", "failed to delete transaction", err)
	}
	return nil
}
