package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type accountStore struct {
	client *firestore.Client
}

func NewAccountStore(client *firestore.Client) *accountStore {
	return &accountStore{client: client}
}

func (s *accountStore) collection() *firestore.CollectionRef {
	return s.client.Collection(accountsCollection)
}

func (s *accountStore) Insert(ctx context.Context, a *models.Account) (string, bool, error) {
	if a.AccountID == "" {
		a.AccountID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	id, created := a.AccountID, false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := firstID(tx, s.collection().Where("fingerprint", "==", a.Fingerprint))
		if err != nil {
			return err
		}
		if existing != "" {
			id, created = existing, false
			return nil
		}
		id, created = a.AccountID, true
		return tx.Create(s.collection().Doc(a.AccountID), a)
	})
	if err != nil {
		return "", false, errs.NewDatabaseError("insert account", "failed to insert account", err)
	}
	return id, created, nil
}

func (s *accountStore) Get(ctx context.Context, accountID string) (*models.Account, error) {
	return getDoc[models.Account](ctx, s.collection().Doc(accountID), "account")
}

func (s *accountStore) GetByFingerprint(ctx context.Context, fingerprint string) (*models.Account, error) {
	accounts, err := queryDocs[models.Account](ctx, s.collection().Where("fingerprint", "==", fingerprint).Limit(1), "accounts")
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, errs.NewNotFoundError("account not found")
	}
	return accounts[0], nil
}

func (s *accountStore) FindIDByFingerprint(ctx context.Context, fingerprint string) (string, error) {
	a, err := s.GetByFingerprint(ctx, fingerprint)
	if _, ok := err.(*errs.NotFoundError); ok {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return a.AccountID, nil
}

func (s *accountStore) List(ctx context.Context) ([]*models.Account, error) {
	return queryDocs[models.Account](ctx, s.collection().OrderBy("name", firestore.Asc), "accounts")
}

func (s *accountStore) ListByConnection(ctx context.Context, connectionID string) ([]*models.Account, error) {
	return queryDocs[models.Account](ctx, s.collection().Where("connectionId", "==", connectionID), "accounts")
}

func (s *accountStore) Delete(ctx context.Context, accountID string) error {
	txs, err := s.client.Collection(transactionsCollection).Where("accountId", "==", accountID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("delete account", "failed to list transactions", err)
	}
	for _, d := range txs {
		q := s.client.Collection(budgetTransactionsCollection).Where("transactionId", "==", d.Ref.ID)
		if err := deleteWhere(ctx, s.client, q); err != nil {
			return errs.NewDatabaseError("delete account", "failed to delete budget links", err)
		}
	}
	if err := deleteRefs(ctx, s.client, refsOf(txs)); err != nil {
		return errs.NewDatabaseError("delete account", "failed to delete transactions", err)
	}
	if _, err := s.collection().Doc(accountID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete account", "failed to delete account", err)
	}
	return nil
}
