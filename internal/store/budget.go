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

type budgetLink struct {
	BudgetID      string    `firestore:"budgetId"`
	TransactionID string    `firestore:"transactionId"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection() *firestore.CollectionRef {
	return s.client.Collection(budgetsCollection)
}

func (s *budgetStore) links() *firestore.CollectionRef {
	return s.client.Collection(budgetTransactionsCollection)
}

func (s *budgetStore) Create(ctx context.Context, b *models.Budget) (string, error) {
	if b.BudgetID == "" {
		b.BudgetID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection().Doc(b.BudgetID).Create(ctx, b); err != nil {
		return "", errs.NewDatabaseError("create budget", "failed to create budget", err)
	}
	return b.BudgetID, nil
}

func (s *budgetStore) Get(ctx context.Context, budgetID string) (*models.Budget, error) {
	return getDoc[models.Budget](ctx, s.collection().Doc(budgetID), "budget")
}

func (s *budgetStore) ListRange(ctx context.Context, start, end time.Time) ([]*models.Budget, error) {
	q := s.collection().
		Where("createdAt", ">=", start).
		Where("createdAt", "<", end).
		OrderBy("createdAt", firestore.Asc)
	return queryDocs[models.Budget](ctx, q, "budgets")
}

func (s *budgetStore) Update(ctx context.Context, b *models.Budget) error {
	_, err := s.collection().Doc(b.BudgetID).Update(ctx, []firestore.Update{
		{Path: "name", Value: b.Name},
		{Path: "amountAllocated", Value: b.AmountAllocated},
		{Path: "amountSpent", Value: b.AmountSpent},
		{Path: "level", Value: b.Level},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("budget not found")
	}
	if err != nil {
		return errs.NewDatabaseError("update budget", "failed to update budget", err)
	}
	return nil
}

func (s *budgetStore) Delete(ctx context.Context, budgetID string) error {
	if err := deleteWhere(ctx, s.client, s.links().Where("budgetId", "==", budgetID)); err != nil {
		return errs.NewDatabaseError("delete budget", "failed to delete transaction links", err)
	}
	tagLinks := s.client.Collection(budgetTagsCollection).Where("budgetId", "==", budgetID)
	if err := deleteWhere(ctx, s.client, tagLinks); err != nil {
		return errs.NewDatabaseError("delete budget", "failed to delete tag links", err)
	}
	if _, err := s.collection().Doc(budgetID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete budget", "failed to delete budget", err)
	}
	return nil
}

func (s *budgetStore) Link(ctx context.Context, budgetID, transactionID string) error {
	_, err := s.links().Doc(linkID(budgetID, transactionID)).Set(ctx, budgetLink{
		BudgetID:      budgetID,
		TransactionID: transactionID,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return errs.NewDatabaseError("link transaction", "failed to link transaction", err)
	}
	return nil
}

func (s *budgetStore) Unlink(ctx context.Context, budgetID, transactionID string) (bool, error) {
	ref := s.links().Doc(linkID(budgetID, transactionID))
	removed := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			removed = false
			return nil
		}
		if err != nil {
			return err
		}
		removed = true
		return tx.Delete(ref)
	})
	if err != nil {
		return false, errs.NewDatabaseError("unlink transaction", "failed to unlink transaction", err)
	}
	return removed, nil
}

func (s *budgetStore) FindBudgetIDForTransaction(ctx context.Context, transactionID string) (string, error) {
	links, err := queryDocs[budgetLink](ctx, s.links().Where("transactionId", "==", transactionID).Limit(1), "budget links")
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "", nil
	}
	return links[0].BudgetID, nil
}

func (s *budgetStore) LinkedTransactions(ctx context.Context, budgetID string) ([]*models.Transaction, error) {
	links, err := queryDocs[budgetLink](ctx, s.links().Where("budgetId", "==", budgetID), "budget links")
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []*models.Transaction{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(links))
	for _, l := range links {
		refs = append(refs, s.client.Collection(transactionsCollection).Doc(l.TransactionID))
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errs.NewDatabaseError("list budget transactions", "failed to read transactions", err)
	}

	out := make([]*models.Transaction, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var t models.Transaction
		if err := snap.DataTo(&t); err != nil {
			return nil, errs.NewDatabaseError("list budget transactions", "failed to decode transaction", err)
		}
		out = append(out, &t)
	}
	return out, nil
}
