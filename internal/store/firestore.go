package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

const (
	accountsCollection           = "accounts"
	transactionsCollection       = "transactions"
	budgetsCollection            = "budgets"
	tagsCollection               = "tags"
	connectionsCollection        = "connections"
	budgetTransactionsCollection = "budget_transactions"
	budgetTagsCollection         = "budget_tags"
)

// NewFirestoreRepositories wires every Firestore store onto one client.
func NewFirestoreRepositories(client *firestore.Client) *Repositories {
	return &Repositories{
		Accounts:     NewAccountStore(client),
		Transactions: NewTransactionStore(client),
		Budgets:      NewBudgetStore(client),
		Tags:         NewTagStore(client),
		Connections:  NewConnectionStore(client),
		Close:        client.Close,
	}
}

func linkID(budgetID, otherID string) string {
	return budgetID + "_" + otherID
}

// getDoc decodes one document, mapping a missing document to NotFoundError.
func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, what string) (*T, error) {
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, errs.NewNotFoundError(what + " not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get "+what, "failed to read document", err)
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, errs.NewDatabaseError("get "+what, "failed to decode document", err)
	}
	return &v, nil
}

// queryDocs decodes every document a query returns.
func queryDocs[T any](ctx context.Context, q firestore.Query, what string) ([]*T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := make([]*T, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("list "+what, "failed to query documents", err)
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, errs.NewDatabaseError("list "+what, "failed to decode document", err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// firstID returns the id of the first document matching q inside tx, or "".
func firstID(tx *firestore.Transaction, q firestore.Query) (string, error) {
	docs, err := tx.Documents(q.Limit(1)).GetAll()
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", nil
	}
	return docs[0].Ref.ID, nil
}

// deleteWhere removes every document matched by q with one bulk writer.
func deleteWhere(ctx context.Context, client *firestore.Client, q firestore.Query) error {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	return deleteRefs(ctx, client, refsOf(docs))
}

func refsOf(docs []*firestore.DocumentSnapshot) []*firestore.DocumentRef {
	refs := make([]*firestore.DocumentRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, d.Ref)
	}
	return refs
}

func deleteRefs(ctx context.Context, client *firestore.Client, refs []*firestore.DocumentRef) error {
	if len(refs) == 0 {
		return nil
	}

	bw := client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}
