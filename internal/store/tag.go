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

type budgetTagLink struct {
	BudgetID string `firestore:"budgetId"`
	TagID    string `firestore:"tagId"`
}

type tagStore struct {
	client *firestore.Client
}

func NewTagStore(client *firestore.Client) *tagStore {
	return &tagStore{client: client}
}

func (s *tagStore) collection() *firestore.CollectionRef {
	return s.client.Collection(tagsCollection)
}

func (s *tagStore) links() *firestore.CollectionRef {
	return s.client.Collection(budgetTagsCollection)
}

func (s *tagStore) Create(ctx context.Context, t *models.Tag) (string, error) {
	if t.TagID == "" {
		t.TagID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection().Doc(t.TagID).Create(ctx, t); err != nil {
		return "", errs.NewDatabaseError("create tag", "failed to create tag", err)
	}
	return t.TagID, nil
}

func (s *tagStore) Get(ctx context.Context, tagID string) (*models.Tag, error) {
	return getDoc[models.Tag](ctx, s.collection().Doc(tagID), "tag")
}

func (s *tagStore) List(ctx context.Context) ([]*models.Tag, error) {
	return queryDocs[models.Tag](ctx, s.collection().OrderBy("name", firestore.Asc), "tags")
}

func (s *tagStore) Rename(ctx context.Context, tagID, name string) error {
	_, err := s.collection().Doc(tagID).Update(ctx, []firestore.Update{{Path: "name", Value: name}})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("tag not found")
	}
	if err != nil {
		return errs.NewDatabaseError("rename tag", "failed to rename tag", err)
	}
	return nil
}

func (s *tagStore) Delete(ctx context.Context, tagID string) error {
	if err := deleteWhere(ctx, s.client, s.links().Where("tagId", "==", tagID)); err != nil {
		return errs.NewDatabaseError("delete tag", "failed to delete budget links", err)
	}
	if _, err := s.collection().Doc(tagID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete tag", "failed to delete tag", err)
	}
	return nil
}

func (s *tagStore) LinkBudget(ctx context.Context, budgetID, tagID string) error {
	_, err := s.links().Doc(linkID(budgetID, tagID)).Set(ctx, budgetTagLink{BudgetID: budgetID, TagID: tagID})
	if err != nil {
		return errs.NewDatabaseError("link tag", "failed to link tag", err)
	}
	return nil
}

func (s *tagStore) UnlinkBudget(ctx context.Context, budgetID, tagID string) (bool, error) {
	ref := s.links().Doc(linkID(budgetID, tagID))
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		return false, nil
	} else if err != nil {
		return false, errs.NewDatabaseError("unlink tag", "failed to read link", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return false, errs.NewDatabaseError("unlink tag", "failed to delete link", err)
	}
	return true, nil
}

func (s *tagStore) ListForBudget(ctx context.Context, budgetID string) ([]*models.Tag, error) {
	links, err := queryDocs[budgetTagLink](ctx, s.links().Where("budgetId", "==", budgetID), "tag links")
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []*models.Tag{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(links))
	for _, l := range links {
		refs = append(refs, s.collection().Doc(l.TagID))
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errs.NewDatabaseError("list budget tags", "failed to read tags", err)
	}
	out := make([]*models.Tag, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var t models.Tag
		if err := snap.DataTo(&t); err != nil {
			return nil, errs.NewDatabaseError("list budget tags", "failed to decode tag", err)
		}
		out = append(out, &t)
	}
	return out, nil
}
