package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type tagTSStore interface {
	Create(ctx context.Context, t *models.Tag) (string, error)
	Get(ctx context.Context, tagID string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Rename(ctx context.Context, tagID, name string) error
	Delete(ctx context.Context, tagID string) error
	LinkBudget(ctx context.Context, budgetID, tagID string) error
	UnlinkBudget(ctx context.Context, budgetID, tagID string) (bool, error)
	ListForBudget(ctx context.Context, budgetID string) ([]*models.Tag, error)
}

type budgetGetter interface {
	Get(ctx context.Context, budgetID string) (*models.Budget, error)
}

type tagService struct {
	tags     tagTSStore
	budgets  budgetGetter
	clockNow func() time.Time
}

func NewTagService(tags tagTSStore, budgets budgetGetter) *tagService {
	return &tagService{
		tags:     tags,
		budgets:  budgets,
		clockNow: time.Now,
	}
}

func (s *tagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("tag name is required")
	}
	t := &models.Tag{Name: name, CreatedAt: s.clockNow().UTC()}
	id, err := s.tags.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.TagID = id
	logger.FromContext(ctx).Info("tag created", "tag_id", id)
	return t, nil
}

func (s *tagService) List(ctx context.Context) ([]*models.Tag, error) {
	return s.tags.List(ctx)
}

// Search matches tags whose name contains query, ignoring case.
func (s *tagService) Search(ctx context.Context, query string) ([]*models.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Tag, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *tagService) Rename(ctx context.Context, tagID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValidationError("tag name is required")
	}
	return s.tags.Rename(ctx, tagID, name)
}

func (s *tagService) Delete(ctx context.Context, tagID string) error {
	if _, err := s.tags.Get(ctx, tagID); err != nil {
		return err
	}
	return s.tags.Delete(ctx, tagID)
}

func (s *tagService) AssignToBudget(ctx context.Context, budgetID, tagID string) error {
	if _, err := s.budgets.Get(ctx, budgetID); err != nil {
		return err
	}
	if _, err := s.tags.Get(ctx, tagID); err != nil {
		return err
	}
	return s.tags.LinkBudget(ctx, budgetID, tagID)
}

func (s *tagService) UnassignFromBudget(ctx context.Context, budgetID, tagID string) (bool, error) {
	return s.tags.UnlinkBudget(ctx, budgetID, tagID)
}

func (s *tagService) ListForBudget(ctx context.Context, budgetID string) ([]*models.Tag, error) {
	if _, err := s.budgets.Get(ctx, budgetID); err != nil {
		return nil, err
	}
	return s.tags.ListForBudget(ctx, budgetID)
}
