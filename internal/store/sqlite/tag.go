package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/store"
)

var _ store.TagRepository = (*tagStore)(nil)

type tagStore struct {
	db *DB
}

func NewTagStore(db *DB) *tagStore {
	return &tagStore{db: db}
}

func scanTag(row scanner) (*models.Tag, error) {
	var (
		t         models.Tag
		createdAt string
	)
	if err := row.Scan(&t.TagID, &t.Name, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *tagStore) Create(ctx context.Context, t *models.Tag) (string, error) {
	if t.TagID == "" {
		t.TagID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.db.ExecContext(ctx, `INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		t.TagID, t.Name, formatTime(t.CreatedAt))
	if err != nil {
		return "", errs.NewDatabaseError("create tag", "failed to create tag", err)
	}
	return t.TagID, nil
}

func (s *tagStore) Get(ctx context.Context, tagID string) (*models.Tag, error) {
	t, err := scanTag(s.db.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM tags WHERE id = ?`, tagID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("tag not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get tag", "failed to read tag", err)
	}
	return t, nil
}

func (s *tagStore) List(ctx context.Context) ([]*models.Tag, error) {
	return s.list(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
}

func (s *tagStore) ListForBudget(ctx context.Context, budgetID string) ([]*models.Tag, error) {
	return s.list(ctx, `
		SELECT t.id, t.name, t.created_at FROM tags t
		JOIN budget_tags bt ON bt.tag_id = t.id
		WHERE bt.budget_id = ?
		ORDER BY t.name`, budgetID)
}

func (s *tagStore) list(ctx context.Context, query string, args ...any) ([]*models.Tag, error) {
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("list tags", "failed to query tags", err)
	}
	defer rows.Close()

	out := make([]*models.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("list tags", "failed to scan tag", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("list tags", "failed to iterate tags", err)
	}
	return out, nil
}

func (s *tagStore) Rename(ctx context.Context, tagID, name string) error {
	res, err := s.db.db.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ?`, name, tagID)
	if err != nil {
		return errs.NewDatabaseError("rename tag", "failed to rename tag", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFoundError("tag not found")
	}
	return nil
}

func (s *tagStore) Delete(ctx context.Context, tagID string) error {
	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return errs.NewDatabaseError("delete tag", "failed to delete tag", err)
	}
	return nil
}

func (s *tagStore) LinkBudget(ctx context.Context, budgetID, tagID string) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO budget_tags (budget_id, tag_id) VALUES (?, ?)
		ON CONFLICT (budget_id, tag_id) DO NOTHING`, budgetID, tagID)
	if err != nil {
		return errs.NewDatabaseError("link tag", "failed to link tag", err)
	}
	return nil
}

func (s *tagStore) UnlinkBudget(ctx context.Context, budgetID, tagID string) (bool, error) {
	res, err := s.db.db.ExecContext(ctx, `DELETE FROM budget_tags WHERE budget_id = ? AND tag_id = ?`, budgetID, tagID)
	if err != nil {
		return false, errs.NewDatabaseError("unlink tag", "failed to unlink tag", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
