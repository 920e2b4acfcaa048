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

var _ store.ConnectionRepository = (*connectionStore)(nil)

const connectionColumns = `id, item_id, access_token, cursor, last_sync_at, created_at`

type connectionStore struct {
	db *DB
}

func NewConnectionStore(db *DB) *connectionStore {
	return &connectionStore{db: db}
}

func scanConnection(row scanner) (*models.Connection, error) {
	var (
		c                     models.Connection
		lastSyncAt, createdAt string
	)
	if err := row.Scan(&c.ConnectionID, &c.ItemID, &c.AccessToken, &c.Cursor, &lastSyncAt, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if c.LastSyncAt, err = parseTime(lastSyncAt); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *connectionStore) Create(ctx context.Context, c *models.Connection) (string, error) {
	if c.ConnectionID == "" {
		c.ConnectionID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.db.ExecContext(ctx, `INSERT INTO connections (`+connectionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ConnectionID, c.ItemID, c.AccessToken, c.Cursor, formatTime(c.LastSyncAt), formatTime(c.CreatedAt))
	if err != nil {
		return "", errs.NewDatabaseError("create connection", "failed to create connection", err)
	}
	return c.ConnectionID, nil
}

func (s *connectionStore) Get(ctx context.Context, connectionID string) (*models.Connection, error) {
	c, err := scanConnection(s.db.db.QueryRowContext(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = ?`, connectionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("connection not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get connection", "failed to read connection", err)
	}
	return c, nil
}

func (s *connectionStore) List(ctx context.Context) ([]*models.Connection, error) {
	rows, err := s.db.db.QueryContext(ctx, `SELECT `+connectionColumns+` FROM connections ORDER BY created_at`)
	if err != nil {
		return nil, errs.NewDatabaseError("list connections", "failed to query connections", err)
	}
	defer rows.Close()

	out := make([]*models.Connection, 0)
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("list connections", "failed to scan connection", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("list connections", "failed to iterate connections", err)
	}
	return out, nil
}

func (s *connectionStore) SetCursor(ctx context.Context, connectionID, cursor string, syncedAt time.Time) error {
	res, err := s.db.db.ExecContext(ctx, `UPDATE connections SET cursor = ?, last_sync_at = ? WHERE id = ?`,
		cursor, formatTime(syncedAt), connectionID)
	if err != nil {
		return errs.NewDatabaseError("set cursor", "failed to persist cursor", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFoundError("connection not found")
	}
	return nil
}
