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

var _ store.AccountRepository = (*accountStore)(nil)

const accountColumns = `id, external_id, source, type, name, balance, fingerprint, connection_id, created_at`

type accountStore struct {
	db *DB
}

func NewAccountStore(db *DB) *accountStore {
	return &accountStore{db: db}
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		a            models.Account
		connectionID sql.NullString
		createdAt    string
	)
	err := row.Scan(&a.AccountID, &a.ExternalID, &a.Source, &a.Type, &a.Name, &a.Balance,
		&a.Fingerprint, &connectionID, &createdAt)
	if err != nil {
		return nil, err
	}
	a.ConnectionID = connectionID.String
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func findAccountID(ctx context.Context, q queryer, fingerprint string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM accounts WHERE fingerprint = ?`, fingerprint).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *accountStore) Insert(ctx context.Context, a *models.Account) (string, bool, error) {
	if a.AccountID == "" {
		a.AccountID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	var (
		id      string
		created bool
	)
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := findAccountID(ctx, tx, a.Fingerprint)
		if err != nil || existing != "" {
			id = existing
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			a.AccountID, a.ExternalID, a.Source, a.Type, a.Name, a.Balance,
			a.Fingerprint, nullable(a.ConnectionID), formatTime(a.CreatedAt))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			id, err = findAccountID(ctx, tx, a.Fingerprint)
			return err
		}
		id, created = a.AccountID, true
		return nil
	})
	if err != nil {
		return "", false, errs.NewDatabaseError("insert account", "failed to insert account", err)
	}
	return id, created, nil
}

func (s *accountStore) Get(ctx context.Context, accountID string) (*models.Account, error) {
	row := s.db.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, accountID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("account not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get account", "failed to read account", err)
	}
	return a, nil
}

func (s *accountStore) GetByFingerprint(ctx context.Context, fingerprint string) (*models.Account, error) {
	row := s.db.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE fingerprint = ?`, fingerprint)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("account not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get account", "failed to read account", err)
	}
	return a, nil
}

func (s *accountStore) FindIDByFingerprint(ctx context.Context, fingerprint string) (string, error) {
	id, err := findAccountID(ctx, s.db.db, fingerprint)
	if err != nil {
		return "", errs.NewDatabaseError("find account", "failed to query accounts", err)
	}
	return id, nil
}

func (s *accountStore) List(ctx context.Context) ([]*models.Account, error) {
	return s.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name`)
}

func (s *accountStore) ListByConnection(ctx context.Context, connectionID string) ([]*models.Account, error) {
	return s.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE connection_id = ? ORDER BY name`, connectionID)
}

func (s *accountStore) list(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("list accounts", "failed to query accounts", err)
	}
	defer rows.Close()

	out := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("list accounts", "failed to scan account", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("list accounts", "failed to iterate accounts", err)
	}
	return out, nil
}

// Delete relies on ON DELETE CASCADE for transactions and their links.
func (s *accountStore) Delete(ctx context.Context, accountID string) error {
	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID); err != nil {
		return errs.NewDatabaseError("delete account", "failed to delete account", err)
	}
	return nil
}
