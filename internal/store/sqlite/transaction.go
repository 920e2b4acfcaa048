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

var _ store.TransactionRepository = (*transactionStore)(nil)

const transactionColumns = `id, account_id, external_id, name, amount, direction, occurred_at, fingerprint, note, created_at`

type transactionStore struct {
	db *DB
}

func NewTransactionStore(db *DB) *transactionStore {
	return &transactionStore{db: db}
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var (
		t                     models.Transaction
		externalID            sql.NullString
		occurredAt, createdAt string
	)
	err := row.Scan(&t.TransactionID, &t.AccountID, &externalID, &t.Name, &t.Amount, &t.Direction,
		&occurredAt, &t.Fingerprint, &t.Note, &createdAt)
	if err != nil {
		return nil, err
	}
	t.ExternalID = externalID.String
	if t.OccurredAt, err = parseTime(occurredAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// findTransactionID matches on external id first, then fingerprint.
func findTransactionID(ctx context.Context, q queryer, fingerprint, externalID string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		SELECT id FROM transactions
		WHERE (external_id IS NOT NULL AND external_id = ?) OR fingerprint = ?
		ORDER BY CASE WHEN external_id = ? THEN 0 ELSE 1 END
		LIMIT 1`, nullable(externalID), fingerprint, nullable(externalID)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *transactionStore) Insert(ctx context.Context, t *models.Transaction) (string, bool, error) {
	if t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	var (
		id      string
		created bool
	)
	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := findTransactionID(ctx, tx, t.Fingerprint, t.ExternalID)
		if err != nil || existing != "" {
			id = existing
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING`,
			t.TransactionID, t.AccountID, nullable(t.ExternalID), t.Name, t.Amount, t.Direction,
			formatTime(t.OccurredAt), t.Fingerprint, t.Note, formatTime(t.CreatedAt))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			id, err = findTransactionID(ctx, tx, t.Fingerprint, t.ExternalID)
			return err
		}
		id, created = t.TransactionID, true
		return nil
	})
	if err != nil {
		return "", false, errs.NewDatabaseError("insert transaction", "failed to insert transaction", err)
	}
	return id, created, nil
}

func (s *transactionStore) FindID(ctx context.Context, fingerprint, externalID string) (string, error) {
	id, err := findTransactionID(ctx, s.db.db, fingerprint, externalID)
	if err != nil {
		return "", errs.NewDatabaseError("find transaction", "failed to query transactions", err)
	}
	return id, nil
}

func (s *transactionStore) Get(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := s.db.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, transactionID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get transaction", "failed to read transaction", err)
	}
	return t, nil
}

func (s *transactionStore) ListRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	return listTransactions(ctx, s.db.db, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC`, formatTime(start), formatTime(end))
}

func (s *transactionStore) ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	return listTransactions(ctx, s.db.db, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = ?
		ORDER BY occurred_at DESC`, accountID)
}

func listTransactions(ctx context.Context, db *sql.DB, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("list transactions", "failed to query transactions", err)
	}
	defer rows.Close()

	out := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("list transactions", "failed to scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("list transactions", "failed to iterate transactions", err)
	}
	return out, nil
}

func (s *transactionStore) UpdateNote(ctx context.Context, transactionID, note string) error {
	res, err := s.db.db.ExecContext(ctx, `UPDATE transactions SET note = ? WHERE id = ?`, note, transactionID)
	if err != nil {
		return errs.NewDatabaseError("update transaction note", "failed to update note", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFoundError("transaction not found")
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for budget links.
func (s *transactionStore) Delete(ctx context.Context, transactionID string) error {
	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, transactionID); err != nil {
		return errs.NewDatabaseError("delete transaction", "failed to delete transaction", err)
	}
	return nil
}
