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

var _ store.BudgetRepository = (*budgetStore)(nil)

const budgetColumns = `id, name, amount_allocated, amount_spent, level, created_at`

type budgetStore struct {
	db *DB
}

func NewBudgetStore(db *DB) *budgetStore {
	return &budgetStore{db: db}
}

func scanBudget(row scanner) (*models.Budget, error) {
	var (
		b         models.Budget
		createdAt string
	)
	if err := row.Scan(&b.BudgetID, &b.Name, &b.AmountAllocated, &b.AmountSpent, &b.Level, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *budgetStore) Create(ctx context.Context, b *models.Budget) (string, error) {
	if b.BudgetID == "" {
		b.BudgetID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.db.ExecContext(ctx, `INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		b.BudgetID, b.Name, b.AmountAllocated, b.AmountSpent, b.Level, formatTime(b.CreatedAt))
	if err != nil {
		return "", errs.NewDatabaseError("create budget", "failed to create budget", err)
	}
	return b.BudgetID, nil
}

func (s *budgetStore) Get(ctx context.Context, budgetID string) (*models.Budget, error) {
	row := s.db.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, budgetID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("budget not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get budget", "failed to read budget", err)
	}
	return b, nil
}

func (s *budgetStore) ListRange(ctx context.Context, start, end time.Time) ([]*models.Budget, error) {
	rows, err := s.db.db.QueryContext(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at, name`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, errs.NewDatabaseError("list budgets", "failed to query budgets", err)
	}
	defer rows.Close()

	out := make([]*models.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("list budgets", "failed to scan budget", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("list budgets", "failed to iterate budgets", err)
	}
	return out, nil
}

func (s *budgetStore) Update(ctx context.Context, b *models.Budget) error {
	res, err := s.db.db.ExecContext(ctx, `
		UPDATE budgets SET name = ?, amount_allocated = ?, amount_spent = ?, level = ?
		WHERE id = ?`, b.Name, b.AmountAllocated, b.AmountSpent, b.Level, b.BudgetID)
	if err != nil {
		return errs.NewDatabaseError("update budget", "failed to update budget", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewNotFoundError("budget not found")
	}
	return nil
}

func (s *budgetStore) Delete(ctx context.Context, budgetID string) error {
	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, budgetID); err != nil {
		return errs.NewDatabaseError("delete budget", "failed to delete budget", err)
	}
	return nil
}

func (s *budgetStore) Link(ctx context.Context, budgetID, transactionID string) error {
	_, err := s.db.db.ExecContext(ctx, `
		INSERT INTO budget_transactions (budget_id, transaction_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (budget_id, transaction_id) DO NOTHING`,
		budgetID, transactionID, formatTime(time.Now()))
	if err != nil {
		return errs.NewDatabaseError("link transaction", "failed to link transaction", err)
	}
	return nil
}

func (s *budgetStore) Unlink(ctx context.Context, budgetID, transactionID string) (bool, error) {
	res, err := s.db.db.ExecContext(ctx, `
		DELETE FROM budget_transactions WHERE budget_id = ? AND transaction_id = ?`, budgetID, transactionID)
	if err != nil {
		return false, errs.NewDatabaseError("unlink transaction", "failed to unlink transaction", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *budgetStore) FindBudgetIDForTransaction(ctx context.Context, transactionID string) (string, error) {
	var id string
	err := s.db.db.QueryRowContext(ctx, `
		SELECT budget_id FROM budget_transactions WHERE transaction_id = ?
		ORDER BY created_at LIMIT 1`, transactionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errs.NewDatabaseError("find budget for transaction", "failed to query links", err)
	}
	return id, nil
}

func (s *budgetStore) LinkedTransactions(ctx context.Context, budgetID string) ([]*models.Transaction, error) {
	return listTransactions(ctx, s.db.db, `
		SELECT t.id, t.account_id, t.external_id, t.name, t.amount, t.direction,
		       t.occurred_at, t.fingerprint, t.note, t.created_at
		FROM transactions t
		JOIN budget_transactions bt ON bt.transaction_id = t.id
		WHERE bt.budget_id = ?
		ORDER BY t.occurred_at DESC`, budgetID)
}
