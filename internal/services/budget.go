package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/money"
	"github.com/GregMSThompson/finance-tracker/internal/period"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

const errOutsidePeriod = "transaction falls outside the selected period"

type budgetBSStore interface {
	Create(ctx context.Context, b *models.Budget) (string, error)
	Get(ctx context.Context, budgetID string) (*models.Budget, error)
	ListRange(ctx context.Context, start, end time.Time) ([]*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, budgetID string) error
	Link(ctx context.Context, budgetID, transactionID string) error
	Unlink(ctx context.Context, budgetID, transactionID string) (bool, error)
	FindBudgetIDForTransaction(ctx context.Context, transactionID string) (string, error)
	LinkedTransactions(ctx context.Context, budgetID string) ([]*models.Transaction, error)
}

type transactionBSStore interface {
	Get(ctx context.Context, transactionID string) (*models.Transaction, error)
}

type budgetService struct {
	budgets  budgetBSStore
	txs      transactionBSStore
	clockNow func() time.Time
}

func NewBudgetService(budgets budgetBSStore, txs transactionBSStore) *budgetService {
	return &budgetService{
		budgets:  budgets,
		txs:      txs,
		clockNow: time.Now,
	}
}

func (s *budgetService) Create(ctx context.Context, in dto.NewBudget) (*models.Budget, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errs.NewValidationError("budget name is required")
	}
	if in.AmountAllocated.IsNegative() {
		return nil, errs.NewValidationError("allocation must not be negative")
	}
	if !models.ValidLevel(in.Level) {
		return nil, errs.NewValidationError("level must be LOW, MED or HIGH")
	}

	createdAt := in.CreatedAt.Time
	if createdAt.IsZero() {
		createdAt = s.clockNow()
	}
	b := &models.Budget{
		Name:            name,
		AmountAllocated: money.ToMinorUnits(in.AmountAllocated),
		Level:           in.Level,
		CreatedAt:       createdAt.UTC(),
	}
	id, err := s.budgets.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	b.BudgetID = id

	logger.FromContext(ctx).Info("budget created", "budget_id", b.BudgetID, "name", b.Name)
	return b, nil
}

func (s *budgetService) Get(ctx context.Context, budgetID string) (*models.Budget, error) {
	return s.budgets.Get(ctx, budgetID)
}

// List returns the budgets of a resolved period along with the period.
func (s *budgetService) List(ctx context.Context, month, year *int) ([]*models.Budget, period.Context, error) {
	p := period.Resolve(month, year, s.clockNow())
	budgets, err := s.budgets.ListRange(ctx, p.Start, p.End)
	return budgets, p, err
}

func (s *budgetService) ListForPeriod(ctx context.Context, month, year int) ([]*models.Budget, error) {
	budgets, _, err := s.List(ctx, &month, &year)
	return budgets, err
}

func (s *budgetService) Delete(ctx context.Context, budgetID string) error {
	if _, err := s.budgets.Get(ctx, budgetID); err != nil {
		return err
	}
	if err := s.budgets.Delete(ctx, budgetID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("budget deleted", "budget_id", budgetID)
	return nil
}

// Rename and ChangeAllocation rewrite the row with the other fields as
// stored. Spend is left alone.
func (s *budgetService) Rename(ctx context.Context, budgetID, name string) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("budget name is required")
	}
	b, err := s.budgets.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	b.Name = name
	if err := s.budgets.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *budgetService) ChangeAllocation(ctx context.Context, budgetID string, allocated decimal.Decimal) (*models.Budget, error) {
	if allocated.IsNegative() {
		return nil, errs.NewValidationError("allocation must not be negative")
	}
	b, err := s.budgets.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	b.AmountAllocated = money.ToMinorUnits(allocated)
	if err := s.budgets.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *budgetService) ListTransactions(ctx context.Context, budgetID string) ([]*models.Transaction, error) {
	if _, err := s.budgets.Get(ctx, budgetID); err != nil {
		return nil, err
	}
	return s.budgets.LinkedTransactions(ctx, budgetID)
}

// Assign links a transaction dated in (month, year) to the budget. A link to
// a different budget is removed first so a transaction counts once.
func (s *budgetService) Assign(ctx context.Context, budgetID, transactionID string, month, year int) error {
	tx, err := s.txs.Get(ctx, transactionID)
	if err != nil {
		return err
	}
	if !period.Matches(tx.OccurredAt, month, year) {
		return errs.NewValidationError(errOutsidePeriod)
	}
	if _, err := s.budgets.Get(ctx, budgetID); err != nil {
		return err
	}

	current, err := s.budgets.FindBudgetIDForTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if current != "" && current != budgetID {
		if _, err := s.Unassign(ctx, &current, transactionID); err != nil {
			return err
		}
	}

	if err := s.budgets.Link(ctx, budgetID, transactionID); err != nil {
		return err
	}
	spent, err := s.RecomputeSpent(ctx, budgetID)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("transaction assigned", "budget_id", budgetID, "transaction_id", transactionID, "amount_spent", spent)
	return nil
}

// Unassign removes the link between a transaction and a budget. Without a
// budget id the currently linked budget is used. It reports false when
// there was nothing to remove.
func (s *budgetService) Unassign(ctx context.Context, budgetID *string, transactionID string) (bool, error) {
	id := ""
	if budgetID != nil {
		id = *budgetID
	}
	if id == "" {
		found, err := s.budgets.FindBudgetIDForTransaction(ctx, transactionID)
		if err != nil {
			return false, err
		}
		id = found
	}
	if id == "" {
		return false, nil
	}

	removed, err := s.budgets.Unlink(ctx, id, transactionID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}
	if _, err := s.RecomputeSpent(ctx, id); err != nil {
		return true, err
	}

	logger.FromContext(ctx).Info("transaction unassigned", "budget_id", id, "transaction_id", transactionID)
	return true, nil
}

// RecomputeSpent sums the magnitudes of linked OUT transactions and writes
// the whole budget row back.
func (s *budgetService) RecomputeSpent(ctx context.Context, budgetID string) (int64, error) {
	b, err := s.budgets.Get(ctx, budgetID)
	if err != nil {
		return 0, err
	}
	linked, err := s.budgets.LinkedTransactions(ctx, budgetID)
	if err != nil {
		return 0, err
	}

	var spent int64
	for _, t := range linked {
		if t.Direction == models.DirectionOut {
			spent += money.Abs(t.Amount)
		}
	}

	b.AmountSpent = spent
	if err := s.budgets.Update(ctx, b); err != nil {
		return 0, err
	}
	return spent, nil
}

// CopyFromPrevious clones the previous month's budgets into the resolved
// destination month, skipping names the destination already has.
func (s *budgetService) CopyFromPrevious(ctx context.Context, month int, year *int) (dto.CopyResult, error) {
	result := dto.CopyResult{Created: []string{}}
	now := s.clockNow()

	dest := period.Resolve(&month, year, now)
	src := dest.Previous(now)

	source, err := s.budgets.ListRange(ctx, src.Start, src.End)
	if err != nil {
		return result, err
	}
	existing, err := s.budgets.ListRange(ctx, dest.Start, dest.End)
	if err != nil {
		return result, err
	}

	names := make(map[string]bool, len(existing))
	for _, b := range existing {
		names[b.Name] = true
	}

	for _, b := range source {
		if names[b.Name] {
			continue
		}
		copied := &models.Budget{
			Name:            b.Name,
			AmountAllocated: b.AmountAllocated,
			CreatedAt:       dest.Start,
		}
		id, err := s.budgets.Create(ctx, copied)
		if err != nil {
			return result, err
		}
		names[b.Name] = true
		result.Created = append(result.Created, id)
	}

	logger.FromContext(ctx).Info("budgets copied",
		"from_month", src.Month, "from_year", src.Year,
		"to_month", dest.Month, "to_year", dest.Year,
		"created", len(result.Created))
	return result, nil
}
