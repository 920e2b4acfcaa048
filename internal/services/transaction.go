package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/period"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type transactionTSStore interface {
	Get(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
	UpdateNote(ctx context.Context, transactionID, note string) error
	Delete(ctx context.Context, transactionID string) error
}

type budgetLinkFinder interface {
	FindBudgetIDForTransaction(ctx context.Context, transactionID string) (string, error)
}

// spendRecomputer is the rollup entry point.
type spendRecomputer interface {
	RecomputeSpent(ctx context.Context, budgetID string) (int64, error)
}

type transactionService struct {
	txs      transactionTSStore
	links    budgetLinkFinder
	rollup   spendRecomputer
	clockNow func() time.Time
}

func NewTransactionService(txs transactionTSStore, links budgetLinkFinder, rollup spendRecomputer) *transactionService {
	return &transactionService{
		txs:      txs,
		links:    links,
		rollup:   rollup,
		clockNow: time.Now,
	}
}

func (s *transactionService) List(ctx context.Context, month, year *int) ([]*models.Transaction, period.Context, error) {
	p := period.Resolve(month, year, s.clockNow())
	txs, err := s.txs.ListRange(ctx, p.Start, p.End)
	return txs, p, err
}

func (s *transactionService) Get(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.txs.Get(ctx, transactionID)
}

// UpdateNote does not touch budgets; notes never affect spend.
func (s *transactionService) UpdateNote(ctx context.Context, transactionID, note string) error {
	return s.txs.UpdateNote(ctx, transactionID, note)
}

// Delete removes the transaction and refreshes the budget it was linked to.
func (s *transactionService) Delete(ctx context.Context, transactionID string) error {
	if _, err := s.txs.Get(ctx, transactionID); err != nil {
		return err
	}
	budgetID, err := s.links.FindBudgetIDForTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.txs.Delete(ctx, transactionID); err != nil {
		return err
	}
	if budgetID != "" {
		if _, err := s.rollup.RecomputeSpent(ctx, budgetID); err != nil {
			return err
		}
	}

	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", transactionID, "budget_id", budgetID)
	return nil
}
