package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/money"
	"github.com/GregMSThompson/finance-tracker/internal/period"
)

// Views render stored cents as major-unit strings for API callers.

type BudgetView struct {
	BudgetID        string             `json:"budgetId"`
	Name            string             `json:"name"`
	AmountAllocated string             `json:"amountAllocated"`
	AmountSpent     string             `json:"amountSpent"`
	Remaining       string             `json:"remaining"`
	Level           models.BudgetLevel `json:"level,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

func NewBudgetView(b models.Budget) BudgetView {
	return BudgetView{
		BudgetID:        b.BudgetID,
		Name:            b.Name,
		AmountAllocated: money.Format(b.AmountAllocated),
		AmountSpent:     money.Format(b.AmountSpent),
		Remaining:       money.Format(b.AmountAllocated - b.AmountSpent),
		Level:           b.Level,
		CreatedAt:       b.CreatedAt,
	}
}

type TransactionView struct {
	TransactionID string           `json:"transactionId"`
	AccountID     string           `json:"accountId"`
	Name          string           `json:"name"`
	Amount        string           `json:"amount"`
	Direction     models.Direction `json:"direction"`
	OccurredAt    time.Time        `json:"occurredAt"`
	Note          string           `json:"note,omitempty"`
}

func NewTransactionView(t models.Transaction) TransactionView {
	return TransactionView{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Name:          t.Name,
		Amount:        money.Format(t.Amount),
		Direction:     t.Direction,
		OccurredAt:    t.OccurredAt,
		Note:          t.Note,
	}
}

type AccountView struct {
	AccountID string               `json:"accountId"`
	Name      string               `json:"name"`
	Source    models.AccountSource `json:"source"`
	Type      models.AccountType   `json:"type"`
	Balance   string               `json:"balance"`
}

func NewAccountView(a models.Account) AccountView {
	return AccountView{
		AccountID: a.AccountID,
		Name:      a.Name,
		Source:    a.Source,
		Type:      a.Type,
		Balance:   money.Format(a.Balance),
	}
}

// BudgetPage and TransactionPage pair a month listing with its navigation.
type BudgetPage struct {
	Period  period.Context `json:"period"`
	Budgets []BudgetView   `json:"budgets"`
}

type TransactionPage struct {
	Period       period.Context    `json:"period"`
	Transactions []TransactionView `json:"transactions"`
}

func NewBudgetViews(budgets []*models.Budget) []BudgetView {
	out := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, NewBudgetView(*b))
	}
	return out
}

func NewTransactionViews(txs []*models.Transaction) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionView(*t))
	}
	return out
}
