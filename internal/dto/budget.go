package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// NewBudget omits the id and the derived spend. A zero CreatedAt means now.
type NewBudget struct {
	Name            string             `json:"name"`
	AmountAllocated decimal.Decimal    `json:"amountAllocated"`
	Level           models.BudgetLevel `json:"level,omitempty"`
	CreatedAt       Date               `json:"createdAt,omitempty"`
}

type RenameBudget struct {
	Name string `json:"name"`
}

type ChangeAllocation struct {
	AmountAllocated decimal.Decimal `json:"amountAllocated"`
}

type CopyBudgets struct {
	Month int  `json:"month"`
	Year  *int `json:"year,omitempty"`
}
