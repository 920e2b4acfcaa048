package models

import (
	"time"
)

type BudgetLevel string

const (
	LevelLow  BudgetLevel = "LOW"
	LevelMed  BudgetLevel = "MED"
	LevelHigh BudgetLevel = "HIGH"
)

// Budget belongs to the calendar month of CreatedAt. AmountSpent is derived
// from linked transactions and only written by the rollup.
type Budget struct {
	BudgetID        string      `firestore:"budgetId" json:"budgetId"`
	Name            string      `firestore:"name" json:"name"`
	AmountAllocated int64       `firestore:"amountAllocated" json:"amountAllocated"`
	AmountSpent     int64       `firestore:"amountSpent" json:"amountSpent"`
	Level           BudgetLevel `firestore:"level,omitempty" json:"level,omitempty"`
	CreatedAt       time.Time   `firestore:"createdAt" json:"createdAt"`
}

func ValidLevel(l BudgetLevel) bool {
	switch l {
	case "", LevelLow, LevelMed, LevelHigh:
		return true
	default:
		return false
	}
}
