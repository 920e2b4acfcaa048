package services

import (
	"strings"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// deriveDirection reads a signed amount from the account's point of view.
// A positive amount on a credit account is a charge; on any other account a
// negative amount is money leaving it. Zero is always IN.
func deriveDirection(amountCents int64, credit bool) models.Direction {
	if credit {
		if amountCents > 0 {
			return models.DirectionOut
		}
		return models.DirectionIn
	}
	if amountCents < 0 {
		return models.DirectionOut
	}
	return models.DirectionIn
}

// parseDirection accepts IN/OUT in any case and falls back to OUT.
func parseDirection(s string) models.Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(models.DirectionIn)) {
		return models.DirectionIn
	}
	return models.DirectionOut
}

func accountTypeFromAggregator(typ string) models.AccountType {
	switch strings.ToLower(typ) {
	case "credit":
		return models.AccountCredit
	case "loan":
		return models.AccountLoan
	case "investment", "brokerage":
		return models.AccountInvestment
	default:
		return models.AccountDepository
	}
}
