package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportRow is one parsed delimited-file row. Amount is signed: negative
// means money left the account.
type ImportRow struct {
	Line        int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	AccountName string
	BudgetName  string
}
