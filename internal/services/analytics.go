package services

import (
	"context"
	"sort"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/money"
	"github.com/GregMSThompson/finance-tracker/internal/period"
)

const (
	GroupByAccount  = "account"
	GroupByMerchant = "merchant"
	GroupByDay      = "day"
)

type transactionAnalyticsStore interface {
	ListRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
}

type analyticsService struct {
	txs      transactionAnalyticsStore
	clockNow func() time.Time
}

func NewAnalyticsService(txs transactionAnalyticsStore) *analyticsService {
	return &analyticsService{txs: txs, clockNow: time.Now}
}

type breakdownItem struct {
	key   string
	cents int64
	count int
}

// SpendSummary totals the period's transactions by direction and breaks the
// OUT side down by groupBy, largest first. An empty groupBy means account.
func (s *analyticsService) SpendSummary(ctx context.Context, month, year *int, groupBy string) (dto.SpendSummary, error) {
	if groupBy == "" {
		groupBy = GroupByAccount
	}
	p := period.Resolve(month, year, s.clockNow())
	result := dto.SpendSummary{Period: p, GroupBy: groupBy}
	if err := validateGroupBy(groupBy); err != nil {
		return result, err
	}

	txs, err := s.txs.ListRange(ctx, p.Start, p.End)
	if err != nil {
		return result, err
	}

	items := map[string]*breakdownItem{}
	var totalOut, totalIn int64
	for _, tx := range txs {
		amount := money.Abs(tx.Amount)
		if tx.Direction == models.DirectionIn {
			totalIn += amount
			continue
		}
		totalOut += amount

		key := breakdownKey(tx, groupBy)
		item, ok := items[key]
		if !ok {
			item = &breakdownItem{key: key}
			items[key] = item
		}
		item.cents += amount
		item.count++
	}

	result.TotalOut = money.Format(totalOut)
	result.TotalIn = money.Format(totalIn)
	result.Items = mapBreakdownItems(items)
	return result, nil
}

func breakdownKey(tx *models.Transaction, groupBy string) string {
	switch groupBy {
	case GroupByMerchant:
		return tx.Name
	case GroupByDay:
		return tx.OccurredAt.UTC().Format(time.DateOnly)
	default:
		return tx.AccountID
	}
}

func mapBreakdownItems(items map[string]*breakdownItem) []dto.SpendBreakdownItem {
	sorted := make([]*breakdownItem, 0, len(items))
	for _, item := range items {
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].cents != sorted[j].cents {
			return sorted[i].cents > sorted[j].cents
		}
		return sorted[i].key < sorted[j].key
	})

	out := make([]dto.SpendBreakdownItem, 0, len(sorted))
	for _, item := range sorted {
		out = append(out, dto.SpendBreakdownItem{
			Key:   item.key,
			Total: money.Format(item.cents),
			Count: item.count,
		})
	}
	return out
}

func validateGroupBy(groupBy string) error {
	switch groupBy {
	case GroupByAccount, GroupByMerchant, GroupByDay:
		return nil
	default:
		return errs.NewValidationError("unsupported groupBy " + groupBy)
	}
}
