package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/period"
)

type fakeBudgetSvc struct {
	budgets map[string]*models.Budget
	created dto.NewBudget
	copyIn  struct {
		month int
		year  *int
	}
	assignIn struct {
		budgetID, txID string
		month, year    int
	}
	assignErr         error
	unassignResult    bool
	gotUnassignBudget *string
	gotUnassignTx     string
	allocation        decimal.Decimal
}

func (f *fakeBudgetSvc) Create(_ context.Context, in dto.NewBudget) (*models.Budget, error) {
	f.created = in
	return &models.Budget{BudgetID: "b-new", Name: in.Name, AmountAllocated: in.AmountAllocated.Mul(decimal.NewFromInt(100)).IntPart()}, nil
}

func (f *fakeBudgetSvc) Get(_ context.Context, id string) (*models.Budget, error) {
	if b, ok := f.budgets[id]; ok {
		return b, nil
	}
	return nil, errs.NewNotFoundError("budget not found")
}

func (f *fakeBudgetSvc) List(_ context.Context, month, year *int) ([]*models.Budget, period.Context, error) {
	out := []*models.Budget{}
	for _, b := range f.budgets {
		out = append(out, b)
	}
	return out, period.Resolve(month, year, testNow), nil
}

func (f *fakeBudgetSvc) Delete(_ context.Context, id string) error {
	if _, ok := f.budgets[id]; !ok {
		return errs.NewNotFoundError("budget not found")
	}
	delete(f.budgets, id)
	return nil
}

func (f *fakeBudgetSvc) Rename(ctx context.Context, id, name string) (*models.Budget, error) {
	b, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Name = name
	return b, nil
}

func (f *fakeBudgetSvc) ChangeAllocation(ctx context.Context, id string, allocated decimal.Decimal) (*models.Budget, error) {
	f.allocation = allocated
	return f.Get(ctx, id)
}

func (f *fakeBudgetSvc) ListTransactions(context.Context, string) ([]*models.Transaction, error) {
	return []*models.Transaction{{TransactionID: "tx-1", Amount: 1200, Direction: models.DirectionOut}}, nil
}

func (f *fakeBudgetSvc) Assign(_ context.Context, budgetID, txID string, month, year int) error {
	f.assignIn.budgetID, f.assignIn.txID = budgetID, txID
	f.assignIn.month, f.assignIn.year = month, year
	return f.assignErr
}

func (f *fakeBudgetSvc) Unassign(_ context.Context, budgetID *string, txID string) (bool, error) {
	f.gotUnassignBudget, f.gotUnassignTx = budgetID, txID
	return f.unassignResult, nil
}

func (f *fakeBudgetSvc) CopyFromPrevious(_ context.Context, month int, year *int) (dto.CopyResult, error) {
	f.copyIn.month, f.copyIn.year = month, year
	return dto.CopyResult{Created: []string{"b-copy"}}, nil
}

type fakeBudgetTagSvc struct {
	linked map[string]bool
}

func (f *fakeBudgetTagSvc) AssignToBudget(_ context.Context, budgetID, tagID string) error {
	if f.linked == nil {
		f.linked = map[string]bool{}
	}
	f.linked[budgetID+"/"+tagID] = true
	return nil
}

func (f *fakeBudgetTagSvc) UnassignFromBudget(_ context.Context, budgetID, tagID string) (bool, error) {
	k := budgetID + "/" + tagID
	was := f.linked[k]
	delete(f.linked, k)
	return was, nil
}

func (f *fakeBudgetTagSvc) ListForBudget(_ context.Context, budgetID string) ([]*models.Tag, error) {
	return []*models.Tag{{TagID: "t-1", Name: "Essentials"}}, nil
}

type budgetRig struct {
	budgets *fakeBudgetSvc
	tags    *fakeBudgetTagSvc
	manual  *fakeManualEntrySvc
	routes  http.Handler
}

func newBudgetRig() *budgetRig {
	rig := &budgetRig{
		budgets: &fakeBudgetSvc{budgets: map[string]*models.Budget{
			"b-1": {BudgetID: "b-1", Name: "Food", AmountAllocated: 50000, AmountSpent: 1500},
		}},
		tags:   &fakeBudgetTagSvc{},
		manual: &fakeManualEntrySvc{},
	}
	deps := newTestDeps()
	deps.BudgetSvc = rig.budgets
	deps.BudgetTagSvc = rig.tags
	deps.ManualEntrySvc = rig.manual
	rig.routes = NewBudgetHandlers(deps).BudgetRoutes()
	return rig
}

func TestListBudgetsHandler(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodGet, "/?month=0&year=2025", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	page := decodeData[dto.BudgetPage](t, rr)
	if page.Period.Month != 12 || page.Period.Year != 2024 {
		t.Fatalf("unexpected period: %+v", page.Period)
	}
	if len(page.Budgets) != 1 || page.Budgets[0].Remaining != "485.00" {
		t.Fatalf("unexpected budgets: %+v", page.Budgets)
	}
}

func TestCreateBudgetHandler(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodPost, "/", strings.NewReader(`{"name":"Rent","amountAllocated":"1200.50","level":"HIGH"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if rig.budgets.created.Name != "Rent" || rig.budgets.created.Level != models.LevelHigh {
		t.Fatalf("service received %+v", rig.budgets.created)
	}
	if got := decodeData[dto.BudgetView](t, rr); got.AmountAllocated != "1200.50" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestCreateBudgetHandlerCalendarDate(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodPost, "/", strings.NewReader(`{"name":"Rent","amountAllocated":"900","createdAt":"2025-05-01"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if want := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC); !rig.budgets.created.CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt = %v, want %v", rig.budgets.created.CreatedAt.Time, want)
	}
}

func TestCopyBudgetsHandler(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodPost, "/copy", strings.NewReader(`{"month":1,"year":2025}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if rig.budgets.copyIn.month != 1 || rig.budgets.copyIn.year == nil || *rig.budgets.copyIn.year != 2025 {
		t.Fatalf("copy called with %+v", rig.budgets.copyIn)
	}

	rr = serve(rig.routes, http.MethodPost, "/copy", strings.NewReader(`{"month":3}`))
	if rr.Code != http.StatusOK || rig.budgets.copyIn.year != nil {
		t.Fatalf("copy without year: status = %d, year=%v", rr.Code, rig.budgets.copyIn.year)
	}
}

func TestBudgetCRUDHandlers(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodGet, "/b-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	rr = serve(rig.routes, http.MethodPut, "/b-1/name", strings.NewReader(`{"name":"Groceries"}`))
	if got := decodeData[dto.BudgetView](t, rr); got.Name != "Groceries" {
		t.Fatalf("rename response: %+v", got)
	}

	rr = serve(rig.routes, http.MethodPut, "/b-1/allocation", strings.NewReader(`{"amountAllocated":"75.25"}`))
	if rr.Code != http.StatusOK || rig.budgets.allocation.String() != "75.25" {
		t.Fatalf("allocation status = %d, got %s", rr.Code, rig.budgets.allocation)
	}

	rr = serve(rig.routes, http.MethodDelete, "/b-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = serve(rig.routes, http.MethodGet, "/b-1", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestAssignTransactionHandler(t *testing.T) {
	rig := newBudgetRig()

	body := `{"transactionId":"tx-1","month":6,"year":2025}`
	rr := serve(rig.routes, http.MethodPost, "/b-1/assignments", strings.NewReader(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	in := rig.budgets.assignIn
	if in.budgetID != "b-1" || in.txID != "tx-1" || in.month != 6 || in.year != 2025 {
		t.Fatalf("assign called with %+v", in)
	}

	rig.budgets.assignErr = errs.NewValidationError("transaction falls outside the selected period")
	rr = serve(rig.routes, http.MethodPost, "/b-1/assignments", strings.NewReader(body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestUnassignTransactionHandler(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodDelete, "/b-1/assignments/tx-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if rig.budgets.gotUnassignBudget == nil || *rig.budgets.gotUnassignBudget != "b-1" || rig.budgets.gotUnassignTx != "tx-1" {
		t.Fatalf("unassign called with %v %q", rig.budgets.gotUnassignBudget, rig.budgets.gotUnassignTx)
	}
	if got := decodeData[map[string]bool](t, rr); got["removed"] {
		t.Fatalf("expected removed=false, got %+v", got)
	}
}

func TestBudgetTransactionsHandlers(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodGet, "/b-1/transactions", nil)
	if got := decodeData[[]dto.TransactionView](t, rr); len(got) != 1 || got[0].Amount != "12.00" {
		t.Fatalf("unexpected transactions: %+v", got)
	}

	body := `{"name":"Groceries","amount":"40","accountId":"acc-1","date":"2025-06-12"}`
	rr = serve(rig.routes, http.MethodPost, "/b-1/transactions", strings.NewReader(body))
	if rr.Code != http.StatusCreated || rig.manual.gotBudgetID != "b-1" {
		t.Fatalf("status = %d, budget=%q", rr.Code, rig.manual.gotBudgetID)
	}
	if want := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC); !rig.manual.got.OccurredAt.Equal(want) {
		t.Fatalf("OccurredAt = %v, want %v", rig.manual.got.OccurredAt.Time, want)
	}
}

func TestBudgetTagHandlers(t *testing.T) {
	rig := newBudgetRig()

	rr := serve(rig.routes, http.MethodPut, "/b-1/tags/t-1", nil)
	if rr.Code != http.StatusOK || !rig.tags.linked["b-1/t-1"] {
		t.Fatalf("status = %d, linked=%v", rr.Code, rig.tags.linked)
	}

	rr = serve(rig.routes, http.MethodGet, "/b-1/tags", nil)
	if got := decodeData[[]models.Tag](t, rr); len(got) != 1 || got[0].Name != "Essentials" {
		t.Fatalf("unexpected tags: %+v", got)
	}

	rr = serve(rig.routes, http.MethodDelete, "/b-1/tags/t-1", nil)
	if got := decodeData[map[string]bool](t, rr); !got["removed"] {
		t.Fatalf("unexpected response: %+v", got)
	}
}
