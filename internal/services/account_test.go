package services

import (
	"errors"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

func TestAccountServiceDeleteCascades(t *testing.T) {
	f := newFixture()
	ctx := helpers.TestCtx()
	svc := NewAccountService(f.accounts, f.txs, f.budgets, f.budgetSvc)

	f.db.accounts["acc-1"] = &models.Account{AccountID: "acc-1", Name: "Card"}
	f.db.accounts["acc-2"] = &models.Account{AccountID: "acc-2", Name: "Cash"}
	budgetID := f.addBudget("Food", 10000, june(1))
	gone := f.addTx("acc-1", "Grocer", 700, models.DirectionOut, june(2))
	kept := f.addTx("acc-2", "Market", 300, models.DirectionOut, june(3))
	for _, id := range []string{gone, kept} {
		if err := f.budgetSvc.Assign(ctx, budgetID, id, 6, 2025); err != nil {
			t.Fatalf("Assign returned error: %v", err)
		}
	}

	if err := svc.Delete(ctx, "acc-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := f.db.txs[gone]; ok {
		t.Fatalf("account transactions survived delete")
	}
	if got := f.db.budgets[budgetID].AmountSpent; got != 300 {
		t.Fatalf("AmountSpent = %d, want 300", got)
	}

	accounts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountID != "acc-2" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestAccountServiceDeleteMissing(t *testing.T) {
	f := newFixture()
	svc := NewAccountService(f.accounts, f.txs, f.budgets, f.budgetSvc)

	var notFound *errs.NotFoundError
	if err := svc.Delete(helpers.TestCtx(), "missing"); !errors.As(err, &notFound) {
		t.Fatalf("Delete error = %v, want NotFoundError", err)
	}
}
