package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type fakeAccountSvc struct {
	accounts  []*models.Account
	deletedID string
	deleteErr error
}

func (f *fakeAccountSvc) List(context.Context) ([]*models.Account, error) {
	return f.accounts, nil
}

func (f *fakeAccountSvc) Delete(_ context.Context, accountID string) error {
	f.deletedID = accountID
	return f.deleteErr
}

func TestListAccountsHandler(t *testing.T) {
	svc := &fakeAccountSvc{accounts: []*models.Account{{AccountID: "acc-1", Name: "Card", Type: models.AccountCredit, Balance: 12345}}}
	deps := newTestDeps()
	deps.AccountSvc = svc

	rr := serve(NewAccountHandlers(deps).AccountRoutes(), http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	got := decodeData[[]dto.AccountView](t, rr)
	if len(got) != 1 || got[0].Balance != "123.45" || got[0].Type != models.AccountCredit {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	svc := &fakeAccountSvc{}
	deps := newTestDeps()
	deps.AccountSvc = svc
	routes := NewAccountHandlers(deps).AccountRoutes()

	rr := serve(routes, http.MethodDelete, "/acc-9", nil)
	if rr.Code != http.StatusOK || svc.deletedID != "acc-9" {
		t.Fatalf("status = %d, deleted %q", rr.Code, svc.deletedID)
	}

	svc.deleteErr = errs.NewNotFoundError("account not found")
	rr = serve(routes, http.MethodDelete, "/acc-9", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
