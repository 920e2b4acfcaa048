package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
)

type fakeCardIssuerSvc struct {
	got []dto.CardIssuerTransaction
}

func (f *fakeCardIssuerSvc) RecordCardIssuerTransactions(_ context.Context, txs []dto.CardIssuerTransaction) (dto.RecordResult, error) {
	f.got = txs
	return dto.RecordResult{AccountID: "acc-card", Inserted: len(txs)}, nil
}

func TestCardIssuerWebhook(t *testing.T) {
	svc := &fakeCardIssuerSvc{}
	deps := newTestDeps()
	deps.CardIssuerSvc = svc
	routes := NewWebhookHandlers(deps).WebhookRoutes()

	body := `[{"id":"ci-1","account_id":"a","name":"Grocer","amount":"12.34","direction":"OUT","date":"2025-06-02T10:00:00Z"}]`
	rr := serve(routes, http.MethodPost, "/card-issuer", strings.NewReader(body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if len(svc.got) != 1 || svc.got[0].ID != "ci-1" || svc.got[0].Amount.String() != "12.34" {
		t.Fatalf("service received %+v", svc.got)
	}
	if got := decodeData[dto.RecordResult](t, rr); got.Inserted != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestCardIssuerWebhookRejectsObject(t *testing.T) {
	deps := newTestDeps()
	deps.CardIssuerSvc = &fakeCardIssuerSvc{}
	rr := serve(NewWebhookHandlers(deps).WebhookRoutes(), http.MethodPost, "/card-issuer", strings.NewReader(`{"id":"x"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
