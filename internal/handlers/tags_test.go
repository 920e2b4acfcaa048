package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type fakeTagSvc struct {
	tags     []*models.Tag
	query    string
	renamed  map[string]string
	deleted  []string
	listHits int
}

func (f *fakeTagSvc) Create(_ context.Context, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValidationError("tag name is required")
	}
	t := &models.Tag{TagID: "t-new", Name: name}
	f.tags = append(f.tags, t)
	return t, nil
}

func (f *fakeTagSvc) List(context.Context) ([]*models.Tag, error) {
	f.listHits++
	return f.tags, nil
}

func (f *fakeTagSvc) Search(_ context.Context, query string) ([]*models.Tag, error) {
	f.query = query
	return f.tags[:1], nil
}

func (f *fakeTagSvc) Rename(_ context.Context, id, name string) error {
	if f.renamed == nil {
		f.renamed = map[string]string{}
	}
	f.renamed[id] = name
	return nil
}

func (f *fakeTagSvc) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestTagHandlers(t *testing.T) {
	svc := &fakeTagSvc{tags: []*models.Tag{{TagID: "t-1", Name: "Groceries"}, {TagID: "t-2", Name: "Travel"}}}
	deps := newTestDeps()
	deps.TagSvc = svc
	routes := NewTagHandlers(deps).TagRoutes()

	rr := serve(routes, http.MethodGet, "/", nil)
	if got := decodeData[[]models.Tag](t, rr); len(got) != 2 || svc.listHits != 1 {
		t.Fatalf("unexpected list: %+v", got)
	}

	rr = serve(routes, http.MethodGet, "/?q=groc", nil)
	if got := decodeData[[]models.Tag](t, rr); len(got) != 1 || svc.query != "groc" {
		t.Fatalf("unexpected search: %+v query=%q", got, svc.query)
	}

	rr = serve(routes, http.MethodPost, "/", strings.NewReader(`{"name":"Bills"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}
	rr = serve(routes, http.MethodPost, "/", strings.NewReader(`{"name":""}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank create status = %d, want 400", rr.Code)
	}

	rr = serve(routes, http.MethodPut, "/t-2", strings.NewReader(`{"name":"Holidays"}`))
	if rr.Code != http.StatusOK || svc.renamed["t-2"] != "Holidays" {
		t.Fatalf("rename status = %d, renamed=%v", rr.Code, svc.renamed)
	}

	rr = serve(routes, http.MethodDelete, "/t-2", nil)
	if rr.Code != http.StatusOK || len(svc.deleted) != 1 {
		t.Fatalf("delete status = %d, deleted=%v", rr.Code, svc.deleted)
	}
}
