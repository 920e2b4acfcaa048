package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type accountService interface {
	List(ctx context.Context) ([]*models.Account, error)
	Delete(ctx context.Context, accountID string) error
}

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      accountService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAccounts)
	r.Delete("/{accountId}", h.DeleteAccount)
	return r
}

func (h *accountHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountSvc.List(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	views := make([]dto.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, dto.NewAccountView(*a))
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, views)
}

func (h *accountHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	if err := h.AccountSvc.Delete(r.Context(), accountID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
