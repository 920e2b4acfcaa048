package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/period"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type transactionService interface {
	List(ctx context.Context, month, year *int) ([]*models.Transaction, period.Context, error)
	Get(ctx context.Context, transactionID string) (*models.Transaction, error)
	UpdateNote(ctx context.Context, transactionID, note string) error
	Delete(ctx context.Context, transactionID string) error
}

type manualEntryService interface {
	RecordManualTransaction(ctx context.Context, in dto.NewTransaction) (string, error)
	RecordBudgetTransaction(ctx context.Context, budgetID string, in dto.NewTransaction) (string, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
	ManualEntrySvc  manualEntryService
	BudgetSvc       budgetService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
		ManualEntrySvc:  deps.ManualEntrySvc,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	r.Post("/", h.CreateTransaction)
	r.Get("/{transactionId}", h.GetTransaction)
	r.Put("/{transactionId}/note", h.UpdateNote)
	r.Delete("/{transactionId}/budget", h.UnassignBudget)
	r.Delete("/{transactionId}", h.DeleteTransaction)
	return r
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYear(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	txs, p, err := h.TransactionSvc.List(r.Context(), month, year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.TransactionPage{
		Period:       p,
		Transactions: dto.NewTransactionViews(txs),
	})
}

func (h *transactionHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.NewTransaction
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	id, err := h.ManualEntrySvc.RecordManualTransaction(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, map[string]string{"transactionId": id})
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.TransactionSvc.Get(r.Context(), chi.URLParam(r, "transactionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTransactionView(*tx))
}

func (h *transactionHandlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateNote
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	if err := h.TransactionSvc.UpdateNote(r.Context(), chi.URLParam(r, "transactionId"), req.Note); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// UnassignBudget drops whichever budget the transaction is linked to.
func (h *transactionHandlers) UnassignBudget(w http.ResponseWriter, r *http.Request) {
	removed, err := h.BudgetSvc.Unassign(r.Context(), nil, chi.URLParam(r, "transactionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.TransactionSvc.Delete(r.Context(), chi.URLParam(r, "transactionId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
