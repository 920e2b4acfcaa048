package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/period"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type budgetService interface {
	Create(ctx context.Context, in dto.NewBudget) (*models.Budget, error)
	Get(ctx context.Context, budgetID string) (*models.Budget, error)
	List(ctx context.Context, month, year *int) ([]*models.Budget, period.Context, error)
	Delete(ctx context.Context, budgetID string) error
	Rename(ctx context.Context, budgetID, name string) (*models.Budget, error)
	ChangeAllocation(ctx context.Context, budgetID string, allocated decimal.Decimal) (*models.Budget, error)
	ListTransactions(ctx context.Context, budgetID string) ([]*models.Transaction, error)
	Assign(ctx context.Context, budgetID, transactionID string, month, year int) error
	Unassign(ctx context.Context, budgetID *string, transactionID string) (bool, error)
	CopyFromPrevious(ctx context.Context, month int, year *int) (dto.CopyResult, error)
}

type budgetTagService interface {
	AssignToBudget(ctx context.Context, budgetID, tagID string) error
	UnassignFromBudget(ctx context.Context, budgetID, tagID string) (bool, error)
	ListForBudget(ctx context.Context, budgetID string) ([]*models.Tag, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       budgetService
	BudgetTagSvc    budgetTagService
	ManualEntrySvc  manualEntryService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
		BudgetTagSvc:    deps.BudgetTagSvc,
		ManualEntrySvc:  deps.ManualEntrySvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBudgets)
	r.Post("/", h.CreateBudget)
	r.Post("/copy", h.CopyBudgets) // must be before /{budgetId}
	r.Route("/{budgetId}", func(r chi.Router) {
		r.Get("/", h.GetBudget)
		r.Delete("/", h.DeleteBudget)
		r.Put("/name", h.RenameBudget)
		r.Put("/allocation", h.ChangeAllocation)
		r.Get("/transactions", h.ListBudgetTransactions)
		r.Post("/transactions", h.RecordBudgetTransaction)
		r.Post("/assignments", h.AssignTransaction)
		r.Delete("/assignments/{transactionId}", h.UnassignTransaction)
		r.Get("/tags", h.ListBudgetTags)
		r.Put("/tags/{tagId}", h.AddBudgetTag)
		r.Delete("/tags/{tagId}", h.RemoveBudgetTag)
	})
	return r
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYear(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	budgets, p, err := h.BudgetSvc.List(r.Context(), month, year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.BudgetPage{
		Period:  p,
		Budgets: dto.NewBudgetViews(budgets),
	})
}

func (h *budgetHandlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.NewBudget
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	budget, err := h.BudgetSvc.Create(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewBudgetView(*budget))
}

func (h *budgetHandlers) CopyBudgets(w http.ResponseWriter, r *http.Request) {
	var req dto.CopyBudgets
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.BudgetSvc.CopyFromPrevious(r.Context(), req.Month, req.Year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *budgetHandlers) GetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.BudgetSvc.Get(r.Context(), chi.URLParam(r, "budgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetView(*budget))
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.BudgetSvc.Delete(r.Context(), chi.URLParam(r, "budgetId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *budgetHandlers) RenameBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.RenameBudget
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	budget, err := h.BudgetSvc.Rename(r.Context(), chi.URLParam(r, "budgetId"), req.Name)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetView(*budget))
}

func (h *budgetHandlers) ChangeAllocation(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeAllocation
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	budget, err := h.BudgetSvc.ChangeAllocation(r.Context(), chi.URLParam(r, "budgetId"), req.AmountAllocated)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewBudgetView(*budget))
}

func (h *budgetHandlers) ListBudgetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.BudgetSvc.ListTransactions(r.Context(), chi.URLParam(r, "budgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewTransactionViews(txs))
}

func (h *budgetHandlers) RecordBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.NewTransaction
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	id, err := h.ManualEntrySvc.RecordBudgetTransaction(r.Context(), chi.URLParam(r, "budgetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, map[string]string{"transactionId": id})
}

func (h *budgetHandlers) AssignTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignTransaction
	if err := decodeBody(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	budgetID := chi.URLParam(r, "budgetId")
	if err := h.BudgetSvc.Assign(r.Context(), budgetID, req.TransactionID, req.Month, req.Year); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *budgetHandlers) UnassignTransaction(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "budgetId")
	removed, err := h.BudgetSvc.Unassign(r.Context(), &budgetID, chi.URLParam(r, "transactionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *budgetHandlers) ListBudgetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.BudgetTagSvc.ListForBudget(r.Context(), chi.URLParam(r, "budgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tags)
}

func (h *budgetHandlers) AddBudgetTag(w http.ResponseWriter, r *http.Request) {
	err := h.BudgetTagSvc.AssignToBudget(r.Context(), chi.URLParam(r, "budgetId"), chi.URLParam(r, "tagId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *budgetHandlers) RemoveBudgetTag(w http.ResponseWriter, r *http.Request) {
	removed, err := h.BudgetTagSvc.UnassignFromBudget(r.Context(), chi.URLParam(r, "budgetId"), chi.URLParam(r, "tagId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]bool{"removed": removed})
}
