package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type analyticsService interface {
	SpendSummary(ctx context.Context, month, year *int, groupBy string) (dto.SpendSummary, error)
}

type analyticsHandlers struct {
	ResponseHandler response.ResponseHandler
	AnalyticsSvc    analyticsService
}

func NewAnalyticsHandlers(deps *Deps) *analyticsHandlers {
	return &analyticsHandlers{
		ResponseHandler: deps.ResponseHandler,
		AnalyticsSvc:    deps.AnalyticsSvc,
	}
}

func (h *analyticsHandlers) AnalyticsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/spend", h.SpendSummary)
	return r
}

func (h *analyticsHandlers) SpendSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYear(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.AnalyticsSvc.SpendSummary(r.Context(), month, year, r.URL.Query().Get("groupBy"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}
