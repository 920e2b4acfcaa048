package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type aggregatorService interface {
	CreateLinkToken(ctx context.Context) (string, error)
	LinkNewConnection(ctx context.Context, publicToken string) (dto.LinkResult, error)
	SyncFromAggregator(ctx context.Context) (dto.SyncResult, error)
}

type plaidHandlers struct {
	ResponseHandler response.ResponseHandler
	AggregatorSvc   aggregatorService
}

func NewPlaidHandlers(deps *Deps) *plaidHandlers {
	return &plaidHandlers{
		ResponseHandler: deps.ResponseHandler,
		AggregatorSvc:   deps.AggregatorSvc,
	}
}

func (h *plaidHandlers) PlaidRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/link-token", h.CreateLinkToken)
	r.Post("/connections", h.LinkConnection)
	r.Post("/sync", h.Sync)
	return r
}

func (h *plaidHandlers) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	linkToken, err := h.AggregatorSvc.CreateLinkToken(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"linkToken": linkToken})
}

func (h *plaidHandlers) LinkConnection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PublicToken string `json:"publicToken"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.AggregatorSvc.LinkNewConnection(r.Context(), body.PublicToken)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	h.ResponseHandler.WriteSuccess(w, r, status, result)
}

func (h *plaidHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.AggregatorSvc.SyncFromAggregator(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
