package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type cardIssuerService interface {
	RecordCardIssuerTransactions(ctx context.Context, txs []dto.CardIssuerTransaction) (dto.RecordResult, error)
}

type webhookHandlers struct {
	ResponseHandler response.ResponseHandler
	CardIssuerSvc   cardIssuerService
}

func NewWebhookHandlers(deps *Deps) *webhookHandlers {
	return &webhookHandlers{
		ResponseHandler: deps.ResponseHandler,
		CardIssuerSvc:   deps.CardIssuerSvc,
	}
}

func (h *webhookHandlers) WebhookRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/card-issuer", h.CardIssuer)
	return r
}

// CardIssuer accepts the device sync payload: a JSON array of transactions.
func (h *webhookHandlers) CardIssuer(w http.ResponseWriter, r *http.Request) {
	var body []dto.CardIssuerTransaction
	if err := decodeBody(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.CardIssuerSvc.RecordCardIssuerTransactions(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
