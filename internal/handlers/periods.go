package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/period"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type periodHandlers struct {
	ResponseHandler response.ResponseHandler
	Clock           func() time.Time
}

func NewPeriodHandlers(deps *Deps) *periodHandlers {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &periodHandlers{
		ResponseHandler: deps.ResponseHandler,
		Clock:           clock,
	}
}

func (h *periodHandlers) PeriodRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ResolvePeriod)
	return r
}

func (h *periodHandlers) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYear(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, period.Resolve(month, year, h.Clock()))
}
