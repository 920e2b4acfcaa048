package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

const maxImportBytes = 10 << 20

type importService interface {
	ImportFromDelimitedFile(ctx context.Context, r io.Reader) (dto.ImportResult, error)
}

type importHandlers struct {
	ResponseHandler response.ResponseHandler
	ImportSvc       importService
}

func NewImportHandlers(deps *Deps) *importHandlers {
	return &importHandlers{
		ResponseHandler: deps.ResponseHandler,
		ImportSvc:       deps.ImportSvc,
	}
}

func (h *importHandlers) ImportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Import)
	return r
}

// Import takes either a multipart upload in the "file" field or the raw file
// as the request body.
func (h *importHandlers) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("multipart upload needs a file field"))
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.ImportSvc.ImportFromDelimitedFile(r.Context(), src)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
