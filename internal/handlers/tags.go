package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/response"
)

type tagService interface {
	Create(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Search(ctx context.Context, query string) ([]*models.Tag, error)
	Rename(ctx context.Context, tagID, name string) error
	Delete(ctx context.Context, tagID string) error
}

type tagHandlers struct {
	ResponseHandler response.ResponseHandler
	TagSvc          tagService
}

func NewTagHandlers(deps *Deps) *tagHandlers {
	return &tagHandlers{
		ResponseHandler: deps.ResponseHandler,
		TagSvc:          deps.TagSvc,
	}
}

func (h *tagHandlers) TagRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTags)
	r.Post("/", h.CreateTag)
	r.Put("/{tagId}", h.RenameTag)
	r.Delete("/{tagId}", h.DeleteTag)
	return r
}

// ListTags filters by the q parameter when present.
func (h *tagHandlers) ListTags(w http.ResponseWriter, r *http.Request) {
	var (
		tags []*models.Tag
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		tags, err = h.TagSvc.Search(r.Context(), q)
	} else {
		tags, err = h.TagSvc.List(r.Context())
	}
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tags)
}

func (h *tagHandlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	tag, err := h.TagSvc.Create(r.Context(), body.Name)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tag)
}

func (h *tagHandlers) RenameTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	if err := h.TagSvc.Rename(r.Context(), chi.URLParam(r, "tagId"), body.Name); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *tagHandlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.TagSvc.Delete(r.Context(), chi.URLParam(r, "tagId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
