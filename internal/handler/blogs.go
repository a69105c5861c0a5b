package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// BlogService is the part of service.BlogService the handler calls.
type BlogService interface {
	List(ctx context.Context, filter model.BlogFilter, page pagination.PageRequest) (pagination.PageResult[model.Blog], error)
	Get(ctx context.Context, id string) (*model.Blog, error)
	Create(ctx context.Context, in model.BlogInput) (*model.Blog, error)
	Update(ctx context.Context, id string, in model.BlogInput) error
	Delete(ctx context.Context, id string) error
}

// BlogHandler serves /blogs. Reads are public; writes sit behind the admin
// gate mounted by the router.
type BlogHandler struct {
	blogs  BlogService
	logger *slog.Logger
}

func NewBlogHandler(blogs BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blogs: blogs, logger: logger}
}

// HandleList returns one page of blogs.
//
// HTTP: GET /blogs?searchNameTerm=go&sortBy=name&sortDirection=asc&pageNumber=1&pageSize=10
func (h *BlogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := model.BlogFilter{SearchNameTerm: r.URL.Query().Get("searchNameTerm")}
	page, err := h.blogs.List(r.Context(), filter, pagination.FromRequest(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGet returns one blog.
//
// HTTP: GET /blogs/{id}
func (h *BlogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// HandleCreate adds a blog.
//
// HTTP: POST /blogs
// REQUEST BODY: {"name": "...", "description": "...", "websiteUrl": "https://..."}
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	blog, err := h.blogs.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

// HandleUpdate replaces a blog's editable fields.
//
// HTTP: PUT /blogs/{id}
func (h *BlogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.blogs.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a blog and, through the storage cascade, its posts.
//
// HTTP: DELETE /blogs/{id}
func (h *BlogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.blogs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
