package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bloggers-platform/internal/auth"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// PostService is the part of service.PostService the handler calls.
type PostService interface {
	List(ctx context.Context, filter model.PostFilter, page pagination.PageRequest, userID string) (pagination.PageResult[model.PostView], error)
	Get(ctx context.Context, id, userID string) (*model.PostView, error)
	Create(ctx context.Context, in model.PostInput) (*model.PostView, error)
	CreateForBlog(ctx context.Context, blogID string, in model.PostInput) (*model.PostView, error)
	Update(ctx context.Context, id string, in model.PostInput) error
	Delete(ctx context.Context, id string) error
	React(ctx context.Context, postID, userID string, status model.LikeStatus) error
}

// PostHandler serves /posts and the posts nested under /blogs/{blogId}.
//
// Reads run behind OptionalAuth: an anonymous caller sees myStatus "None",
// a signed-in caller sees their own reaction.
type PostHandler struct {
	posts  PostService
	logger *slog.Logger
}

func NewPostHandler(posts PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// HandleList returns one page of posts across all blogs.
//
// HTTP: GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.PostFilter{})
}

// HandleListForBlog returns one page of a blog's posts, 404 if the blog
// does not exist.
//
// HTTP: GET /blogs/{blogId}/posts
func (h *PostHandler) HandleListForBlog(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.PostFilter{BlogID: chi.URLParam(r, "blogId")})
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request, filter model.PostFilter) {
	userID, _ := auth.UserIDFromContext(r.Context())
	page, err := h.posts.List(r.Context(), filter, pagination.FromRequest(r), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGet returns one post with its extended likes info.
//
// HTTP: GET /posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleCreate adds a post to the blog named in the body. An unknown blogId
// is a validation failure, not a 404.
//
// HTTP: POST /posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := h.posts.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleCreateForBlog adds a post to the blog in the path.
//
// HTTP: POST /blogs/{blogId}/posts
func (h *PostHandler) HandleCreateForBlog(w http.ResponseWriter, r *http.Request) {
	var in model.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := h.posts.CreateForBlog(r.Context(), chi.URLParam(r, "blogId"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate replaces a post's editable fields.
//
// HTTP: PUT /posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.posts.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a post.
//
// HTTP: DELETE /posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLikeStatus sets the caller's reaction to a post.
//
// HTTP: PUT /posts/{postId}/like-status
// REQUEST BODY: {"likeStatus": "Like" | "Dislike" | "None"}
func (h *PostHandler) HandleLikeStatus(w http.ResponseWriter, r *http.Request) {
	var in model.LikeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.posts.React(r.Context(), chi.URLParam(r, "postId"), userID, in.LikeStatus); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
