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

// CommentService is the part of service.CommentService the handler calls.
type CommentService interface {
	ListForPost(ctx context.Context, postID string, page pagination.PageRequest, userID string) (pagination.PageResult[model.CommentView], error)
	Get(ctx context.Context, id, userID string) (*model.CommentView, error)
	Create(ctx context.Context, postID, userID string, in model.CommentInput) (*model.CommentView, error)
	Update(ctx context.Context, id, userID string, in model.CommentInput) error
	Delete(ctx context.Context, id, userID string) error
	React(ctx context.Context, commentID, userID string, status model.LikeStatus) error
}

// CommentHandler serves /comments and /posts/{postId}/comments.
//
// Writes need a bearer token; editing or deleting someone else's comment
// answers 403.
type CommentHandler struct {
	comments CommentService
	logger   *slog.Logger
}

func NewCommentHandler(comments CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// HandleListForPost returns one page of a post's comments.
//
// HTTP: GET /posts/{postId}/comments
func (h *CommentHandler) HandleListForPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	page, err := h.comments.ListForPost(r.Context(), chi.URLParam(r, "postId"), pagination.FromRequest(r), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleCreateForPost adds the caller's comment to a post.
//
// HTTP: POST /posts/{postId}/comments
// REQUEST BODY: {"content": "at least twenty characters"}
func (h *CommentHandler) HandleCreateForPost(w http.ResponseWriter, r *http.Request) {
	var in model.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	comment, err := h.comments.Create(r.Context(), chi.URLParam(r, "postId"), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// HandleGet returns one comment.
//
// HTTP: GET /comments/{id}
func (h *CommentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	comment, err := h.comments.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleUpdate edits the caller's own comment.
//
// HTTP: PUT /comments/{id}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.comments.Update(r.Context(), chi.URLParam(r, "id"), userID, in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes the caller's own comment.
//
// HTTP: DELETE /comments/{id}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.comments.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLikeStatus sets the caller's reaction to a comment.
//
// HTTP: PUT /comments/{id}/like-status
func (h *CommentHandler) HandleLikeStatus(w http.ResponseWriter, r *http.Request) {
	var in model.LikeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.comments.React(r.Context(), chi.URLParam(r, "id"), userID, in.LikeStatus); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
