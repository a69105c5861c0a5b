package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// UserService is the part of service.UserService the handler calls.
type UserService interface {
	List(ctx context.Context, filter model.UserFilter, page pagination.PageRequest) (pagination.PageResult[model.UserView], error)
	Create(ctx context.Context, in model.UserInput) (*model.UserView, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler serves the admin-only /users routes.
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleList returns users whose login or email matches either term.
//
// HTTP: GET /users?searchLoginTerm=al&searchEmailTerm=mail&sortBy=login
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.UserFilter{
		SearchLoginTerm: q.Get("searchLoginTerm"),
		SearchEmailTerm: q.Get("searchEmailTerm"),
	}
	page, err := h.users.List(r.Context(), filter, pagination.FromRequest(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleCreate adds an already confirmed user.
//
// HTTP: POST /users
// REQUEST BODY: {"login": "alice", "password": "secret123", "email": "alice@mail.com"}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleDelete removes a user.
//
// HTTP: DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
