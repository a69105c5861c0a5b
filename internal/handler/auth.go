package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/bloggers-platform/internal/auth"
	"github.com/sakif/bloggers-platform/internal/model"
)

// AuthService is the part of service.AuthService the handler calls.
type AuthService interface {
	Login(ctx context.Context, in model.LoginInput) (string, error)
	Register(ctx context.Context, in model.UserInput) error
	ConfirmRegistration(ctx context.Context, in model.ConfirmationInput) error
	ResendConfirmation(ctx context.Context, in model.EmailInput) error
	RecoverPassword(ctx context.Context, in model.EmailInput) error
	NewPassword(ctx context.Context, in model.NewPasswordInput) error
	Me(ctx context.Context, userID string) (*model.MeView, error)
}

// AuthHandler serves /auth: login, self-registration with email
// confirmation, password recovery and the current user's profile.
//
// HANDLER RESPONSIBILITIES:
//   - HandleLogin            → check credentials, return an access token
//   - HandleRegistration     → create an unconfirmed user, mail the code
//   - HandleConfirmation     → consume a confirmation code
//   - HandleResendEmail      → issue and mail a fresh confirmation code
//   - HandlePasswordRecovery → mail a recovery code (always 204)
//   - HandleNewPassword      → consume a recovery code, set the password
//   - HandleMe               → profile of the bearer token's user
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, logger: logger}
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// HandleLogin issues an access token.
//
// HTTP: POST /auth/login
// REQUEST BODY: {"loginOrEmail": "alice", "password": "secret123"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	token, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

// HandleRegistration creates an unconfirmed user and mails the code.
//
// HTTP: POST /auth/registration
func (h *AuthHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.noContent(w, h.auth.Register(r.Context(), in))
}

// HandleConfirmation confirms the user holding the code.
//
// HTTP: POST /auth/registration-confirmation
// REQUEST BODY: {"code": "..."}
func (h *AuthHandler) HandleConfirmation(w http.ResponseWriter, r *http.Request) {
	var in model.ConfirmationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.noContent(w, h.auth.ConfirmRegistration(r.Context(), in))
}

// HandleResendEmail mails a fresh confirmation code.
//
// HTTP: POST /auth/registration-email-resending
// REQUEST BODY: {"email": "alice@mail.com"}
func (h *AuthHandler) HandleResendEmail(w http.ResponseWriter, r *http.Request) {
	var in model.EmailInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.noContent(w, h.auth.ResendConfirmation(r.Context(), in))
}

// HandlePasswordRecovery mails a recovery code. Unknown addresses get the
// same 204 so the endpoint cannot be used to discover accounts.
//
// HTTP: POST /auth/password-recovery
func (h *AuthHandler) HandlePasswordRecovery(w http.ResponseWriter, r *http.Request) {
	var in model.EmailInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.noContent(w, h.auth.RecoverPassword(r.Context(), in))
}

// HandleNewPassword sets a new password using a recovery code.
//
// HTTP: POST /auth/new-password
// REQUEST BODY: {"newPassword": "...", "recoveryCode": "..."}
func (h *AuthHandler) HandleNewPassword(w http.ResponseWriter, r *http.Request) {
	var in model.NewPasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.noContent(w, h.auth.NewPassword(r.Context(), in))
}

// HandleMe returns the profile behind the bearer token.
//
// HTTP: GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	me, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

func (h *AuthHandler) noContent(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
