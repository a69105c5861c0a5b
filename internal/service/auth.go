package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/auth"
	"github.com/sakif/bloggers-platform/internal/mail"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/repository"
	"github.com/sakif/bloggers-platform/internal/validate"
)

// AuthService handles self-service identity: login, registration with
// email confirmation, and password recovery.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                               ↘ TokenService (JWT)
//	                               ↘ Mailer (SMTP)
//
// REGISTRATION STATE MACHINE:
//
//	Register → Unconfirmed{code, expiresAt}
//	Unconfirmed --Confirm(valid unexpired code)--> Confirmed
//	Unconfirmed --ResendConfirmation--> Unconfirmed{new code}
//
// Only confirmed users may log in.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	codes     *auth.CodeIssuer
	mailer    mail.Mailer
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	codes *auth.CodeIssuer,
	mailer mail.Mailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		codes:     codes,
		mailer:    mailer,
		logger:    logger,
	}
}

// Login checks the credentials and returns an access token. Unknown users
// and wrong passwords are indistinguishable (Unauthorized); a correct
// password on an unconfirmed account is a validation failure.
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (string, error) {
	err := new(validate.Validator).
		Required("loginOrEmail", in.LoginOrEmail).
		Required("password", in.Password).
		Err()
	if err != nil {
		return "", err
	}

	user, err := s.users.FindUserByLoginOrEmail(ctx, strings.TrimSpace(in.LoginOrEmail))
	if err != nil {
		return "", err
	}
	if user == nil || !s.passwords.Verify(user.PasswordHash, in.Password) {
		return "", apperror.Unauthorized("wrong login or password")
	}
	if !user.Confirmation.IsConfirmed {
		return "", apperror.ValidationFailed("loginOrEmail", "email is not confirmed")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return token, nil
}

// Register creates an unconfirmed user and mails the confirmation code.
// Nothing is stored and nothing is sent unless both validation phases pass.
func (s *AuthService) Register(ctx context.Context, in model.UserInput) error {
	in = trimUserInput(in)
	if err := validateNewUser(in); err != nil {
		return err
	}
	if err := loginOrEmailTaken(ctx, s.users, in); err != nil {
		return err
	}

	user, err := newUser(s.passwords, in)
	if err != nil {
		return err
	}
	code, expiresAt := s.codes.Confirmation()
	user.Confirmation = model.EmailConfirmation{Code: code, ExpirationDate: expiresAt}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("service/auth: registering user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID), slog.String("login", user.Login))
	s.send(ctx, user.Email, mail.KindRegistration, code)
	return nil
}

// ConfirmRegistration moves the holder of code to Confirmed. Unknown,
// expired and already used codes all fail on the code field without
// changing anything.
func (s *AuthService) ConfirmRegistration(ctx context.Context, in model.ConfirmationInput) error {
	if err := new(validate.Validator).Required("code", in.Code).Err(); err != nil {
		return err
	}

	user, err := s.users.FindUserByConfirmationCode(ctx, strings.TrimSpace(in.Code))
	if err != nil {
		return err
	}
	switch {
	case user == nil:
		return apperror.ValidationFailed("code", "confirmation code is incorrect")
	case user.Confirmation.IsConfirmed:
		return apperror.ValidationFailed("code", "email is already confirmed")
	case s.codes.Now().After(user.Confirmation.ExpirationDate):
		return apperror.ValidationFailed("code", "confirmation code has expired")
	}

	confirmed, err := s.users.ConfirmUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if !confirmed {
		return apperror.ValidationFailed("code", "email is already confirmed")
	}

	s.logger.Info("email confirmed", slog.String("userID", user.ID))
	return nil
}

// ResendConfirmation issues a fresh code to an unconfirmed user. The old
// code stops working.
func (s *AuthService) ResendConfirmation(ctx context.Context, in model.EmailInput) error {
	email := strings.TrimSpace(in.Email)
	if err := new(validate.Validator).Required("email", email).Email("email", email).Err(); err != nil {
		return err
	}

	user, err := s.users.FindUserByLoginOrEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ValidationFailed("email", "no user with this email")
	}
	if user.Confirmation.IsConfirmed {
		return apperror.ValidationFailed("email", "email is already confirmed")
	}

	code, expiresAt := s.codes.Confirmation()
	if err := s.users.SetConfirmationCode(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	s.send(ctx, user.Email, mail.KindRegistration, code)
	return nil
}

// RecoverPassword mails a recovery code. An unknown email succeeds too, so
// the endpoint cannot be used to discover accounts.
func (s *AuthService) RecoverPassword(ctx context.Context, in model.EmailInput) error {
	email := strings.TrimSpace(in.Email)
	if err := new(validate.Validator).Required("email", email).Email("email", email).Err(); err != nil {
		return err
	}

	user, err := s.users.FindUserByLoginOrEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.Debug("password recovery for unknown email")
		return nil
	}

	code, expiresAt := s.codes.Recovery()
	if err := s.users.SetRecoveryCode(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	s.send(ctx, user.Email, mail.KindPasswordRecovery, code)
	return nil
}

// NewPassword sets the password of the recovery code's holder and consumes
// the code.
func (s *AuthService) NewPassword(ctx context.Context, in model.NewPasswordInput) error {
	err := new(validate.Validator).
		Password("newPassword", in.NewPassword).
		Required("recoveryCode", in.RecoveryCode).
		Err()
	if err != nil {
		return err
	}

	code := strings.TrimSpace(in.RecoveryCode)
	user, err := s.users.FindUserByRecoveryCode(ctx, code)
	if err != nil {
		return err
	}
	if user == nil || user.Recovery == nil || s.codes.Now().After(user.Recovery.ExpiresAt) {
		return apperror.ValidationFailed("recoveryCode", "recovery code is incorrect or expired")
	}

	creds, err := s.passwords.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("service/auth: %w", err)
	}
	reset, err := s.users.ResetPassword(ctx, code, creds.Hash, creds.Salt)
	if err != nil {
		return err
	}
	if !reset {
		return apperror.ValidationFailed("recoveryCode", "recovery code is incorrect or expired")
	}

	s.logger.Info("password reset", slog.String("userID", user.ID))
	return nil
}

// Me describes the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.MeView, error) {
	user, err := currentUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	return &model.MeView{UserID: user.ID, Login: user.Login, Email: user.Email}, nil
}

// send delivers a mail and logs a failure instead of returning it.
func (s *AuthService) send(ctx context.Context, to string, kind mail.Kind, code string) {
	if err := s.mailer.Send(ctx, to, kind, mail.Payload{Code: code}); err != nil {
		s.logger.Error("sending mail failed",
			slog.String("kind", string(kind)),
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
	}
}
