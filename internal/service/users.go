package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/auth"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
	"github.com/sakif/bloggers-platform/internal/repository"
	"github.com/sakif/bloggers-platform/internal/validate"
)

// UserService is the admin side of identities: list, create, delete.
// Users created here skip email confirmation.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{users: users, passwords: passwords, logger: logger}
}

func (s *UserService) List(ctx context.Context, filter model.UserFilter, page pagination.PageRequest) (pagination.PageResult[model.UserView], error) {
	result, err := s.users.ListUsers(ctx, filter, page)
	if err != nil {
		return pagination.PageResult[model.UserView]{}, err
	}
	return pagination.Map(result, func(_ int, u model.User) model.UserView {
		return u.View()
	}), nil
}

// Create adds an already confirmed user.
func (s *UserService) Create(ctx context.Context, in model.UserInput) (*model.UserView, error) {
	in = trimUserInput(in)
	if err := validateNewUser(in); err != nil {
		return nil, err
	}
	if err := loginOrEmailTaken(ctx, s.users, in); err != nil {
		return nil, err
	}

	user, err := newUser(s.passwords, in)
	if err != nil {
		return nil, err
	}
	user.Confirmation.IsConfirmed = true

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/users: creating user: %w", err)
	}

	s.logger.Info("user created", slog.String("id", user.ID), slog.String("login", user.Login))
	view := user.View()
	return &view, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("id", id))
	return nil
}

// =========================================================================
// SHARED BY ADMIN CREATE AND SELF-REGISTRATION
// =========================================================================

func trimUserInput(in model.UserInput) model.UserInput {
	in.Login = strings.TrimSpace(in.Login)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

func validateNewUser(in model.UserInput) error {
	return new(validate.Validator).
		Login("login", in.Login).
		Password("password", in.Password).
		Required("email", in.Email).
		Email("email", in.Email).
		Err()
}

// loginOrEmailTaken reports every field whose value already belongs to
// someone, as a validation failure on that field.
func loginOrEmailTaken(ctx context.Context, users repository.UserRepository, in model.UserInput) error {
	loginTaken, err := users.LoginExists(ctx, in.Login)
	if err != nil {
		return err
	}
	emailTaken, err := users.EmailExists(ctx, in.Email)
	if err != nil {
		return err
	}

	var fields []apperror.FieldError
	if loginTaken {
		fields = append(fields, apperror.FieldError{Field: "login", Message: "login is already taken"})
	}
	if emailTaken {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "email is already taken"})
	}
	return apperror.Invalid(fields...)
}

// newUser builds an unconfirmed user record with hashed credentials.
func newUser(passwords *auth.PasswordService, in model.UserInput) (*model.User, error) {
	creds, err := passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/users: %w", err)
	}
	return &model.User{
		Login:        in.Login,
		Email:        in.Email,
		PasswordHash: creds.Hash,
		PasswordSalt: creds.Salt,
	}, nil
}

// =========================================================================
// SHARED BY EVERY SERVICE THAT ACTS FOR THE CALLER
// =========================================================================

// currentUser loads the authenticated user. A token whose user has been
// deleted no longer authenticates anyone.
func currentUser(ctx context.Context, users repository.UserRepository, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	user, err := users.GetUser(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Unauthorized("user no longer exists")
	}
	return user, err
}
