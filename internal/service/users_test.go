package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// =========================================================================
// USER TESTS
// =========================================================================

func TestUserCreate_IsConfirmed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view := env.mustUser(t, "alice")
	if view.ID == "" || view.Login != "alice" || view.Email != "alice@mail.com" {
		t.Errorf("view = %+v", view)
	}

	stored, _ := env.store.GetUser(ctx, view.ID)
	if !stored.Confirmation.IsConfirmed {
		t.Error("admin-created users skip confirmation")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret123" {
		t.Error("password must be stored hashed")
	}
	if len(env.mailer.sent) != 0 {
		t.Error("admin create sends no mail")
	}
}

func TestUserCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		in    model.UserInput
		field string
	}{
		{"login with space", model.UserInput{Login: "al ice", Password: "secret123", Email: "a@mail.com"}, "login"},
		{"login too long", model.UserInput{Login: "alexandria1", Password: "secret123", Email: "a@mail.com"}, "login"},
		{"short password", model.UserInput{Login: "alice", Password: "12345", Email: "a@mail.com"}, "password"},
		{"bad email", model.UserInput{Login: "alice", Password: "secret123", Email: "alice@"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Create(context.Background(), tt.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if f := fieldsOf(t, err); len(f) != 1 || f[0] != tt.field {
				t.Errorf("fields = %v, want [%s]", f, tt.field)
			}
		})
	}
}

func TestUserList_AndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.mustUser(t, "alice")
	env.mustUser(t, "bob")

	page, err := env.users.List(ctx, model.UserFilter{SearchLoginTerm: "ali"}, pagination.PageRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].ID != alice.ID {
		t.Errorf("page = %+v", page)
	}

	if err := env.users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := env.users.Delete(ctx, alice.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
