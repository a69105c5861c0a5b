package service

import (
	"context"
	"testing"

	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// =========================================================================
// MAINTENANCE TESTS
// =========================================================================

func TestDeleteAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustPost(t, env.mustBlog(t))
	env.mustUser(t, "alice")

	svc := NewMaintenanceService(env.store, env.likes.logger)
	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}

	page, _ := env.blogs.List(ctx, model.BlogFilter{}, pagination.PageRequest{})
	if page.TotalCount != 0 {
		t.Errorf("blogs left: %d", page.TotalCount)
	}
	users, _ := env.users.List(ctx, model.UserFilter{}, pagination.PageRequest{})
	if users.TotalCount != 0 {
		t.Errorf("users left: %d", users.TotalCount)
	}
}
