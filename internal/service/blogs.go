package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
	"github.com/sakif/bloggers-platform/internal/repository"
	"github.com/sakif/bloggers-platform/internal/validate"
)

// BlogService handles business logic for blogs.
type BlogService struct {
	blogs  repository.BlogRepository
	logger *slog.Logger
}

func NewBlogService(blogs repository.BlogRepository, logger *slog.Logger) *BlogService {
	return &BlogService{blogs: blogs, logger: logger}
}

func (s *BlogService) List(ctx context.Context, filter model.BlogFilter, page pagination.PageRequest) (pagination.PageResult[model.Blog], error) {
	return s.blogs.ListBlogs(ctx, filter, page)
}

func (s *BlogService) Get(ctx context.Context, id string) (*model.Blog, error) {
	return s.blogs.GetBlog(ctx, id)
}

func (s *BlogService) Create(ctx context.Context, in model.BlogInput) (*model.Blog, error) {
	if err := validateBlog(in); err != nil {
		return nil, err
	}

	blog := &model.Blog{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		WebsiteURL:  strings.TrimSpace(in.WebsiteURL),
	}
	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		return nil, fmt.Errorf("service/blogs: creating blog: %w", err)
	}

	s.logger.Info("blog created", slog.String("id", blog.ID), slog.String("name", blog.Name))
	return blog, nil
}

// Update replaces the blog's fields with the input. Validation runs
// before the lookup, so a bad body on a missing blog is a 400.
func (s *BlogService) Update(ctx context.Context, id string, in model.BlogInput) error {
	if err := validateBlog(in); err != nil {
		return err
	}

	blog, err := s.blogs.GetBlog(ctx, id)
	if err != nil {
		return err
	}
	in.Patch().Apply(blog)

	if err := s.blogs.UpdateBlog(ctx, blog); err != nil {
		return fmt.Errorf("service/blogs: updating blog %s: %w", id, err)
	}
	return nil
}

// Delete removes the blog and, through the schema, its posts.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.blogs.DeleteBlog(ctx, id); err != nil {
		return err
	}
	s.logger.Info("blog deleted", slog.String("id", id))
	return nil
}

func validateBlog(in model.BlogInput) error {
	return new(validate.Validator).
		Required("name", in.Name).
		MaxLen("name", in.Name, validate.BlogNameMax).
		Required("description", in.Description).
		MaxLen("description", in.Description, validate.BlogDescriptionMax).
		WebsiteURL("websiteUrl", strings.TrimSpace(in.WebsiteURL)).
		Err()
}
