package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
	"github.com/sakif/bloggers-platform/internal/repository"
	"github.com/sakif/bloggers-platform/internal/validate"
)

// PostService handles posts and the reactions to them.
type PostService struct {
	posts  repository.PostRepository
	blogs  repository.BlogRepository
	users  repository.UserRepository
	likes  *LikeService
	logger *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	blogs repository.BlogRepository,
	users repository.UserRepository,
	likes *LikeService,
	logger *slog.Logger,
) *PostService {
	return &PostService{posts: posts, blogs: blogs, users: users, likes: likes, logger: logger}
}

// List returns a page of posts with likes info for userID (empty for an
// anonymous caller). A BlogID filter naming an unknown blog is NotFound.
func (s *PostService) List(ctx context.Context, filter model.PostFilter, page pagination.PageRequest, userID string) (pagination.PageResult[model.PostView], error) {
	if filter.BlogID != "" {
		if _, err := s.blogs.GetBlog(ctx, filter.BlogID); err != nil {
			return pagination.PageResult[model.PostView]{}, err
		}
	}

	result, err := s.posts.ListPosts(ctx, filter, page)
	if err != nil {
		return pagination.PageResult[model.PostView]{}, err
	}

	ids := make([]string, len(result.Items))
	for i, p := range result.Items {
		ids[i] = p.ID
	}
	infos, err := s.likes.ExtendedLikesInfoBatch(ctx, ids, userID)
	if err != nil {
		return pagination.PageResult[model.PostView]{}, err
	}

	return pagination.Map(result, func(i int, p model.Post) model.PostView {
		return model.PostView{Post: p, ExtendedLikesInfo: infos[i]}
	}), nil
}

func (s *PostService) Get(ctx context.Context, id, userID string) (*model.PostView, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	info, err := s.likes.ExtendedLikesInfo(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &model.PostView{Post: *post, ExtendedLikesInfo: info}, nil
}

// Create adds a post to the blog named in the body. An unknown blog is a
// validation failure on blogId.
func (s *PostService) Create(ctx context.Context, in model.PostInput) (*model.PostView, error) {
	if err := validatePost(in, true); err != nil {
		return nil, err
	}
	blog, err := s.blogExists(ctx, in.BlogID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, blog, in)
}

// CreateForBlog adds a post to the blog named in the URL. An unknown blog
// is NotFound.
func (s *PostService) CreateForBlog(ctx context.Context, blogID string, in model.PostInput) (*model.PostView, error) {
	if err := validatePost(in, false); err != nil {
		return nil, err
	}
	blog, err := s.blogs.GetBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, blog, in)
}

func (s *PostService) create(ctx context.Context, blog *model.Blog, in model.PostInput) (*model.PostView, error) {
	post := &model.Post{
		Title:            strings.TrimSpace(in.Title),
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		Content:          strings.TrimSpace(in.Content),
		BlogID:           blog.ID,
		BlogName:         blog.Name,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("service/posts: creating post: %w", err)
	}

	s.logger.Info("post created", slog.String("id", post.ID), slog.String("blogID", blog.ID))
	return &model.PostView{Post: *post, ExtendedLikesInfo: emptyExtendedLikes()}, nil
}

// Update replaces the post's fields. Moving the post to another blog
// refreshes its copy of the blog name.
func (s *PostService) Update(ctx context.Context, id string, in model.PostInput) error {
	if err := validatePost(in, true); err != nil {
		return err
	}

	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return err
	}
	blog, err := s.blogExists(ctx, in.BlogID)
	if err != nil {
		return err
	}

	in.Patch().Apply(post)
	post.BlogName = blog.Name

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return fmt.Errorf("service/posts: updating post %s: %w", id, err)
	}
	return nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}

// React records userID's reaction to the post.
func (s *PostService) React(ctx context.Context, postID, userID string, status model.LikeStatus) error {
	if !status.Valid() {
		return apperror.ValidationFailed("likeStatus", "likeStatus must be one of: None, Like, Dislike")
	}
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return err
	}
	author, err := currentUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	return s.likes.React(ctx, postID, author, status)
}

// blogExists is the semantic check behind the blogId field.
func (s *PostService) blogExists(ctx context.Context, blogID string) (*model.Blog, error) {
	blog, err := s.blogs.GetBlog(ctx, blogID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.ValidationFailed("blogId", "blog not found")
	}
	return blog, err
}

func validatePost(in model.PostInput, needBlogID bool) error {
	v := new(validate.Validator).
		Required("title", in.Title).
		MaxLen("title", in.Title, validate.PostTitleMax).
		Required("shortDescription", in.ShortDescription).
		MaxLen("shortDescription", in.ShortDescription, validate.PostShortDescriptionMax).
		Required("content", in.Content).
		MaxLen("content", in.Content, validate.PostContentMax)
	if needBlogID {
		v.Required("blogId", in.BlogID)
	}
	return v.Err()
}

func emptyExtendedLikes() model.ExtendedLikesInfo {
	return model.ExtendedLikesInfo{
		LikesInfo:   model.LikesInfo{MyStatus: model.LikeNone},
		NewestLikes: []model.LikeDetails{},
	}
}
