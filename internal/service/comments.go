package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
	"github.com/sakif/bloggers-platform/internal/repository"
	"github.com/sakif/bloggers-platform/internal/validate"
)

// CommentService handles comments on posts. Only the author of a comment
// may edit or delete it.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	likes    *LikeService
	logger   *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	likes *LikeService,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, likes: likes, logger: logger}
}

// ListForPost returns a page of the post's comments. An unknown post is
// NotFound rather than an empty page.
func (s *CommentService) ListForPost(ctx context.Context, postID string, page pagination.PageRequest, userID string) (pagination.PageResult[model.CommentView], error) {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return pagination.PageResult[model.CommentView]{}, err
	}

	result, err := s.comments.ListComments(ctx, postID, page)
	if err != nil {
		return pagination.PageResult[model.CommentView]{}, err
	}

	ids := make([]string, len(result.Items))
	for i, c := range result.Items {
		ids[i] = c.ID
	}
	infos, err := s.likes.LikesInfoBatch(ctx, ids, userID)
	if err != nil {
		return pagination.PageResult[model.CommentView]{}, err
	}

	return pagination.Map(result, func(i int, c model.Comment) model.CommentView {
		return model.CommentView{Comment: c, LikesInfo: infos[i]}
	}), nil
}

func (s *CommentService) Get(ctx context.Context, id, userID string) (*model.CommentView, error) {
	comment, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	info, err := s.likes.LikesInfo(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &model.CommentView{Comment: *comment, LikesInfo: info}, nil
}

// Create adds userID's comment to the post.
func (s *CommentService) Create(ctx context.Context, postID, userID string, in model.CommentInput) (*model.CommentView, error) {
	if err := validateComment(in); err != nil {
		return nil, err
	}
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	author, err := currentUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:          postID,
		Content:         strings.TrimSpace(in.Content),
		CommentatorInfo: model.CommentatorInfo{UserID: author.ID, UserLogin: author.Login},
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("service/comments: creating comment: %w", err)
	}

	s.logger.Info("comment created", slog.String("id", comment.ID), slog.String("postID", postID))
	return &model.CommentView{
		Comment:   *comment,
		LikesInfo: model.LikesInfo{MyStatus: model.LikeNone},
	}, nil
}

// Update changes the content of userID's own comment. Sending the content
// it already has succeeds without writing.
func (s *CommentService) Update(ctx context.Context, id, userID string, in model.CommentInput) error {
	if err := validateComment(in); err != nil {
		return err
	}

	comment, err := s.ownComment(ctx, id, userID)
	if err != nil {
		return err
	}

	content := strings.TrimSpace(in.Content)
	if comment.Content == content {
		return nil
	}
	if err := s.comments.UpdateCommentContent(ctx, id, content); err != nil {
		return fmt.Errorf("service/comments: updating comment %s: %w", id, err)
	}
	return nil
}

func (s *CommentService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.ownComment(ctx, id, userID); err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("comment deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// React records userID's reaction to the comment.
func (s *CommentService) React(ctx context.Context, commentID, userID string, status model.LikeStatus) error {
	if !status.Valid() {
		return apperror.ValidationFailed("likeStatus", "likeStatus must be one of: None, Like, Dislike")
	}
	if _, err := s.comments.GetComment(ctx, commentID); err != nil {
		return err
	}
	author, err := currentUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	return s.likes.React(ctx, commentID, author, status)
}

// ownComment loads the comment and checks that userID wrote it.
func (s *CommentService) ownComment(ctx context.Context, id, userID string) (*model.Comment, error) {
	comment, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.CommentatorInfo.UserID != userID {
		return nil, apperror.Forbidden("comment belongs to another user")
	}
	return comment, nil
}

func validateComment(in model.CommentInput) error {
	return new(validate.Validator).
		Required("content", in.Content).
		Length("content", in.Content, validate.CommentContentMin, validate.CommentContentMax).
		Err()
}
