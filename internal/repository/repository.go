// Package repository declares the storage interfaces the services depend on.
//
// Conventions shared by every implementation:
//   - a missing record is reported as apperror.ErrNotFound
//   - a storage failure is reported as apperror.ErrUnavailable
//   - list methods return the exact filtered total alongside the page
package repository

import (
	"context"
	"time"

	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *model.Blog) error
	GetBlog(ctx context.Context, id string) (*model.Blog, error)
	ListBlogs(ctx context.Context, filter model.BlogFilter, page pagination.PageRequest) (pagination.PageResult[model.Blog], error)
	UpdateBlog(ctx context.Context, blog *model.Blog) error
	DeleteBlog(ctx context.Context, id string) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, filter model.PostFilter, page pagination.PageRequest) (pagination.PageResult[model.Post], error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string, page pagination.PageRequest) (pagination.PageResult[model.Comment], error)
	UpdateCommentContent(ctx context.Context, id, content string) error
	DeleteComment(ctx context.Context, id string) error
}

// UserRepository stores identities. The Find* methods return (nil, nil)
// when nothing matches, since "no such user" is an expected answer for
// them rather than an error.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, filter model.UserFilter, page pagination.PageRequest) (pagination.PageResult[model.User], error)
	DeleteUser(ctx context.Context, id string) error

	FindUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*model.User, error)
	FindUserByConfirmationCode(ctx context.Context, code string) (*model.User, error)
	FindUserByRecoveryCode(ctx context.Context, code string) (*model.User, error)
	LoginExists(ctx context.Context, login string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// ConfirmUser flips an unconfirmed user to confirmed. It reports false
	// when the user was already confirmed, so two concurrent confirmations
	// cannot both succeed.
	ConfirmUser(ctx context.Context, id string) (bool, error)
	SetConfirmationCode(ctx context.Context, id, code string, expiresAt time.Time) error
	SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error
	// ResetPassword replaces the credentials of the user holding the
	// recovery code and consumes the code. It reports false when no user
	// holds it (already used or never issued).
	ResetPassword(ctx context.Context, recoveryCode, hash, salt string) (bool, error)
}

// ReactionRepository stores at most one reaction per (source, author).
type ReactionRepository interface {
	// UpsertReaction creates or replaces the author's reaction atomically.
	UpsertReaction(ctx context.Context, r *model.Reaction) error
	// ClearReaction sets an existing reaction to None. No row, no change.
	ClearReaction(ctx context.Context, sourceID, authorID string) error
	GetReaction(ctx context.Context, sourceID, authorID string) (*model.Reaction, error)
	CountReactions(ctx context.Context, sourceID string) (model.LikeCounts, error)
	NewestLikes(ctx context.Context, sourceID string, limit int) ([]model.Reaction, error)
}

type VideoRepository interface {
	CreateVideo(ctx context.Context, video *model.Video) error
	GetVideo(ctx context.Context, id int64) (*model.Video, error)
	ListVideos(ctx context.Context) ([]model.Video, error)
	UpdateVideo(ctx context.Context, video *model.Video) error
	DeleteVideo(ctx context.Context, id int64) error
}

// Wiper clears every table. Only the testing route uses it.
type Wiper interface {
	DeleteAll(ctx context.Context) error
}
