// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, never *sqlite.DB, so tests can hand
// them in-memory fakes. They return apperror values; the handler layer alone
// decides what status code an error becomes.
//
// VALIDATION RUNS IN TWO PHASES:
//  1. Syntactic: a validate.Validator checks the input values alone and
//     reports every bad field at once.
//  2. Semantic: named checks that need storage (blogExists,
//     loginOrEmailTaken, comment ownership) run only when phase 1 passed.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/repository"
)

// NewestLikesLimit is how many recent likes a post view carries.
const NewestLikesLimit = 3

// batchConcurrency bounds the parallel lookups of a LikesInfo batch.
const batchConcurrency = 8

// LikeService aggregates reactions for posts and comments. It does not
// know which kind of entity a source id belongs to; callers check that the
// entity exists before reacting to it.
type LikeService struct {
	reactions repository.ReactionRepository
	logger    *slog.Logger
}

func NewLikeService(reactions repository.ReactionRepository, logger *slog.Logger) *LikeService {
	return &LikeService{reactions: reactions, logger: logger}
}

// Counts returns the number of likes and dislikes. No reactions is {0, 0}.
func (s *LikeService) Counts(ctx context.Context, sourceID string) (model.LikeCounts, error) {
	return s.reactions.CountReactions(ctx, sourceID)
}

// MyReaction returns the author's reaction, or nil if there is none.
func (s *LikeService) MyReaction(ctx context.Context, sourceID, authorID string) (*model.Reaction, error) {
	if authorID == "" {
		return nil, nil
	}
	return s.reactions.GetReaction(ctx, sourceID, authorID)
}

// React records the author's reaction. Like and Dislike create or replace
// the single reaction of this author; None clears an existing one and is a
// no-op otherwise. Repeating the same status changes nothing.
func (s *LikeService) React(ctx context.Context, sourceID string, author *model.User, status model.LikeStatus) error {
	if !status.Valid() {
		return apperror.ValidationFailed("likeStatus", "likeStatus must be one of: None, Like, Dislike")
	}

	if status == model.LikeNone {
		if err := s.reactions.ClearReaction(ctx, sourceID, author.ID); err != nil {
			return fmt.Errorf("service/likes: clearing reaction: %w", err)
		}
		return nil
	}

	err := s.reactions.UpsertReaction(ctx, &model.Reaction{
		SourceID:    sourceID,
		AuthorID:    author.ID,
		AuthorLogin: author.Login,
		Status:      status,
	})
	if err != nil {
		return fmt.Errorf("service/likes: saving reaction: %w", err)
	}

	s.logger.Debug("reaction saved",
		slog.String("sourceID", sourceID),
		slog.String("userID", author.ID),
		slog.String("status", string(status)),
	)
	return nil
}

// LikesInfo is the counts plus the caller's own status. An anonymous caller
// (empty userID) always sees None.
func (s *LikeService) LikesInfo(ctx context.Context, sourceID, userID string) (model.LikesInfo, error) {
	counts, err := s.Counts(ctx, sourceID)
	if err != nil {
		return model.LikesInfo{}, err
	}
	mine, err := s.MyReaction(ctx, sourceID, userID)
	if err != nil {
		return model.LikesInfo{}, err
	}

	info := model.LikesInfo{
		LikesCount:    counts.Likes,
		DislikesCount: counts.Dislikes,
		MyStatus:      model.LikeNone,
	}
	if mine != nil {
		info.MyStatus = mine.Status
	}
	return info, nil
}

// NewestLikes returns up to limit likes, newest first.
func (s *LikeService) NewestLikes(ctx context.Context, sourceID string, limit int) ([]model.LikeDetails, error) {
	likes, err := s.reactions.NewestLikes(ctx, sourceID, limit)
	if err != nil {
		return nil, err
	}
	details := make([]model.LikeDetails, len(likes))
	for i, l := range likes {
		details[i] = model.LikeDetails{AddedAt: l.CreatedAt, UserID: l.AuthorID, Login: l.AuthorLogin}
	}
	return details, nil
}

// ExtendedLikesInfo is LikesInfo plus the newest likes, as shown on posts.
func (s *LikeService) ExtendedLikesInfo(ctx context.Context, sourceID, userID string) (model.ExtendedLikesInfo, error) {
	info, err := s.LikesInfo(ctx, sourceID, userID)
	if err != nil {
		return model.ExtendedLikesInfo{}, err
	}
	newest, err := s.NewestLikes(ctx, sourceID, NewestLikesLimit)
	if err != nil {
		return model.ExtendedLikesInfo{}, err
	}
	return model.ExtendedLikesInfo{LikesInfo: info, NewestLikes: newest}, nil
}

// LikesInfoBatch computes LikesInfo for every id. The lookups are
// independent and run in parallel; result i belongs to ids[i].
func (s *LikeService) LikesInfoBatch(ctx context.Context, ids []string, userID string) ([]model.LikesInfo, error) {
	return batch(ctx, ids, func(ctx context.Context, id string) (model.LikesInfo, error) {
		return s.LikesInfo(ctx, id, userID)
	})
}

// ExtendedLikesInfoBatch is LikesInfoBatch for posts.
func (s *LikeService) ExtendedLikesInfoBatch(ctx context.Context, ids []string, userID string) ([]model.ExtendedLikesInfo, error) {
	return batch(ctx, ids, func(ctx context.Context, id string) (model.ExtendedLikesInfo, error) {
		return s.ExtendedLikesInfo(ctx, id, userID)
	})
}

// batch runs fn once per id with bounded parallelism. The first error
// cancels the rest.
func batch[T any](ctx context.Context, ids []string, fn func(context.Context, string) (T, error)) ([]T, error) {
	out := make([]T, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			v, err := fn(ctx, id)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service/likes: batch lookup: %w", err)
	}
	return out, nil
}
