package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/repository"
	"github.com/sakif/bloggers-platform/internal/validate"
)

// publicationDelay is added to createdAt for a new video's publicationDate.
const publicationDelay = 24 * time.Hour

type VideoService struct {
	videos repository.VideoRepository
	now    func() time.Time
	logger *slog.Logger
}

func NewVideoService(videos repository.VideoRepository, logger *slog.Logger) *VideoService {
	return &VideoService{videos: videos, now: time.Now, logger: logger}
}

func (s *VideoService) List(ctx context.Context) ([]model.Video, error) {
	return s.videos.ListVideos(ctx)
}

func (s *VideoService) Get(ctx context.Context, id int64) (*model.Video, error) {
	return s.videos.GetVideo(ctx, id)
}

func (s *VideoService) Create(ctx context.Context, in model.VideoCreateInput) (*model.Video, error) {
	v := new(validate.Validator)
	videoText(v, in.Title, in.Author)
	resolutions(v, in.AvailableResolutions)
	if err := v.Err(); err != nil {
		return nil, err
	}

	created := s.now().UTC().Truncate(time.Millisecond)
	video := &model.Video{
		Title:                strings.TrimSpace(in.Title),
		Author:               strings.TrimSpace(in.Author),
		CreatedAt:            created,
		PublicationDate:      created.Add(publicationDelay),
		AvailableResolutions: in.AvailableResolutions,
	}
	if video.AvailableResolutions == nil {
		video.AvailableResolutions = []model.Resolution{}
	}

	if err := s.videos.CreateVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("service/videos: creating video: %w", err)
	}
	s.logger.Info("video created", slog.Int64("id", video.ID))
	return video, nil
}

// Update applies the patch. Title and author are required; every other
// field is checked only when present.
func (s *VideoService) Update(ctx context.Context, id int64, patch model.VideoPatch) error {
	v := new(validate.Validator)
	videoText(v, deref(patch.Title), deref(patch.Author))
	resolutions(v, patch.AvailableResolutions)
	if patch.MinAgeRestriction != nil {
		v.Range("minAgeRestriction", *patch.MinAgeRestriction, validate.MinAgeMin, validate.MinAgeMax)
	}
	if err := v.Err(); err != nil {
		return err
	}

	video, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return err
	}
	patch.Apply(video)

	if err := s.videos.UpdateVideo(ctx, video); err != nil {
		return fmt.Errorf("service/videos: updating video %d: %w", id, err)
	}
	return nil
}

func (s *VideoService) Delete(ctx context.Context, id int64) error {
	return s.videos.DeleteVideo(ctx, id)
}

func videoText(v *validate.Validator, title, author string) {
	v.Required("title", title).
		MaxLen("title", title, validate.VideoTitleMax).
		Required("author", author).
		MaxLen("author", author, validate.VideoAuthorMax)
}

func resolutions(v *validate.Validator, rs []model.Resolution) {
	for _, r := range rs {
		if !model.ValidResolution(r) {
			v.Custom("availableResolutions", true, fmt.Sprintf("unknown resolution %q", r))
			return
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
