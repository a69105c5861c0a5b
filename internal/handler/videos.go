package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bloggers-platform/internal/model"
)

// VideoService is the part of service.VideoService the handler calls.
type VideoService interface {
	List(ctx context.Context) ([]model.Video, error)
	Get(ctx context.Context, id int64) (*model.Video, error)
	Create(ctx context.Context, in model.VideoCreateInput) (*model.Video, error)
	Update(ctx context.Context, id int64, patch model.VideoPatch) error
	Delete(ctx context.Context, id int64) error
}

// VideoHandler serves /videos. The list is a plain JSON array, not a page.
type VideoHandler struct {
	videos VideoService
	logger *slog.Logger
}

func NewVideoHandler(videos VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, logger: logger}
}

// HandleList returns every video.
//
// HTTP: GET /videos
func (h *VideoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videos.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if videos == nil {
		videos = []model.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

// HandleGet returns one video. A non-numeric id cannot exist, so it is a 404.
//
// HTTP: GET /videos/{id}
func (h *VideoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(w, r)
	if !ok {
		return
	}
	video, err := h.videos.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// HandleCreate adds a video.
//
// HTTP: POST /videos
// REQUEST BODY: {"title": "...", "author": "...", "availableResolutions": ["P720"]}
func (h *VideoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.VideoCreateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	video, err := h.videos.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

// HandleUpdate changes a video.
//
// HTTP: PUT /videos/{id}
func (h *VideoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(w, r)
	if !ok {
		return
	}
	var patch model.VideoPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := h.videos.Update(r.Context(), id, patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a video.
//
// HTTP: DELETE /videos/{id}
func (h *VideoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(w, r)
	if !ok {
		return
	}
	if err := h.videos.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func videoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return 0, false
	}
	return id, true
}
