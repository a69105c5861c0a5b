package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
)

const videoColumns = `id, title, author, can_be_downloaded, min_age_restriction,
	available_resolutions, created_at, publication_date`

func scanVideo(s scanner) (model.Video, error) {
	var (
		v           model.Video
		minAge      sql.NullInt64
		resolutions string
	)
	err := s.Scan(&v.ID, &v.Title, &v.Author, &v.CanBeDownloaded, &minAge, &resolutions, &v.CreatedAt, &v.PublicationDate)
	if err != nil {
		return v, err
	}
	if minAge.Valid {
		age := int(minAge.Int64)
		v.MinAgeRestriction = &age
	}
	v.AvailableResolutions = splitResolutions(resolutions)
	v.CreatedAt = v.CreatedAt.UTC()
	v.PublicationDate = v.PublicationDate.UTC()
	return v, nil
}

// Resolutions are stored as one comma separated column; the values are a
// fixed enum without commas.
func joinResolutions(rs []model.Resolution) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func splitResolutions(s string) []model.Resolution {
	if s == "" {
		return []model.Resolution{}
	}
	parts := strings.Split(s, ",")
	rs := make([]model.Resolution, len(parts))
	for i, p := range parts {
		rs[i] = model.Resolution(p)
	}
	return rs
}

func nullAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

// CreateVideo assigns the next integer id. CreatedAt and PublicationDate
// are set by the caller.
func (db *DB) CreateVideo(ctx context.Context, video *model.Video) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO videos (title, author, can_be_downloaded, min_age_restriction,
			available_resolutions, created_at, publication_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		video.Title, video.Author, video.CanBeDownloaded, nullAge(video.MinAgeRestriction),
		joinResolutions(video.AvailableResolutions), video.CreatedAt.UTC(), video.PublicationDate.UTC(),
	)
	if err != nil {
		return apperror.Unavailable("inserting video", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperror.Unavailable("inserting video", err)
	}
	video.ID = id
	return nil
}

func (db *DB) GetVideo(ctx context.Context, id int64) (*model.Video, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("video", strconv.FormatInt(id, 10))
		}
		return nil, apperror.Unavailable("getting video", err)
	}
	return &v, nil
}

// ListVideos returns every video in creation order. Videos are not paginated.
func (db *DB) ListVideos(ctx context.Context) ([]model.Video, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY id`)
	if err != nil {
		return nil, apperror.Unavailable("listing videos", err)
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, apperror.Unavailable("scanning videos", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Unavailable("iterating videos", err)
	}
	return videos, nil
}

func (db *DB) UpdateVideo(ctx context.Context, video *model.Video) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE videos SET title = ?, author = ?, can_be_downloaded = ?, min_age_restriction = ?,
			available_resolutions = ?, publication_date = ?
		 WHERE id = ?`,
		video.Title, video.Author, video.CanBeDownloaded, nullAge(video.MinAgeRestriction),
		joinResolutions(video.AvailableResolutions), video.PublicationDate.UTC(), video.ID,
	)
	return affectedOne(res, err, "video", strconv.FormatInt(video.ID, 10))
}

func (db *DB) DeleteVideo(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	return affectedOne(res, err, "video", strconv.FormatInt(id, 10))
}
