package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/xid"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
)

const reactionColumns = "id, source_id, author_id, author_login, status, created_at"

func scanReaction(s scanner) (model.Reaction, error) {
	var r model.Reaction
	err := s.Scan(&r.ID, &r.SourceID, &r.AuthorID, &r.AuthorLogin, &r.Status, &r.CreatedAt)
	r.CreatedAt = r.CreatedAt.UTC()
	return r, err
}

// UpsertReaction inserts the author's first reaction or overwrites the
// status of the existing one. The UNIQUE(source_id, author_id) index makes
// this a single atomic statement: two concurrent calls by the same author
// leave exactly one row. CreatedAt is kept from the first reaction.
func (db *DB) UpsertReaction(ctx context.Context, r *model.Reaction) error {
	now := db.timestamp()
	id := xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reactions (id, source_id, author_id, author_login, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (source_id, author_id)
		 DO UPDATE SET status = excluded.status,
		               author_login = excluded.author_login,
		               updated_at = excluded.updated_at`,
		id, r.SourceID, r.AuthorID, r.AuthorLogin, r.Status, now, now,
	)
	if err != nil {
		return apperror.Unavailable("upserting reaction", err)
	}
	return nil
}

// ClearReaction resets an existing reaction to None and never creates one.
func (db *DB) ClearReaction(ctx context.Context, sourceID, authorID string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE reactions SET status = ?, updated_at = ? WHERE source_id = ? AND author_id = ?`,
		model.LikeNone, db.timestamp(), sourceID, authorID,
	)
	if err != nil {
		return apperror.Unavailable("clearing reaction", err)
	}
	return nil
}

// GetReaction returns (nil, nil) when the author never reacted.
func (db *DB) GetReaction(ctx context.Context, sourceID, authorID string) (*model.Reaction, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+reactionColumns+` FROM reactions WHERE source_id = ? AND author_id = ?`,
		sourceID, authorID,
	)
	r, err := scanReaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Unavailable("getting reaction", err)
	}
	return &r, nil
}

// CountReactions counts Like and Dislike rows; None rows count for neither.
func (db *DB) CountReactions(ctx context.Context, sourceID string) (model.LikeCounts, error) {
	var counts model.LikeCounts
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(status = 'Like'), 0), COALESCE(SUM(status = 'Dislike'), 0)
		 FROM reactions WHERE source_id = ?`,
		sourceID,
	).Scan(&counts.Likes, &counts.Dislikes)
	if err != nil {
		return model.LikeCounts{}, apperror.Unavailable("counting reactions", err)
	}
	return counts, nil
}

// NewestLikes returns up to limit Like reactions, newest first.
func (db *DB) NewestLikes(ctx context.Context, sourceID string, limit int) ([]model.Reaction, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+reactionColumns+` FROM reactions
		 WHERE source_id = ? AND status = 'Like'
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sourceID, limit,
	)
	if err != nil {
		return nil, apperror.Unavailable("listing likes", err)
	}
	defer rows.Close()

	likes := make([]model.Reaction, 0, limit)
	for rows.Next() {
		r, err := scanReaction(rows)
		if err != nil {
			return nil, apperror.Unavailable("scanning likes", err)
		}
		likes = append(likes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Unavailable("iterating likes", err)
	}
	return likes, nil
}

// deleteWithReactions runs deleteSQL and removes the reactions matched by
// orphanedSQL in one transaction. Reactions carry no foreign key, so the
// cascade from blogs to posts to comments does not reach them. orphanedSQL
// runs first because its subqueries read rows that deleteSQL removes.
func (db *DB) deleteWithReactions(ctx context.Context, resource, id, orphanedSQL string, orphanedArgs []any, deleteSQL string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Unavailable("deleting "+resource, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, orphanedSQL, orphanedArgs...); err != nil {
		return apperror.Unavailable("deleting "+resource+" reactions", err)
	}
	res, err := tx.ExecContext(ctx, deleteSQL, id)
	if err := affectedOne(res, err, resource, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unavailable("deleting "+resource, err)
	}
	return nil
}
