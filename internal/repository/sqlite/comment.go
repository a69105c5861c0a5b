package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/xid"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

var comments = collection[model.Comment]{
	table:   "comments",
	columns: "id, post_id, content, user_id, user_login, created_at",
	sortable: map[string]string{
		"id":        "id",
		"content":   "content",
		"userId":    "user_id",
		"userLogin": "user_login",
		"createdAt": "created_at",
	},
	scan: scanComment,
}

func scanComment(s scanner) (model.Comment, error) {
	var c model.Comment
	err := s.Scan(&c.ID, &c.PostID, &c.Content, &c.CommentatorInfo.UserID, &c.CommentatorInfo.UserLogin, &c.CreatedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, err
}

func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = db.timestamp()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, content, user_id, user_login, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.PostID, comment.Content,
		comment.CommentatorInfo.UserID, comment.CommentatorInfo.UserLogin, comment.CreatedAt,
	)
	if err != nil {
		return apperror.Unavailable("inserting comment", err)
	}
	return nil
}

func (db *DB) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+comments.columns+` FROM comments WHERE id = ?`, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, apperror.Unavailable("getting comment", err)
	}
	return &c, nil
}

// ListComments pages through the comments of one post.
func (db *DB) ListComments(ctx context.Context, postID string, page pagination.PageRequest) (pagination.PageResult[model.Comment], error) {
	return paginate(ctx, db, comments, predicate{sql: "post_id = ?", args: []any{postID}}, page)
}

func (db *DB) UpdateCommentContent(ctx context.Context, id, content string) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE comments SET content = ? WHERE id = ?`, content, id)
	return affectedOne(res, err, "comment", id)
}

func (db *DB) DeleteComment(ctx context.Context, id string) error {
	return db.deleteWithReactions(ctx, "comment", id,
		`DELETE FROM reactions WHERE source_id = ?`, []any{id},
		`DELETE FROM comments WHERE id = ?`)
}
