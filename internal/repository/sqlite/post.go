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

var posts = collection[model.Post]{
	table:   "posts",
	columns: "id, title, short_description, content, blog_id, blog_name, created_at",
	sortable: map[string]string{
		"id":               "id",
		"title":            "title",
		"shortDescription": "short_description",
		"content":          "content",
		"blogId":           "blog_id",
		"blogName":         "blog_name",
		"createdAt":        "created_at",
	},
	scan: scanPost,
}

func scanPost(s scanner) (model.Post, error) {
	var p model.Post
	err := s.Scan(&p.ID, &p.Title, &p.ShortDescription, &p.Content, &p.BlogID, &p.BlogName, &p.CreatedAt)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, err
}

// CreatePost fills in ID and CreatedAt. The blog must exist (foreign key).
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = db.timestamp()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, short_description, content, blog_id, blog_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.ShortDescription, post.Content, post.BlogID, post.BlogName, post.CreatedAt,
	)
	if err != nil {
		return apperror.Unavailable("inserting post", err)
	}
	return nil
}

func (db *DB) GetPost(ctx context.Context, id string) (*model.Post, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+posts.columns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, apperror.Unavailable("getting post", err)
	}
	return &p, nil
}

// ListPosts pages through all posts, or one blog's posts when BlogID is set.
func (db *DB) ListPosts(ctx context.Context, filter model.PostFilter, page pagination.PageRequest) (pagination.PageResult[model.Post], error) {
	return paginate(ctx, db, posts, equals("blog_id", filter.BlogID), page)
}

func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, short_description = ?, content = ?, blog_id = ?, blog_name = ?
		 WHERE id = ?`,
		post.Title, post.ShortDescription, post.Content, post.BlogID, post.BlogName, post.ID,
	)
	return affectedOne(res, err, "post", post.ID)
}

// DeletePost removes the post and its reactions; its comments cascade and
// their reactions are removed with them.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	return db.deleteWithReactions(ctx, "post", id,
		`DELETE FROM reactions WHERE source_id = ?
			OR source_id IN (SELECT id FROM comments WHERE post_id = ?)`,
		[]any{id, id},
		`DELETE FROM posts WHERE id = ?`)
}
