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

var blogs = collection[model.Blog]{
	table:   "blogs",
	columns: "id, name, description, website_url, is_membership, created_at",
	sortable: map[string]string{
		"id":           "id",
		"name":         "name",
		"description":  "description",
		"websiteUrl":   "website_url",
		"isMembership": "is_membership",
		"createdAt":    "created_at",
	},
	scan: scanBlog,
}

func scanBlog(s scanner) (model.Blog, error) {
	var b model.Blog
	err := s.Scan(&b.ID, &b.Name, &b.Description, &b.WebsiteURL, &b.IsMembership, &b.CreatedAt)
	b.CreatedAt = b.CreatedAt.UTC()
	return b, err
}

// CreateBlog fills in ID and CreatedAt and inserts the blog.
func (db *DB) CreateBlog(ctx context.Context, blog *model.Blog) error {
	blog.ID = xid.New().String()
	blog.CreatedAt = db.timestamp()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO blogs (id, name, description, website_url, is_membership, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		blog.ID, blog.Name, blog.Description, blog.WebsiteURL, blog.IsMembership, blog.CreatedAt,
	)
	if err != nil {
		return apperror.Unavailable("inserting blog", err)
	}
	return nil
}

func (db *DB) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+blogs.columns+` FROM blogs WHERE id = ?`, id)
	b, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("blog", id)
		}
		return nil, apperror.Unavailable("getting blog", err)
	}
	return &b, nil
}

// ListBlogs pages through blogs whose name contains SearchNameTerm.
func (db *DB) ListBlogs(ctx context.Context, filter model.BlogFilter, page pagination.PageRequest) (pagination.PageResult[model.Blog], error) {
	return paginate(ctx, db, blogs, contains("name", filter.SearchNameTerm), page)
}

func (db *DB) UpdateBlog(ctx context.Context, blog *model.Blog) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE blogs SET name = ?, description = ?, website_url = ? WHERE id = ?`,
		blog.Name, blog.Description, blog.WebsiteURL, blog.ID,
	)
	return affectedOne(res, err, "blog", blog.ID)
}

// DeleteBlog removes the blog; its posts and their comments cascade, and
// every reaction on them goes too.
func (db *DB) DeleteBlog(ctx context.Context, id string) error {
	return db.deleteWithReactions(ctx, "blog", id,
		`DELETE FROM reactions WHERE source_id IN (SELECT id FROM posts WHERE blog_id = ?)
			OR source_id IN (SELECT c.id FROM comments c JOIN posts p ON p.id = c.post_id WHERE p.blog_id = ?)`,
		[]any{id, id},
		`DELETE FROM blogs WHERE id = ?`)
}

// affectedOne turns an UPDATE/DELETE result into NotFound when no row matched.
func affectedOne(res sql.Result, err error, resource, id string) error {
	if err != nil {
		return apperror.Unavailable("writing "+resource, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("writing "+resource, err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
