package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// PAGINATED QUERY ENGINE
//
// Every list endpoint runs the same two statements:
//
//	SELECT COUNT(*) FROM <table> WHERE <filter>
//	SELECT <columns> FROM <table> WHERE <filter>
//	  ORDER BY <sort column> <dir>, id <dir> LIMIT ? OFFSET ?
//
// A collection declares which columns it projects and which API field names
// may be sorted on. Sort columns and directions are never taken from the
// request verbatim: unknown names fall back to createdAt.

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// collection describes one table for paginate.
type collection[T any] struct {
	table    string
	columns  string            // projection; secrets are never listed here
	sortable map[string]string // API field name → column
	scan     func(scanner) (T, error)
}

// predicate is a WHERE fragment with its positional args. The zero value
// matches every row.
type predicate struct {
	sql  string
	args []any
}

func (p predicate) empty() bool { return p.sql == "" }

// contains matches a case-insensitive substring. An empty term is no filter.
func contains(column, term string) predicate {
	term = strings.TrimSpace(term)
	if term == "" {
		return predicate{}
	}
	return predicate{
		sql:  column + ` LIKE ? ESCAPE '\'`,
		args: []any{"%" + escapeLike(term) + "%"},
	}
}

// equals matches an exact value. An empty string is no filter.
func equals(column string, value any) predicate {
	if s, ok := value.(string); ok && s == "" {
		return predicate{}
	}
	return predicate{sql: column + ` = ?`, args: []any{value}}
}

// anyOf matches rows satisfying at least one non-empty predicate.
func anyOf(ps ...predicate) predicate {
	return join(" OR ", ps)
}

func join(op string, ps []predicate) predicate {
	var parts []string
	var args []any
	for _, p := range ps {
		if p.empty() {
			continue
		}
		parts = append(parts, "("+p.sql+")")
		args = append(args, p.args...)
	}
	if len(parts) == 0 {
		return predicate{}
	}
	return predicate{sql: strings.Join(parts, op), args: args}
}

// escapeLike makes %, _ and \ literal inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// orderBy resolves the sort clause from the whitelist.
func (c collection[T]) orderBy(page pagination.PageRequest) string {
	col, ok := c.sortable[page.SortBy]
	if !ok {
		col = c.sortable[pagination.DefaultSortBy]
	}
	dir := "DESC"
	if page.SortDirection == pagination.Asc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

// paginate runs the count and page queries for c. The request is
// normalized here too, so callers may pass it straight from the handler.
func paginate[T any](ctx context.Context, db *DB, c collection[T], where predicate, page pagination.PageRequest) (pagination.PageResult[T], error) {
	page = page.Normalize()

	whereSQL := ""
	if !where.empty() {
		whereSQL = " WHERE " + where.sql
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM " + c.table + whereSQL
	if err := db.conn.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return pagination.PageResult[T]{}, apperror.Unavailable("counting "+c.table, err)
	}

	listQuery := "SELECT " + c.columns + " FROM " + c.table + whereSQL +
		" ORDER BY " + c.orderBy(page) + " LIMIT ? OFFSET ?"
	skip := page.Skip()
	args := append(append([]any{}, where.args...), page.PageSize, skip)

	rows, err := db.conn.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return pagination.PageResult[T]{}, apperror.Unavailable("listing "+c.table, err)
	}
	defer rows.Close()

	items := make([]T, 0, min(page.PageSize, max(0, total-skip)))
	for rows.Next() {
		item, err := c.scan(rows)
		if err != nil {
			return pagination.PageResult[T]{}, apperror.Unavailable("scanning "+c.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return pagination.PageResult[T]{}, apperror.Unavailable("iterating "+c.table, err)
	}

	return pagination.NewResult(page, total, items), nil
}
