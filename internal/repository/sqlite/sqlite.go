// Package sqlite implements the repository interfaces using SQLite as the
// storage backend (modernc.org/sqlite, a pure Go port: no CGo needed).
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB:   a connection pool (NOT a single connection!)
//   - sql.Row:  a single result row
//   - sql.Rows: multiple result rows (must be closed!)
//
// The pool is capped at one connection. SQLite has a single writer anyway,
// and ":memory:" databases exist per connection, so a larger pool would
// hand tests an empty database on the second connection. Because of the
// cap, rows must always be closed before the next query is issued.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// registers the "sqlite" driver with database/sql
	_ "modernc.org/sqlite"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// compile-time checks that *DB implements every repository interface
var (
	_ repository.BlogRepository     = (*DB)(nil)
	_ repository.PostRepository     = (*DB)(nil)
	_ repository.CommentRepository  = (*DB)(nil)
	_ repository.UserRepository     = (*DB)(nil)
	_ repository.ReactionRepository = (*DB)(nil)
	_ repository.VideoRepository    = (*DB)(nil)
	_ repository.Wiper              = (*DB)(nil)
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// New opens the database at dbPath and applies pending migrations.
//
// dbPath examples:
//   - "data/bloggers.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests)
func New(dbPath string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress. In-memory
	// databases answer "memory" and ignore it.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	// Foreign keys are OFF by default in SQLite; the cascades need them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn, logger: logger, now: time.Now}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database answers.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate applies the embedded migrations with golang-migrate. The
// migrate instance is not closed: closing it would close db.conn too.
func (db *DB) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	m.Log = &migrateLogger{logger: db.logger}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			db.logger.Debug("schema up to date", slog.Uint64("version", uint64(version)))
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	newVersion, _, _ := m.Version()
	db.logger.Info("schema migrated",
		slog.Uint64("from", uint64(version)),
		slog.Uint64("to", uint64(newVersion)),
	)
	return nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// DeleteAll empties every table and restarts video numbering.
func (db *DB) DeleteAll(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Unavailable("wiping data", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM reactions`,
		`DELETE FROM comments`,
		`DELETE FROM posts`,
		`DELETE FROM blogs`,
		`DELETE FROM users`,
		`DELETE FROM videos`,
		`DELETE FROM sqlite_sequence WHERE name = 'videos'`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return apperror.Unavailable("wiping data", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unavailable("wiping data", err)
	}
	return nil
}

// timestamp returns the current time truncated for storage. Every stored
// time is UTC so text comparison in ORDER BY matches time order.
func (db *DB) timestamp() time.Time {
	return db.now().UTC().Truncate(time.Microsecond)
}
