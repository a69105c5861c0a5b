package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// users is the list projection: no hash, salt or codes.
var users = collection[model.User]{
	table:   "users",
	columns: "id, login, email, created_at",
	sortable: map[string]string{
		"id":        "id",
		"login":     "login",
		"email":     "email",
		"createdAt": "created_at",
	},
	scan: func(s scanner) (model.User, error) {
		var u model.User
		err := s.Scan(&u.ID, &u.Login, &u.Email, &u.CreatedAt)
		u.CreatedAt = u.CreatedAt.UTC()
		return u, err
	},
}

// userRecordColumns is the full record, used only by single-user lookups
// that feed authentication flows.
const userRecordColumns = `id, login, email, password_hash, password_salt, is_confirmed,
	confirmation_code, confirmation_expires_at, recovery_code, recovery_expires_at, created_at`

func scanUserRecord(s scanner) (*model.User, error) {
	var (
		u            model.User
		confirmCode  sql.NullString
		confirmExp   sql.NullTime
		recoveryCode sql.NullString
		recoveryExp  sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.PasswordSalt, &u.Confirmation.IsConfirmed,
		&confirmCode, &confirmExp, &recoveryCode, &recoveryExp, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.Confirmation.Code = confirmCode.String
	if confirmExp.Valid {
		u.Confirmation.ExpirationDate = confirmExp.Time.UTC()
	}
	if recoveryCode.Valid {
		u.Recovery = &model.RecoveryCode{Code: recoveryCode.String, ExpiresAt: recoveryExp.Time.UTC()}
	}
	return &u, nil
}

// CreateUser fills in ID and CreatedAt. A duplicate login or email is
// reported as a Conflict on that field.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = db.timestamp()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, login, email, password_hash, password_salt, is_confirmed,
			confirmation_code, confirmation_expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Login, user.Email, user.PasswordHash, user.PasswordSalt,
		user.Confirmation.IsConfirmed,
		nullString(user.Confirmation.Code), nullTime(user.Confirmation.ExpirationDate),
		user.CreatedAt,
	)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "UNIQUE") && strings.Contains(msg, "users.login"):
			return apperror.Conflict("login", "login already exists")
		case strings.Contains(msg, "UNIQUE") && strings.Contains(msg, "users.email"):
			return apperror.Conflict("email", "email already exists")
		}
		return apperror.Unavailable("inserting user", err)
	}
	return nil
}

func (db *DB) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := db.findUser(ctx, `id = ?`, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

// ListUsers pages through users whose login OR email contains the
// respective search term. With neither term every user matches.
func (db *DB) ListUsers(ctx context.Context, filter model.UserFilter, page pagination.PageRequest) (pagination.PageResult[model.User], error) {
	where := anyOf(
		contains("login", filter.SearchLoginTerm),
		contains("email", filter.SearchEmailTerm),
	)
	return paginate(ctx, db, users, where, page)
}

func (db *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return affectedOne(res, err, "user", id)
}

// FindUserByLoginOrEmail matches either column exactly.
func (db *DB) FindUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*model.User, error) {
	return db.findUser(ctx, `login = ? OR email = ?`, loginOrEmail, loginOrEmail)
}

func (db *DB) FindUserByConfirmationCode(ctx context.Context, code string) (*model.User, error) {
	if code == "" {
		return nil, nil
	}
	return db.findUser(ctx, `confirmation_code = ?`, code)
}

func (db *DB) FindUserByRecoveryCode(ctx context.Context, code string) (*model.User, error) {
	if code == "" {
		return nil, nil
	}
	return db.findUser(ctx, `recovery_code = ?`, code)
}

func (db *DB) LoginExists(ctx context.Context, login string) (bool, error) {
	return db.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE login = ?)`, login)
}

func (db *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
}

// ConfirmUser only matches an unconfirmed row, so the flip happens once.
func (db *DB) ConfirmUser(ctx context.Context, id string) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET is_confirmed = 1 WHERE id = ? AND is_confirmed = 0`, id)
	return changedRow(res, err, "confirming user")
}

func (db *DB) SetConfirmationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET confirmation_code = ?, confirmation_expires_at = ? WHERE id = ?`,
		code, expiresAt.UTC(), id)
	return affectedOne(res, err, "user", id)
}

func (db *DB) SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET recovery_code = ?, recovery_expires_at = ? WHERE id = ?`,
		code, expiresAt.UTC(), id)
	return affectedOne(res, err, "user", id)
}

// ResetPassword swaps the credentials and clears the code in one statement.
func (db *DB) ResetPassword(ctx context.Context, recoveryCode, hash, salt string) (bool, error) {
	if recoveryCode == "" {
		return false, nil
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, password_salt = ?, recovery_code = NULL, recovery_expires_at = NULL
		 WHERE recovery_code = ?`,
		hash, salt, recoveryCode)
	return changedRow(res, err, "resetting password")
}

// findUser returns (nil, nil) when nothing matches.
func (db *DB) findUser(ctx context.Context, where string, args ...any) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+userRecordColumns+` FROM users WHERE `+where+` LIMIT 1`, args...)
	u, err := scanUserRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Unavailable("finding user", err)
	}
	return u, nil
}

func (db *DB) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, apperror.Unavailable("checking user", err)
	}
	return found, nil
}

func changedRow(res sql.Result, err error, op string) (bool, error) {
	if err != nil {
		return false, apperror.Unavailable(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperror.Unavailable(op, err)
	}
	return n > 0, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
