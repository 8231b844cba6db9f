package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/job-application-tracker/internal/model"
)

// UserStore is the store contract the handlers are written against. The
// recovery flow relies on two properties of the implementation: Create
// enforces username/email uniqueness in the same write that inserts the
// row, and ResetPasswordIfCodeValid checks the code, checks its expiry,
// swaps the password hash and clears the code in one atomic operation.
// Everything else is plain lookups.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string, role model.Role) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByIdentity(ctx context.Context, username, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetPasswordHash(ctx context.Context, id uint64, passwordHash string) error
	SetRecoveryCode(ctx context.Context, id uint64, codeHash string, expiresAt time.Time) error
	ClearRecoveryCode(ctx context.Context, id uint64) error
	ResetPasswordIfCodeValid(ctx context.Context, id uint64, codeHash, newPasswordHash string, now time.Time) (bool, error)
}

// UserRepo is the MySQL implementation of UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,recovery_code_hash,recovery_code_expires_at,created_at,updated_at"

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// normalizeEmail lower-cases and trims an email so the unique key on the
// column gives case-insensitive uniqueness. Usernames are left untouched;
// they compare case-sensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user and returns its ID. The email is optional and
// stored as NULL when empty so the unique key ignores accounts without
// one. A duplicate username or email surfaces as ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, role model.Role) (uint64, error) {
	var emailVal sql.NullString
	if e := normalizeEmail(email); e != "" {
		emailVal = sql.NullString{String: e, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, emailVal, passwordHash, string(role))
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getWhere(ctx, "username=?", username)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getWhere(ctx, "email=?", normalizeEmail(email))
}

// GetByIdentity fetches the user whose username AND email both match.
// The recovery flow uses this single lookup so a caller cannot learn
// which of the two fields was wrong.
func (r *UserRepo) GetByIdentity(ctx context.Context, username, email string) (model.User, error) {
	return r.getWhere(ctx, "username=? AND email=?", username, normalizeEmail(email))
}

func (r *UserRepo) getWhere(ctx context.Context, where string, args ...any) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", args...)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetPasswordHash overwrites the stored password hash.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// SetRecoveryCode stores the digest and expiry of a freshly issued
// recovery code, replacing any outstanding one. Only the latest code is
// ever valid.
func (r *UserRepo) SetRecoveryCode(ctx context.Context, id uint64, codeHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET recovery_code_hash=?, recovery_code_expires_at=? WHERE id=?",
		codeHash, expiresAt.UTC(), id)
	return err
}

// ClearRecoveryCode drops any outstanding recovery code.
func (r *UserRepo) ClearRecoveryCode(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET recovery_code_hash=NULL, recovery_code_expires_at=NULL WHERE id=?", id)
	return err
}

// ResetPasswordIfCodeValid performs the final step of the recovery flow
// as a single conditional UPDATE: the new password hash is written and
// the code cleared only if the stored digest matches and has not passed
// its expiry. The database evaluates check and write together, so two
// concurrent resets racing on the same code can never both succeed —
// the loser matches zero rows and reports false.
func (r *UserRepo) ResetPasswordIfCodeValid(ctx context.Context, id uint64, codeHash, newPasswordHash string, now time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, recovery_code_hash=NULL, recovery_code_expires_at=NULL "+
			"WHERE id=? AND recovery_code_hash=? AND recovery_code_expires_at>?",
		newPasswordHash, id, codeHash, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanUser(s scanner) (model.User, error) {
	var (
		u     model.User
		email sql.NullString
		code  sql.NullString
		exp   sql.NullTime
		role  string
	)
	err := s.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &role, &code, &exp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Email = email.String
	u.RecoveryCodeHash = code.String
	if exp.Valid {
		t := exp.Time
		u.RecoveryCodeExpiresAt = &t
	}
	if parsed, ok := model.ParseRole(role); ok {
		u.Role = parsed
	} else {
		u.Role = model.RoleStandard
	}
	return u, nil
}
