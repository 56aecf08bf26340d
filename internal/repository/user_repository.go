package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/opencampus/unispace/internal/model"
	"github.com/opencampus/unispace/internal/utils"
)

// UserRepo persists accounts. Emails are normalized to lower case before
// every read or write so the unique index behaves case-insensitively.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, email, password_hash, role, is_active, university_id, created_at, updated_at"

// Create hashes the password and inserts the user. universityID must be set
// for members (resolved from the email domain by the caller) and nil for
// admins. Returns the new ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, isActive bool, universityID *uint64, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, is_active, university_id) VALUES (?,?,?,?,?)",
		email, hash, role, isActive, universityID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.UniversityID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.UniversityID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// AssignUniversity back-fills the university reference for a user whose
// domain resolved after the fact (the best-effort login path).
func (r *UserRepo) AssignUniversity(ctx context.Context, userID, universityID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET university_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		universityID, userID)
	return err
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		hash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Activate marks the account verified/active.
func (r *UserRepo) Activate(ctx context.Context, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=1, updated_at=CURRENT_TIMESTAMP WHERE id=?", userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
