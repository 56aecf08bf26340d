package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists refresh-token sessions. Only SHA-256 hashes reach the
// table; the raw token lives with the client, so leaked rows cannot be
// replayed. Revocation is a soft delete via revoked_at, which keeps the row
// around as an audit trail of past sessions.
type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh opens a new session for the user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its user. Unknown, revoked and
// expired tokens all fail with ErrRefreshTokenInvalid so a caller probing
// the endpoint learns nothing about which case it hit.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ?",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRefreshTokenInvalid
	}
	if err != nil {
		return 0, err
	}
	if !refreshUsable(revokedAt, expiresAt, time.Now().UTC()) {
		return 0, ErrRefreshTokenInvalid
	}
	return userID, nil
}

// refreshUsable reports whether a session row still grants a refresh: never
// revoked and not yet past its expiry.
func refreshUsable(revokedAt sql.NullTime, expiresAt, now time.Time) bool {
	return !revokedAt.Valid && now.Before(expiresAt)
}

// RevokeByHash ends the single session carrying this token. Revoking an
// already-revoked or unknown token is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL",
		time.Now().UTC(), tokenHash)
	return err
}

// RevokeAllForUser ends every open session of the user. Called on
// logout-all and after a password change.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL",
		time.Now().UTC(), userID)
	return err
}
