package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo manages refresh tokens plus the single-use tokens behind
// email verification and password reset flows.  Every token is stored
// as a SHA-256 hash; the raw value only ever travels to the client.
type TokenRepo struct {
	DB *sql.DB
}

// NewTokenRepo constructs a TokenRepo.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh saves a hashed refresh token with its expiry.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		userID, tokenHash, expiresAt.UTC())
	return err
}

// ValidateRefresh looks up an unrevoked, unexpired refresh token by its
// hash and returns the owning user ID.  sql.ErrNoRows means the token
// is unknown, revoked or expired.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`,
		tokenHash).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// RevokeByHash marks a single refresh token revoked.  Used during
// rotation and logout.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE token_hash = ? AND revoked_at IS NULL`, tokenHash)
	return err
}

// RevokeAllForUser revokes every live refresh token of a user, e.g.
// after a password change or an admin suspension.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE user_id = ? AND revoked_at IS NULL`, userID)
	return err
}

// One-time tokens live in two identically shaped tables.  The table
// name is chosen by the exported wrappers below; it is never derived
// from user input.

func (r *TokenRepo) storeOneTime(ctx context.Context, table string, userID uint64, tokenHash string, ttl time.Duration) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		userID, tokenHash, time.Now().UTC().Add(ttl))
	return err
}

// consumeOneTime atomically marks an unused, unexpired token used and
// returns its owner.  The UPDATE-then-SELECT order makes a token spend
// exactly once even under concurrent requests.
func (r *TokenRepo) consumeOneTime(ctx context.Context, table, tokenHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET used_at = UTC_TIMESTAMP()
		 WHERE token_hash = ? AND used_at IS NULL AND expires_at > UTC_TIMESTAMP()`,
		tokenHash)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	var userID uint64
	err = r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM `+table+` WHERE token_hash = ?`, tokenHash).Scan(&userID)
	return userID, err
}

// StoreEmailVerification saves a hashed email verification token.
func (r *TokenRepo) StoreEmailVerification(ctx context.Context, userID uint64, tokenHash string, ttl time.Duration) error {
	return r.storeOneTime(ctx, "email_verifications", userID, tokenHash, ttl)
}

// ConsumeEmailVerification spends a verification token and returns the
// user it belongs to.
func (r *TokenRepo) ConsumeEmailVerification(ctx context.Context, tokenHash string) (uint64, error) {
	return r.consumeOneTime(ctx, "email_verifications", tokenHash)
}

// StorePasswordReset saves a hashed password reset token.
func (r *TokenRepo) StorePasswordReset(ctx context.Context, userID uint64, tokenHash string, ttl time.Duration) error {
	return r.storeOneTime(ctx, "password_resets", userID, tokenHash, ttl)
}

// ConsumePasswordReset spends a reset token and returns the user it
// belongs to.
func (r *TokenRepo) ConsumePasswordReset(ctx context.Context, tokenHash string) (uint64, error) {
	return r.consumeOneTime(ctx, "password_resets", tokenHash)
}
