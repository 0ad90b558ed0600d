package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

// sessionRepository keeps the hashed refresh tokens behind owner sessions.
type sessionRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) ports.AuthRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, revoked, created_at`,
		token.UserID, token.TokenHash, token.ExpiresAt,
	).Scan(&token.ID, &token.Revoked, &token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token for user %s: %w", token.UserID, err)
	}
	return nil
}

// GetRefreshTokenByHash returns nil, nil when no token has that hash.
func (r *sessionRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token_hash = $1`, tokenHash,
	).Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.Revoked, &token.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return &token, nil
}

func (r *sessionRepository) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to revoke refresh token %s: %w", id, err)
	}
	return nil
}

// DeleteExpiredRefreshTokens drops a user's tokens that expired before now,
// returning how many went.
func (r *sessionRepository) DeleteExpiredRefreshTokens(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1 AND expires_at < $2`, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens for user %s: %w", userID, err)
	}
	return res.RowsAffected()
}
