package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	DeleteExpiredRefreshTokens(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	// ParseAccessToken returns the user id carried by a valid access token.
	ParseAccessToken(token string) (uuid.UUID, error)
}
