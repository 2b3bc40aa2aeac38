package auth

import (
	"context"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	// RefreshToken rotates the refresh token: the old one is revoked and a new pair is issued
	RefreshToken(ctx context.Context, req RefreshTokenRequest, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (user.UserResponse, error)
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (user.UserResponse, error)
}
