package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists refresh tokens by hash only.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time, session SessionTrackingRequest) error
	// IsRevoked reports whether the token was revoked or has expired. An unknown token yields ErrInvalidToken.
	IsRevoked(ctx context.Context, token string, now time.Time) (bool, error)
	Revoke(ctx context.Context, token string) error
	// DeleteStale removes tokens that expired or were revoked before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}
