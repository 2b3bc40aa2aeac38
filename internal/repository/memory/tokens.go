package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
)

type refreshTokenRepository struct {
	s *Store
}

func NewRefreshTokenRepository(s *Store) auth.RefreshTokenRepository {
	return &refreshTokenRepository{s: s}
}

func (r *refreshTokenRepository) Create(ctx context.Context, userID string, token string, expiresAt time.Time, session auth.SessionTrackingRequest) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.users[userID]; !ok {
		return user.ErrUserNotFound
	}
	r.s.data.tokens[auth.HashToken(token)] = refreshToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *refreshTokenRepository) IsRevoked(ctx context.Context, token string, now time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.data.tokens[auth.HashToken(token)]
	if !ok {
		return false, auth.ErrInvalidToken
	}
	return t.revokedAt != nil || !t.expiresAt.After(now), nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	defer r.s.lockWrite(ctx)()

	hash := auth.HashToken(token)
	t, ok := r.s.data.tokens[hash]
	if ok && t.revokedAt == nil {
		now := time.Now()
		t.revokedAt = &now
		r.s.data.tokens[hash] = t
	}
	return nil
}

func (r *refreshTokenRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	defer r.s.lockWrite(ctx)()

	var n int64
	for hash, t := range r.s.data.tokens {
		if t.expiresAt.Before(cutoff) || (t.revokedAt != nil && t.revokedAt.Before(cutoff)) {
			delete(r.s.data.tokens, hash)
			n++
		}
	}
	return n, nil
}
