package auth

import (
	"strings"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r).Err()
}

// RefreshTokenRequest carries the refresh token in the body. Handlers fall back to the cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (r *RefreshTokenRequest) Validate() error {
	return validator.Struct(r).Err()
}

type RegisterAdminRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

func (r *RegisterAdminRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return validator.Struct(r).Err()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	User                  user.UserResponse `json:"user"`
	AccessToken           string            `json:"accessToken"`
	RefreshToken          string            `json:"refreshToken"`
	AccessTokenExpiresAt  int64             `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt int64             `json:"refreshTokenExpiresAt"`
}
