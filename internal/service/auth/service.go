package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/password"
)

type AuthServiceImpl struct {
	tx      database.Transactor
	clock   clock.Clock
	users   user.UserRepository
	classes class.ClassRepository
	tokens  auth.RefreshTokenRepository
	jwt     jwt.Service
}

func NewAuthService(
	tx database.Transactor,
	clk clock.Clock,
	users user.UserRepository,
	classes class.ClassRepository,
	tokens auth.RefreshTokenRepository,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:      tx,
		clock:   clk,
		users:   users,
		classes: classes,
		tokens:  tokens,
		jwt:     jwtService,
	}
}

// userResponse adds the assigned class ids for teachers.
func (a *AuthServiceImpl) userResponse(ctx context.Context, u user.User) (user.UserResponse, error) {
	resp := user.ToResponse(u)
	if !u.IsTeacher() {
		return resp, nil
	}

	classes, err := a.classes.ListByTeacher(ctx, u.ID)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to list teacher classes: %w", err)
	}
	resp.AssignedClassIDs = make([]string, 0, len(classes))
	for _, c := range classes {
		resp.AssignedClassIDs = append(resp.AssignedClassIDs, c.ID)
	}
	return resp, nil
}

// issue mints a token pair and stores the refresh token. Run it inside a unit of work.
func (a *AuthServiceImpl) issue(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresAt, err = a.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresAt, err = a.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.tokens.Create(ctx, u.ID, resp.RefreshToken, time.Unix(resp.RefreshTokenExpiresAt, 0), session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	resp.User, err = a.userResponse(ctx, u)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return resp, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !password.Matches(u.PasswordHash, req.Password) {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var resp auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		resp, err = a.issue(txCtx, u, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return resp, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userID, err := a.jwt.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	var resp auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		revoked, err := a.tokens.IsRevoked(txCtx, req.RefreshToken, a.clock.Now())
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				return err
			}
			return fmt.Errorf("failed to check refresh token: %w", err)
		}
		if revoked {
			return auth.ErrRefreshTokenRevoked
		}

		u, err := a.users.GetByID(txCtx, userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return auth.ErrInvalidToken
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if err := a.tokens.Revoke(txCtx, req.RefreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		resp, err = a.issue(txCtx, u, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return resp, nil
}

// Logout implements auth.AuthService. Unknown or already revoked tokens are ignored.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := a.tokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return a.userResponse(ctx, u)
}

// RegisterAdmin implements auth.AuthService.
func (a *AuthServiceImpl) RegisterAdmin(ctx context.Context, req auth.RegisterAdminRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	exists, err := a.users.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrEmailAlreadyExists
	}

	created, err := a.users.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         user.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ToResponse(created), nil
}
