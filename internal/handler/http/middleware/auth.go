package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if id, _ := claims["user_id"].(string); id == "" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user's id, or "" outside AuthRequired.
func UserID(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}

// Role returns the authenticated user's role, or "" when absent or unknown.
func Role(ctx context.Context) user.Role {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	raw, _ := claims["role"].(string)
	role, _ := user.ParseRole(raw)
	return role
}
