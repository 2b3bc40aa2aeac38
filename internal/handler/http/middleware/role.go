package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
)

func requireRole(role user.Role, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Role(r.Context()) != role {
				response.HandleError(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects callers without the ADMIN role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(user.RoleAdmin, user.ErrAdminAccessRequired)(next)
}

// RequireTeacher rejects callers without the TEACHER role
func RequireTeacher(next http.Handler) http.Handler {
	return requireRole(user.RoleTeacher, user.ErrTeacherAccessRequired)(next)
}
