package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrTeacherAccessRequired):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, class.ErrClassNotFound),
		errors.Is(err, student.ErrStudentNotFound),
		errors.Is(err, teacher.ErrTeacherNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())

	// Conflicts
	case errors.Is(err, class.ErrGradeLevelExists),
		errors.Is(err, student.ErrRollNumberExists),
		errors.Is(err, user.ErrEmailAlreadyExists),
		errors.Is(err, attendance.ErrDuplicateDraft):
		Conflict(w, err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrEditWindowExpired):
		EditWindowExpired(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidStatus):
		ValidationError(w, map[string]string{"status": err.Error()})

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
