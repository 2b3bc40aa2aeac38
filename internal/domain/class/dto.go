package class

import (
	"strings"

	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

type CreateClassRequest struct {
	GradeLevel string  `json:"gradeLevel" validate:"required,max=100"`
	TeacherID  *string `json:"teacherId,omitempty"`
}

func (r *CreateClassRequest) Validate() error {
	r.GradeLevel = strings.TrimSpace(r.GradeLevel)
	errs := validator.Struct(r)
	if r.TeacherID != nil && *r.TeacherID != "" && !validator.IsValidUUID(*r.TeacherID) {
		errs.Add("teacherId", "teacherId must be a valid UUID")
	}
	return errs.Err()
}

// UpdateClassRequest patches a class. A present but empty TeacherID unassigns the teacher.
type UpdateClassRequest struct {
	ID         string  `json:"-"`
	GradeLevel *string `json:"gradeLevel,omitempty"`
	TeacherID  *string `json:"teacherId,omitempty"`
}

func (r *UpdateClassRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.GradeLevel != nil {
		trimmed := strings.TrimSpace(*r.GradeLevel)
		r.GradeLevel = &trimmed
		if trimmed == "" {
			errs.Add("gradeLevel", "gradeLevel must not be empty")
		} else if len(trimmed) > 100 {
			errs.Add("gradeLevel", "gradeLevel must not exceed 100 characters")
		}
	}
	if r.TeacherID != nil && *r.TeacherID != "" && !validator.IsValidUUID(*r.TeacherID) {
		errs.Add("teacherId", "teacherId must be a valid UUID")
	}

	return errs.Err()
}

type ClassResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	GradeLevel     string  `json:"gradeLevel"`
	TeacherID      *string `json:"teacherId"`
	TeacherName    *string `json:"teacherName"`
	StudentCount   int     `json:"studentCount"`
	AttendanceRate float64 `json:"attendanceRate"`
}

func ToResponse(c ClassStats) ClassResponse {
	return ClassResponse{
		ID:             c.ID,
		Name:           c.Name,
		GradeLevel:     c.GradeLevel,
		TeacherID:      c.TeacherID,
		TeacherName:    c.TeacherName,
		StudentCount:   c.StudentCount,
		AttendanceRate: c.AttendanceRate(),
	}
}

// ClassBrief is the short form embedded in teacher views.
type ClassBrief struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GradeLevel   string `json:"gradeLevel"`
	StudentCount int    `json:"studentCount"`
}

func ToBrief(c ClassStats) ClassBrief {
	return ClassBrief{
		ID:           c.ID,
		Name:         c.Name,
		GradeLevel:   c.GradeLevel,
		StudentCount: c.StudentCount,
	}
}
