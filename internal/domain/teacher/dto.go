package teacher

import (
	"strings"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

type CreateTeacherRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
	ClassID   *string `json:"classId,omitempty"`
}

func (r *CreateTeacherRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r).Err()
}

// UpdateTeacherRequest patches a teacher. When ClassID is present the teacher is
// removed from every class and, if it is non-empty, assigned to that one.
type UpdateTeacherRequest struct {
	ID        string  `json:"-"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	ClassID   *string `json:"classId,omitempty"`
}

func (r *UpdateTeacherRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, f := range []struct {
		name  string
		value **string
	}{
		{"firstName", &r.FirstName},
		{"lastName", &r.LastName},
		{"email", &r.Email},
	} {
		if *f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(**f.value)
		*f.value = &trimmed
		if trimmed == "" {
			errs.Add(f.name, f.name+" is required")
		}
	}

	if r.Email != nil && *r.Email != "" {
		lowered := strings.ToLower(*r.Email)
		r.Email = &lowered
		if !validator.IsValidEmail(lowered) {
			errs.Add("email", "email must be a valid email address")
		}
	}
	if r.Password != nil && *r.Password != "" && (len(*r.Password) < 6 || len(*r.Password) > 72) {
		errs.Add("password", "password must be between 6 and 72 characters long")
	}
	if r.ClassID != nil {
		trimmed := strings.TrimSpace(*r.ClassID)
		r.ClassID = &trimmed
	}

	return errs.Err()
}

type RecordAttendanceRequest struct {
	TeacherID string `json:"-"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required"`
}

func (r *RecordAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Status != "" {
		if _, err := attendance.ParseClientStatus(r.Status); err != nil {
			errs.Add("status", err.Error())
		}
	}
	return errs.Err()
}

type TeacherResponse struct {
	ID              string             `json:"id"`
	FirstName       string             `json:"firstName"`
	LastName        string             `json:"lastName"`
	Email           string             `json:"email"`
	AssignedClasses []class.ClassBrief `json:"assignedClasses"`
}

type TeacherAttendanceResponse struct {
	ID        string `json:"id"`
	TeacherID string `json:"teacherId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type ProfileTeacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProfileAttendance struct {
	Total          int `json:"total"`
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	Late           int `json:"late"`
	Leave          int `json:"leave"`
	AttendanceRate int `json:"attendanceRate"`
}

type ProfileResponse struct {
	Teacher           ProfileTeacher     `json:"teacher"`
	Classes           []class.ClassBrief `json:"classes"`
	AttendanceSummary ProfileAttendance  `json:"attendanceSummary"`
}
