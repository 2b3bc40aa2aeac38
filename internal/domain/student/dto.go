package student

import (
	"strings"

	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

type CreateStudentRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	RollNumber string `json:"rollNumber" validate:"required,max=20"`
	ClassID    string `json:"classId" validate:"required"`
}

func (r *CreateStudentRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.RollNumber = strings.TrimSpace(r.RollNumber)
	r.ClassID = strings.TrimSpace(r.ClassID)
	return validator.Struct(r).Err()
}

// UpdateStudentRequest patches only the fields present in the body.
type UpdateStudentRequest struct {
	ID         string  `json:"-"`
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	RollNumber *string `json:"rollNumber,omitempty"`
	ClassID    *string `json:"classId,omitempty"`
}

func (r *UpdateStudentRequest) Validate() error {
	var errs validator.ValidationErrors

	trim := func(field string, v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			errs.Add(field, field+" must not be empty")
		}
		return &t
	}

	r.FirstName = trim("firstName", r.FirstName)
	r.LastName = trim("lastName", r.LastName)
	r.RollNumber = trim("rollNumber", r.RollNumber)
	r.ClassID = trim("classId", r.ClassID)

	return errs.Err()
}

type StudentResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	RollNumber string `json:"rollNumber"`
	ClassID    string `json:"classId"`
	ClassName  string `json:"className"`
	GradeLevel string `json:"gradeLevel"`
}

func ToResponse(s Student) StudentResponse {
	return StudentResponse{
		ID:         s.ID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		RollNumber: s.RollNumber,
		ClassID:    s.ClassID,
		ClassName:  s.ClassName,
		GradeLevel: s.GradeLevel,
	}
}

// RosterEntry is a student as listed on a teacher's class page.
type RosterEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ClassID   string `json:"classId"`
}
