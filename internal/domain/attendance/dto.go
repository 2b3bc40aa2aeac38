package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

type Submission struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

type SaveDraftRequest struct {
	TeacherID   string       `json:"-"`
	ClassID     string       `json:"classId" validate:"required"`
	Submissions []Submission `json:"submissions" validate:"dive"`
}

func (r *SaveDraftRequest) Validate() error {
	errs := validator.Struct(r)
	errs = validateSubmissions(errs, r.Submissions)
	return errs.Err()
}

type SubmitAttendanceRequest struct {
	TeacherID   string       `json:"-"`
	ClassID     string       `json:"classId" validate:"required"`
	Submissions []Submission `json:"submissions" validate:"dive"`
}

func (r *SubmitAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	errs = validateSubmissions(errs, r.Submissions)
	return errs.Err()
}

// UpdateAttendanceRequest corrects a past day. ClassID comes from the URL.
type UpdateAttendanceRequest struct {
	TeacherID   string       `json:"-"`
	ClassID     string       `json:"classId" validate:"required"`
	Date        string       `json:"date" validate:"required,datetime=2006-01-02"`
	Submissions []Submission `json:"submissions" validate:"dive"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	errs = validateSubmissions(errs, r.Submissions)
	return errs.Err()
}

func validateSubmissions(errs validator.ValidationErrors, submissions []Submission) validator.ValidationErrors {
	seen := make(map[string]struct{}, len(submissions))
	for i, s := range submissions {
		prefix := fmt.Sprintf("submissions[%d]", i)
		if s.Status != "" {
			if _, err := ParseClientStatus(s.Status); err != nil {
				errs.Add(prefix+".status", err.Error())
			}
		}
		if s.StudentID == "" {
			continue
		}
		if _, dup := seen[s.StudentID]; dup {
			errs.Add(prefix+".studentId", "studentId appears more than once")
		}
		seen[s.StudentID] = struct{}{}
	}
	return errs
}

type HistoryQuery struct {
	TeacherID string `json:"-"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

func (q *HistoryQuery) Validate() error {
	return validator.Struct(q).Err()
}

type DetailsQuery struct {
	TeacherID string `json:"-"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (q *DetailsQuery) Validate() error {
	return validator.Struct(q).Err()
}

// ========================================
// RESPONSES
// ========================================

// DayStatus is the lifecycle state of a class's attendance for one day.
type DayStatus string

const (
	DayStatusSubmitted DayStatus = "submitted"
	DayStatusDraft     DayStatus = "draft"
	DayStatusPending   DayStatus = "pending"
	DayStatusNoClass   DayStatus = "no-class"
)

type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Leave   int `json:"leave"`
}

func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusLate:
		c.Late++
	case StatusLeave:
		c.Leave++
	}
}

func (c *StatusCounts) Merge(o StatusCounts) {
	c.Present += o.Present
	c.Absent += o.Absent
	c.Late += o.Late
	c.Leave += o.Leave
}

type DashboardSubmission struct {
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName"`
	Status      string  `json:"status"`
	HasRecord   bool    `json:"hasRecord"`
	IsDraft     bool    `json:"isDraft"`
	LastUpdated *string `json:"lastUpdated"`
}

type QuickActions struct {
	LastSubmittedAt *string `json:"lastSubmittedAt"`
	NextClass       *string `json:"nextClass"`
	PendingStudents int     `json:"pendingStudents"`
	DraftCount      int     `json:"draftCount"`
}

type Notification struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Date    string `json:"date"`
}

type DashboardResponse struct {
	Date             string                `json:"date"`
	ClassID          *string               `json:"classId"`
	ClassName        *string               `json:"className"`
	TotalStudents    int                   `json:"totalStudents"`
	AttendanceStatus DayStatus             `json:"attendanceStatus"`
	Summary          StatusCounts          `json:"summary"`
	Submissions      []DashboardSubmission `json:"submissions"`
	QuickActions     QuickActions          `json:"quickActions"`
	Notifications    []Notification        `json:"notifications"`
}

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type DaySummary struct {
	Date string `json:"date"`
	StatusCounts
	Editable bool `json:"editable"`
}

type HistoryResponse struct {
	Range     DateRange    `json:"range"`
	Summaries []DaySummary `json:"summaries"`
	Totals    StatusCounts `json:"totals"`
}

type StudentMark struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Status      string `json:"status"`
}

type ClassDayDetail struct {
	ClassID     string        `json:"classId"`
	ClassName   string        `json:"className"`
	Submissions []StudentMark `json:"submissions"`
	Editable    bool          `json:"editable"`
}
