package report

import (
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

// ========================================
// QUERIES
// ========================================

// PeriodQuery carries the optional period and explicit bounds of a report request.
// An unknown period value falls back to the report's default rather than failing.
type PeriodQuery struct {
	Period    string `json:"period"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	ClassID   string `json:"classId"`
}

func (q *PeriodQuery) Validate() error {
	errs := validator.Struct(q)
	if len(errs) == 0 && q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		errs.Add("startDate", "startDate must not be after endDate")
	}
	return errs.Err()
}

// Resolve turns the query into a concrete range in now's location.
func (q PeriodQuery) Resolve(fallback period.Period, now time.Time) (period.Period, period.Range, error) {
	p := period.Parse(q.Period, fallback)
	loc := now.Location()

	var start, end *time.Time
	if q.StartDate != "" {
		t, err := period.ParseDate(q.StartDate, loc)
		if err != nil {
			return p, period.Range{}, validator.ValidationErrors{{Field: "startDate", Message: "startDate must match the format 2006-01-02"}}
		}
		start = &t
	}
	if q.EndDate != "" {
		t, err := period.ParseDate(q.EndDate, loc)
		if err != nil {
			return p, period.Range{}, validator.ValidationErrors{{Field: "endDate", Message: "endDate must match the format 2006-01-02"}}
		}
		end = &t
	}

	r := period.Resolve(p, start, end, now)
	if r.Start.After(r.End) {
		return p, period.Range{}, validator.ValidationErrors{{Field: "startDate", Message: "startDate must not be after endDate"}}
	}
	return p, r, nil
}

type StudentMonthlyQuery struct {
	TeacherID string `json:"-"`
	StudentID string `json:"studentId" validate:"required"`
	Month     int    `json:"month" validate:"omitempty,gte=1,lte=12"`
	Year      int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
}

func (q *StudentMonthlyQuery) Validate() error {
	return validator.Struct(q).Err()
}

// ========================================
// RESPONSES
// ========================================

// RecordLine is one record in a drill-down list. Status is the stored uppercase form.
type RecordLine struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	ClassName   string `json:"className"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}

func ToRecordLine(r attendance.RecordDetail) RecordLine {
	return RecordLine{
		ID:          r.ID,
		StudentID:   r.StudentID,
		StudentName: r.StudentName(),
		ClassName:   r.ClassName,
		Status:      string(r.Status),
		Date:        period.FormatDate(r.Date),
	}
}

type ClassSummaryResponse struct {
	Period         period.Period `json:"period"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	ClassID        string        `json:"classId"`
	ClassName      string        `json:"className"`
	Summary        Counts        `json:"summary"`
	AttendanceRate string        `json:"attendanceRate"`
	Students       []Breakdown   `json:"students"`
	Records        []RecordLine  `json:"records"`
}

type SchoolSummaryResponse struct {
	Period         period.Period `json:"period"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	Summary        Counts        `json:"summary"`
	AttendanceRate string        `json:"attendanceRate"`
	Classes        []Breakdown   `json:"classes"`
	Records        []RecordLine  `json:"records"`
}

type DailyRecord struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type StudentDaily struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ClassName    string        `json:"className"`
	ClassID      string        `json:"classId"`
	DailyRecords []DailyRecord `json:"dailyRecords"`
	Summary      Counts        `json:"summary"`
}

type StudentDailyResponse struct {
	Period    period.Period  `json:"period"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Students  []StudentDaily `json:"students"`
}

type TeacherInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type TeacherDetailResponse struct {
	Teacher        TeacherInfo        `json:"teacher"`
	Classes        []class.ClassBrief `json:"classes"`
	Attendance     Counts             `json:"attendance"`
	AttendanceRate string             `json:"attendanceRate"`
	Period         period.Period      `json:"period"`
	StartDate      string             `json:"startDate"`
	EndDate        string             `json:"endDate"`
}

// DayLog is one day of a class's attendance history.
type DayLog struct {
	Date string `json:"date"`
	attendance.StatusCounts
}

type StudentMonthlyResponse struct {
	StudentID      string        `json:"studentId"`
	StudentName    string        `json:"studentName"`
	ClassID        string        `json:"classId"`
	ClassName      string        `json:"className"`
	Month          int           `json:"month"`
	Year           int           `json:"year"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	Records        []DailyRecord `json:"records"`
	Summary        Counts        `json:"summary"`
	AttendanceRate string        `json:"attendanceRate"`
}
