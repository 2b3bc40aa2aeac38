package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/utils"
)

type ReportServiceImpl struct {
	clock             clock.Clock
	records           attendance.RecordRepository
	teacherAttendance attendance.TeacherAttendanceRepository
	classes           class.ClassRepository
	students          student.StudentRepository
	users             user.UserRepository
}

func NewReportService(
	clk clock.Clock,
	records attendance.RecordRepository,
	teacherAttendance attendance.TeacherAttendanceRepository,
	classes class.ClassRepository,
	students student.StudentRepository,
	users user.UserRepository,
) report.ReportService {
	return &ReportServiceImpl{
		clock:             clk,
		records:           records,
		teacherAttendance: teacherAttendance,
		classes:           classes,
		students:          students,
		users:             users,
	}
}

// resolve validates the query and turns it into a concrete range.
func (s *ReportServiceImpl) resolve(query report.PeriodQuery, fallback period.Period) (period.Period, period.Range, error) {
	if err := query.Validate(); err != nil {
		return "", period.Range{}, err
	}
	return query.Resolve(fallback, s.clock.Now())
}

func toLines(records []attendance.RecordDetail) []report.RecordLine {
	lines := make([]report.RecordLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, report.ToRecordLine(r))
	}
	return lines
}

// ClassSummary implements report.ReportService.
func (s *ReportServiceImpl) ClassSummary(ctx context.Context, classID string, query report.PeriodQuery) (report.ClassSummaryResponse, error) {
	p, rng, err := s.resolve(query, period.Daily)
	if err != nil {
		return report.ClassSummaryResponse{}, err
	}

	c, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return report.ClassSummaryResponse{}, err
		}
		return report.ClassSummaryResponse{}, fmt.Errorf("failed to get class: %w", err)
	}

	records, err := s.records.List(ctx, attendance.RecordFilter{
		ClassIDs: []string{classID},
		From:     rng.FromDate(),
		To:       rng.ToDate(),
	})
	if err != nil {
		return report.ClassSummaryResponse{}, fmt.Errorf("failed to list class attendance: %w", err)
	}

	tally := report.NewTally()
	for _, r := range records {
		tally.Add(r.StudentID, r.StudentName(), r.Status)
	}

	return report.ClassSummaryResponse{
		Period:         p,
		StartDate:      rng.StartDate(),
		EndDate:        rng.EndDate(),
		ClassID:        c.ID,
		ClassName:      c.Name,
		Summary:        tally.Summary,
		AttendanceRate: report.Percentage(tally.Summary.Present, tally.Summary.Total),
		Students:       tally.Groups(),
		Records:        toLines(records),
	}, nil
}

// SchoolSummary implements report.ReportService.
func (s *ReportServiceImpl) SchoolSummary(ctx context.Context, query report.PeriodQuery) (report.SchoolSummaryResponse, error) {
	p, rng, err := s.resolve(query, period.Daily)
	if err != nil {
		return report.SchoolSummaryResponse{}, err
	}

	records, err := s.records.List(ctx, attendance.RecordFilter{From: rng.FromDate(), To: rng.ToDate()})
	if err != nil {
		return report.SchoolSummaryResponse{}, fmt.Errorf("failed to list school attendance: %w", err)
	}

	tally := report.NewTally()
	for _, r := range records {
		tally.Add(r.ClassID, r.ClassName, r.Status)
	}

	return report.SchoolSummaryResponse{
		Period:         p,
		StartDate:      rng.StartDate(),
		EndDate:        rng.EndDate(),
		Summary:        tally.Summary,
		AttendanceRate: report.Percentage(tally.Summary.Present, tally.Summary.Total),
		Classes:        tally.Groups(),
		Records:        toLines(records),
	}, nil
}

// StudentDaily implements report.ReportService.
func (s *ReportServiceImpl) StudentDaily(ctx context.Context, query report.PeriodQuery) (report.StudentDailyResponse, error) {
	p, rng, err := s.resolve(query, period.Weekly)
	if err != nil {
		return report.StudentDailyResponse{}, err
	}

	filter := attendance.RecordFilter{From: rng.FromDate(), To: rng.ToDate()}
	if query.ClassID != "" {
		if _, err := s.classes.GetByID(ctx, query.ClassID); err != nil {
			if errors.Is(err, class.ErrClassNotFound) {
				return report.StudentDailyResponse{}, err
			}
			return report.StudentDailyResponse{}, fmt.Errorf("failed to get class: %w", err)
		}
		filter.ClassIDs = []string{query.ClassID}
	}

	records, err := s.records.List(ctx, filter)
	if err != nil {
		return report.StudentDailyResponse{}, fmt.Errorf("failed to list student attendance: %w", err)
	}

	byStudent := make(map[string]*report.StudentDaily)
	var order []string
	for _, r := range records {
		sd, ok := byStudent[r.StudentID]
		if !ok {
			sd = &report.StudentDaily{
				ID:           r.StudentID,
				Name:         r.StudentName(),
				ClassName:    r.ClassName,
				ClassID:      r.ClassID,
				DailyRecords: []report.DailyRecord{},
			}
			byStudent[r.StudentID] = sd
			order = append(order, r.StudentID)
		}
		sd.DailyRecords = append(sd.DailyRecords, report.DailyRecord{
			Date:   period.FormatDate(r.Date),
			Status: string(r.Status),
		})
		sd.Summary.Add(r.Status)
	}

	students := make([]report.StudentDaily, 0, len(order))
	for _, id := range order {
		students = append(students, *byStudent[id])
	}
	utils.SortByName(students, func(sd report.StudentDaily) string { return sd.Name })

	return report.StudentDailyResponse{
		Period:    p,
		StartDate: rng.StartDate(),
		EndDate:   rng.EndDate(),
		Students:  students,
	}, nil
}

// TeacherDetail implements report.ReportService.
func (s *ReportServiceImpl) TeacherDetail(ctx context.Context, teacherID string, query report.PeriodQuery) (report.TeacherDetailResponse, error) {
	p, rng, err := s.resolve(query, period.Monthly)
	if err != nil {
		return report.TeacherDetailResponse{}, err
	}

	t, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return report.TeacherDetailResponse{}, teacher.ErrTeacherNotFound
		}
		return report.TeacherDetailResponse{}, fmt.Errorf("failed to get teacher: %w", err)
	}
	if !t.IsTeacher() {
		return report.TeacherDetailResponse{}, teacher.ErrTeacherNotFound
	}

	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return report.TeacherDetailResponse{}, fmt.Errorf("failed to list teacher classes: %w", err)
	}

	marks, err := s.teacherAttendance.ListByTeacher(ctx, teacherID, rng.FromDate(), rng.ToDate())
	if err != nil {
		return report.TeacherDetailResponse{}, fmt.Errorf("failed to list teacher attendance: %w", err)
	}

	var counts report.Counts
	for _, m := range marks {
		counts.Add(m.Status)
	}

	briefs := make([]class.ClassBrief, 0, len(classes))
	for _, c := range classes {
		briefs = append(briefs, class.ToBrief(c))
	}

	return report.TeacherDetailResponse{
		Teacher: report.TeacherInfo{
			ID:        t.ID,
			FirstName: t.FirstName,
			LastName:  t.LastName,
			Email:     t.Email,
		},
		Classes:        briefs,
		Attendance:     counts,
		AttendanceRate: report.Percentage(counts.Present, counts.Total),
		Period:         p,
		StartDate:      rng.StartDate(),
		EndDate:        rng.EndDate(),
	}, nil
}

// ClassAttendanceLog implements report.ReportService.
func (s *ReportServiceImpl) ClassAttendanceLog(ctx context.Context, classID string) ([]report.DayLog, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	records, err := s.records.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list class attendance: %w", err)
	}

	logs := []report.DayLog{}
	index := make(map[string]int)
	for _, r := range records {
		key := period.FormatDate(r.Date)
		i, ok := index[key]
		if !ok {
			i = len(logs)
			index[key] = i
			logs = append(logs, report.DayLog{Date: key})
		}
		logs[i].Add(r.Status)
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })

	return logs, nil
}

// StudentMonthly implements report.ReportService.
func (s *ReportServiceImpl) StudentMonthly(ctx context.Context, query report.StudentMonthlyQuery) (report.StudentMonthlyResponse, error) {
	if err := query.Validate(); err != nil {
		return report.StudentMonthlyResponse{}, err
	}

	st, err := s.students.GetByID(ctx, query.StudentID)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return report.StudentMonthlyResponse{}, err
		}
		return report.StudentMonthlyResponse{}, fmt.Errorf("failed to get student: %w", err)
	}

	classes, err := s.classes.ListByTeacher(ctx, query.TeacherID)
	if err != nil {
		return report.StudentMonthlyResponse{}, fmt.Errorf("failed to list teacher classes: %w", err)
	}
	teaches := false
	for _, c := range classes {
		if c.ID == st.ClassID {
			teaches = true
			break
		}
	}
	if !teaches {
		return report.StudentMonthlyResponse{}, student.ErrStudentNotFound
	}

	now := s.clock.Now()
	year, month := now.Year(), now.Month()
	if query.Year != 0 {
		year = query.Year
	}
	if query.Month != 0 {
		month = time.Month(query.Month)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	records, err := s.records.List(ctx, attendance.RecordFilter{
		StudentIDs: []string{st.ID},
		From:       first,
		To:         last,
	})
	if err != nil {
		return report.StudentMonthlyResponse{}, fmt.Errorf("failed to list student attendance: %w", err)
	}

	resp := report.StudentMonthlyResponse{
		StudentID:   st.ID,
		StudentName: st.FullName(),
		ClassID:     st.ClassID,
		ClassName:   st.ClassName,
		Month:       int(month),
		Year:        year,
		StartDate:   period.FormatDate(first),
		EndDate:     period.FormatDate(last),
		Records:     make([]report.DailyRecord, 0, len(records)),
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		resp.Records = append(resp.Records, report.DailyRecord{
			Date:   period.FormatDate(r.Date),
			Status: string(r.Status),
		})
		resp.Summary.Add(r.Status)
	}
	resp.AttendanceRate = report.Percentage(resp.Summary.Present, resp.Summary.Total)

	return resp, nil
}
