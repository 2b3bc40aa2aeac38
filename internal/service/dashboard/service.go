package dashboard

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// historyDays is the length of the daily attendance history, today included.
const historyDays = 14

type DashboardServiceImpl struct {
	clock    clock.Clock
	records  attendance.RecordRepository
	classes  class.ClassRepository
	students student.StudentRepository
	users    user.UserRepository
}

func NewDashboardService(
	clk clock.Clock,
	records attendance.RecordRepository,
	classes class.ClassRepository,
	students student.StudentRepository,
	users user.UserRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		clock:    clk,
		records:  records,
		classes:  classes,
		students: students,
		users:    users,
	}
}

// Overview runs one query per section in parallel.
func (s *DashboardServiceImpl) Overview(ctx context.Context) (dashboard.OverviewResponse, error) {
	window := period.Trailing(historyDays, s.clock.Now())

	var (
		students []student.Student
		records  []attendance.RecordDetail
		classes  []class.ClassStats
		teachers []user.User
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if students, err = s.students.List(gCtx); err != nil {
			return fmt.Errorf("failed to list students: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		records, err = s.records.List(gCtx, attendance.RecordFilter{From: window.FromDate(), To: window.ToDate()})
		if err != nil {
			return fmt.Errorf("failed to list recent attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if classes, err = s.classes.List(gCtx); err != nil {
			return fmt.Errorf("failed to list classes: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if teachers, err = s.users.ListByRole(gCtx, user.RoleTeacher); err != nil {
			return fmt.Errorf("failed to list teachers: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.OverviewResponse{}, err
	}

	var resp dashboard.OverviewResponse

	resp.Students.Total = len(students)
	for _, st := range students {
		if !st.CreatedAt.Before(window.Start) {
			resp.Students.Delta++
		}
	}

	resp.Attendance.History = make([]dashboard.DayBucket, historyDays)
	index := make(map[string]int, historyDays)
	for i := range resp.Attendance.History {
		key := period.FormatDate(window.Start.AddDate(0, 0, i))
		resp.Attendance.History[i].Date = key
		index[key] = i
	}
	present := 0
	for _, r := range records {
		i, ok := index[period.FormatDate(r.Date)]
		if !ok {
			continue
		}
		if r.Status == attendance.StatusPresent {
			resp.Attendance.History[i].Present++
			present++
		} else {
			resp.Attendance.History[i].Absent++
		}
	}
	if len(records) > 0 {
		resp.Attendance.Rate = float64(present) / float64(len(records))
	}

	assigned := make(map[string]bool)
	resp.Classes.Distribution = make([]dashboard.ClassShare, 0, len(classes))
	for _, c := range classes {
		if c.TeacherID != nil {
			assigned[*c.TeacherID] = true
		}
		resp.Classes.Distribution = append(resp.Classes.Distribution, dashboard.ClassShare{
			ID:          c.ID,
			Name:        c.Name,
			Students:    c.StudentCount,
			Attendance:  utils.RoundPercent(c.PresentCount, c.RecordCount),
			GradeLevel:  c.GradeLevel,
			TeacherName: c.TeacherName,
		})
	}

	covered := 0
	for _, t := range teachers {
		if assigned[t.ID] {
			covered++
		}
	}
	resp.Teachers.Coverage = fmt.Sprintf("%d/%d", covered, len(teachers))

	return resp, nil
}
