package insight

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/insight"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const (
	insightWindowDays   = 30
	analyticsWindowDays = 90
	weeklyBuckets       = 12
	monthlyBuckets      = 4
	monthBucketDays     = 30
	peakAbsenceLimit    = 5
)

const trendLabelLayout = "Jan 2"

type InsightServiceImpl struct {
	clock    clock.Clock
	records  attendance.RecordRepository
	classes  class.ClassRepository
	students student.StudentRepository
}

func NewInsightService(
	clk clock.Clock,
	records attendance.RecordRepository,
	classes class.ClassRepository,
	students student.StudentRepository,
) insight.InsightService {
	return &InsightServiceImpl{
		clock:    clk,
		records:  records,
		classes:  classes,
		students: students,
	}
}

func (s *InsightServiceImpl) classIDs(ctx context.Context, teacherID string) ([]string, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher classes: %w", err)
	}
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// Insights implements insight.InsightService.
func (s *InsightServiceImpl) Insights(ctx context.Context, teacherID string) (insight.InsightsResponse, error) {
	window := period.Trailing(insightWindowDays, s.clock.Now())
	resp := insight.InsightsResponse{
		Period: attendance.DateRange{
			StartDate: window.StartDate(),
			EndDate:   window.EndDate(),
		},
		LowAttendanceStudents: []insight.LowAttendanceStudent{},
		ConsecutiveAbsences:   []insight.AbsenceStreak{},
	}

	classIDs, err := s.classIDs(ctx, teacherID)
	if err != nil {
		return insight.InsightsResponse{}, err
	}
	if len(classIDs) == 0 {
		return resp, nil
	}

	roster, err := s.students.ListByClasses(ctx, classIDs)
	if err != nil {
		return insight.InsightsResponse{}, fmt.Errorf("failed to list students: %w", err)
	}
	if len(roster) == 0 {
		return resp, nil
	}

	studentIDs := make([]string, 0, len(roster))
	for _, st := range roster {
		studentIDs = append(studentIDs, st.ID)
	}

	records, err := s.records.List(ctx, attendance.RecordFilter{
		StudentIDs: studentIDs,
		From:       window.FromDate(),
		To:         window.ToDate(),
	})
	if err != nil {
		return insight.InsightsResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	// records arrive newest first
	byStudent := make(map[string][]attendance.Status)
	lastAbsent := make(map[string]string)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r.Status)
		if _, ok := lastAbsent[r.StudentID]; !ok && r.Status == attendance.StatusAbsent {
			lastAbsent[r.StudentID] = period.FormatDate(r.Date)
		}
	}

	for _, st := range roster {
		statuses := byStudent[st.ID]
		if len(statuses) == 0 {
			continue
		}

		present := 0
		for _, status := range statuses {
			if status == attendance.StatusPresent {
				present++
			}
		}
		rate := utils.RoundPercent(present, len(statuses))
		if rate < insight.LowAttendanceThreshold {
			resp.LowAttendanceStudents = append(resp.LowAttendanceStudents, insight.LowAttendanceStudent{
				StudentID:      st.ID,
				StudentName:    st.FullName(),
				ClassName:      st.ClassName,
				AttendanceRate: rate,
				Present:        present,
				Total:          len(statuses),
			})
		}

		streak := 0
		for _, status := range statuses {
			if status != attendance.StatusAbsent {
				break
			}
			streak++
		}
		if streak >= insight.MinAbsenceStreak {
			date := lastAbsent[st.ID]
			resp.ConsecutiveAbsences = append(resp.ConsecutiveAbsences, insight.AbsenceStreak{
				StudentID:      st.ID,
				StudentName:    st.FullName(),
				ClassName:      st.ClassName,
				Streak:         streak,
				LastAbsentDate: &date,
			})
		}
	}

	sort.SliceStable(resp.LowAttendanceStudents, func(i, j int) bool {
		return resp.LowAttendanceStudents[i].AttendanceRate < resp.LowAttendanceStudents[j].AttendanceRate
	})
	sort.SliceStable(resp.ConsecutiveAbsences, func(i, j int) bool {
		return resp.ConsecutiveAbsences[i].Streak > resp.ConsecutiveAbsences[j].Streak
	})

	return resp, nil
}

// presentRate is the rounded share of PRESENT records dated within r, 0 when none are.
func presentRate(records []attendance.RecordDetail, r period.Range) int {
	from, to := r.FromDate(), r.ToDate()
	present, total := 0, 0
	for _, rec := range records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		total++
		if rec.Status == attendance.StatusPresent {
			present++
		}
	}
	return utils.RoundPercent(present, total)
}

func trendLabel(r period.Range) string {
	return r.Start.Format(trendLabelLayout) + " - " + r.End.Format(trendLabelLayout)
}

// Analytics implements insight.InsightService.
func (s *InsightServiceImpl) Analytics(ctx context.Context, teacherID string) (insight.AnalyticsResponse, error) {
	resp := insight.AnalyticsResponse{
		WeeklyTrend:     []insight.WeeklyPoint{},
		MonthlyTrend:    []insight.MonthlyPoint{},
		PeakAbsenceDays: []insight.AbsenceDay{},
	}

	classIDs, err := s.classIDs(ctx, teacherID)
	if err != nil {
		return insight.AnalyticsResponse{}, err
	}
	if len(classIDs) == 0 {
		return resp, nil
	}

	now := s.clock.Now()
	window := period.Trailing(analyticsWindowDays, now)

	var classRecords, schoolRecords []attendance.RecordDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		classRecords, err = s.records.List(gctx, attendance.RecordFilter{
			ClassIDs: classIDs,
			From:     window.FromDate(),
			To:       window.ToDate(),
		})
		if err != nil {
			return fmt.Errorf("failed to list class attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		schoolRecords, err = s.records.List(gctx, attendance.RecordFilter{
			From: window.FromDate(),
			To:   window.ToDate(),
		})
		if err != nil {
			return fmt.Errorf("failed to list school attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return insight.AnalyticsResponse{}, err
	}

	for k := weeklyBuckets - 1; k >= 0; k-- {
		bucket := period.Trailing(7, now.AddDate(0, 0, -7*k))
		resp.WeeklyTrend = append(resp.WeeklyTrend, insight.WeeklyPoint{
			Week:       trendLabel(bucket),
			ClassRate:  presentRate(classRecords, bucket),
			SchoolRate: presentRate(schoolRecords, bucket),
		})
	}
	for k := monthlyBuckets - 1; k >= 0; k-- {
		bucket := period.Trailing(monthBucketDays, now.AddDate(0, 0, -monthBucketDays*k))
		resp.MonthlyTrend = append(resp.MonthlyTrend, insight.MonthlyPoint{
			Month:      trendLabel(bucket),
			ClassRate:  presentRate(classRecords, bucket),
			SchoolRate: presentRate(schoolRecords, bucket),
		})
	}

	counts := make(map[string]int)
	for _, r := range classRecords {
		if r.Status != attendance.StatusAbsent {
			continue
		}
		key := period.FormatDate(r.Date)
		if counts[key] == 0 {
			resp.PeakAbsenceDays = append(resp.PeakAbsenceDays, insight.AbsenceDay{Date: key})
		}
		counts[key]++
	}
	for i := range resp.PeakAbsenceDays {
		resp.PeakAbsenceDays[i].Count = counts[resp.PeakAbsenceDays[i].Date]
	}
	sort.SliceStable(resp.PeakAbsenceDays, func(i, j int) bool {
		return resp.PeakAbsenceDays[i].Count > resp.PeakAbsenceDays[j].Count
	})
	if len(resp.PeakAbsenceDays) > peakAbsenceLimit {
		resp.PeakAbsenceDays = resp.PeakAbsenceDays[:peakAbsenceLimit]
	}

	return resp, nil
}
