package report

import "context"

// ReportService aggregates submitted attendance over resolved periods.
type ReportService interface {
	// ClassSummary defaults to the daily period
	ClassSummary(ctx context.Context, classID string, query PeriodQuery) (ClassSummaryResponse, error)

	// SchoolSummary defaults to the daily period
	SchoolSummary(ctx context.Context, query PeriodQuery) (SchoolSummaryResponse, error)

	// StudentDaily defaults to the weekly period; query.ClassID narrows it to one class
	StudentDaily(ctx context.Context, query PeriodQuery) (StudentDailyResponse, error)

	// TeacherDetail defaults to the monthly period
	TeacherDetail(ctx context.Context, teacherID string, query PeriodQuery) (TeacherDetailResponse, error)

	ClassAttendanceLog(ctx context.Context, classID string) ([]DayLog, error)

	StudentMonthly(ctx context.Context, query StudentMonthlyQuery) (StudentMonthlyResponse, error)
}
