package insight

import "github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"

// LowAttendanceThreshold is the rounded percentage below which a student is flagged.
const LowAttendanceThreshold = 75

// MinAbsenceStreak is the shortest run of trailing absences worth reporting.
const MinAbsenceStreak = 2

type LowAttendanceStudent struct {
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`
	ClassName      string `json:"className"`
	AttendanceRate int    `json:"attendanceRate"`
	Present        int    `json:"present"`
	Total          int    `json:"total"`
}

type AbsenceStreak struct {
	StudentID      string  `json:"studentId"`
	StudentName    string  `json:"studentName"`
	ClassName      string  `json:"className"`
	Streak         int     `json:"streak"`
	LastAbsentDate *string `json:"lastAbsentDate"`
}

type InsightsResponse struct {
	Period                attendance.DateRange   `json:"period"`
	LowAttendanceStudents []LowAttendanceStudent `json:"lowAttendanceStudents"`
	ConsecutiveAbsences   []AbsenceStreak        `json:"consecutiveAbsences"`
}

type WeeklyPoint struct {
	Week       string `json:"week"`
	ClassRate  int    `json:"classRate"`
	SchoolRate int    `json:"schoolRate"`
}

type MonthlyPoint struct {
	Month      string `json:"month"`
	ClassRate  int    `json:"classRate"`
	SchoolRate int    `json:"schoolRate"`
}

type AbsenceDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnalyticsResponse struct {
	WeeklyTrend     []WeeklyPoint  `json:"weeklyTrend"`
	MonthlyTrend    []MonthlyPoint `json:"monthlyTrend"`
	PeakAbsenceDays []AbsenceDay   `json:"peakAbsenceDays"`
}
