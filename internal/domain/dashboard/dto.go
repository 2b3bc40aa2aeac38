package dashboard

// OverviewResponse is the admin landing page.
type OverviewResponse struct {
	Students   StudentStats       `json:"students"`
	Attendance AttendanceOverview `json:"attendance"`
	Teachers   TeacherCoverage    `json:"teachers"`
	Classes    ClassDistribution  `json:"classes"`
}

type StudentStats struct {
	Total int `json:"total"`
	Delta int `json:"delta"`
}

// AttendanceOverview.Rate is a 0..1 fraction over the history window.
type AttendanceOverview struct {
	Rate    float64     `json:"rate"`
	History []DayBucket `json:"history"`
}

// DayBucket counts every non-present status as absent.
type DayBucket struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// TeacherCoverage.Coverage reads "assigned/total", e.g. "12/15".
type TeacherCoverage struct {
	Coverage string `json:"coverage"`
}

type ClassDistribution struct {
	Distribution []ClassShare `json:"distribution"`
}

type ClassShare struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Students    int     `json:"students"`
	Attendance  int     `json:"attendance"`
	GradeLevel  string  `json:"gradeLevel"`
	TeacherName *string `json:"teacherName"`
}
