package export

import (
	"testing"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestClassSummary_Workbook(t *testing.T) {
	resp := report.ClassSummaryResponse{
		Period:         period.Daily,
		StartDate:      "2024-03-13",
		EndDate:        "2024-03-13",
		ClassName:      "Grade 2",
		Summary:        report.Counts{Total: 2, Present: 1, Absent: 1},
		AttendanceRate: "50.0",
		Students: []report.Breakdown{
			{ID: "a", Name: "Ali Khan", Counts: report.Counts{Total: 1, Present: 1}},
			{ID: "z", Name: "Zara Khan", Counts: report.Counts{Total: 1, Absent: 1}},
		},
		Records: []report.RecordLine{
			{StudentName: "Ali Khan", ClassName: "Grade 2", Status: "PRESENT", Date: "2024-03-13"},
			{StudentName: "Zara Khan", ClassName: "Grade 2", Status: "ABSENT", Date: "2024-03-13"},
		},
	}

	buf, err := ClassSummary(resp)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Records"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Class attendance: Grade 2", title)

	rate, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "50.0", rate)

	total, err := f.GetCellValue("Summary", "B8")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	zara, err := f.GetCellValue("Summary", "A12")
	require.NoError(t, err)
	assert.Equal(t, "Zara Khan", zara)
	zaraRate, err := f.GetCellValue("Summary", "G12")
	require.NoError(t, err)
	assert.Equal(t, "0.0", zaraRate)

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Student", "Class", "Status"}, rows[0])
	assert.Equal(t, []string{"2024-03-13", "Zara Khan", "Grade 2", "ABSENT"}, rows[2])
}

func TestSchoolSummary_EmptyWorkbook(t *testing.T) {
	buf, err := SchoolSummary(report.SchoolSummaryResponse{Period: period.Weekly, AttendanceRate: "0.0"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	label, err := f.GetCellValue("Summary", "A10")
	require.NoError(t, err)
	assert.Equal(t, "Class", label)

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "grade-2_2024-03-01_2024-03-13.xlsx", Filename("Grade 2", "2024-03-01", "2024-03-13"))
	assert.Equal(t, "attendance_2024-03-01_2024-03-13.xlsx", Filename("  //  ", "2024-03-01", "2024-03-13"))
}
