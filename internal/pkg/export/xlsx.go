// Package export renders attendance summaries as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet = "Summary"
	recordsSheet = "Records"
)

// summary is the sheet-agnostic view of a class or school report.
type summary struct {
	title      string
	period     string
	startDate  string
	endDate    string
	counts     report.Counts
	rate       string
	groupLabel string
	groups     []report.Breakdown
	records    []report.RecordLine
}

// ClassSummary builds the workbook for one class's summary.
func ClassSummary(resp report.ClassSummaryResponse) (*bytes.Buffer, error) {
	return build(summary{
		title:      "Class attendance: " + resp.ClassName,
		period:     string(resp.Period),
		startDate:  resp.StartDate,
		endDate:    resp.EndDate,
		counts:     resp.Summary,
		rate:       resp.AttendanceRate,
		groupLabel: "Student",
		groups:     resp.Students,
		records:    resp.Records,
	})
}

// SchoolSummary builds the workbook for the school-wide summary.
func SchoolSummary(resp report.SchoolSummaryResponse) (*bytes.Buffer, error) {
	return build(summary{
		title:      "School attendance",
		period:     string(resp.Period),
		startDate:  resp.StartDate,
		endDate:    resp.EndDate,
		counts:     resp.Summary,
		rate:       resp.AttendanceRate,
		groupLabel: "Class",
		groups:     resp.Classes,
		records:    resp.Records,
	})
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename joins name and the date range into a download-safe file name.
func Filename(name, startDate, endDate string) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(name, "-"), "-")
	if base == "" {
		base = "attendance"
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", strings.ToLower(base), startDate, endDate)
}

func build(s summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, fmt.Errorf("failed to create records sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, s, bold); err != nil {
		return nil, err
	}
	if err := writeRecords(f, s.records, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func countsRow(c report.Counts) []interface{} {
	return []interface{}{c.Total, c.Present, c.Absent, c.Late, c.Leave}
}

func writeSummary(f *excelize.File, s summary, bold int) error {
	rows := [][]interface{}{
		{s.title},
		{"Period", s.period},
		{"Start date", s.startDate},
		{"End date", s.endDate},
		{"Attendance rate (%)", s.rate},
		{},
		{"", "Total", "Present", "Absent", "Late", "Leave"},
		append([]interface{}{"All"}, countsRow(s.counts)...),
		{},
		{s.groupLabel, "Total", "Present", "Absent", "Late", "Leave", "Rate (%)"},
	}
	for _, g := range s.groups {
		row := append([]interface{}{g.Name}, countsRow(g.Counts)...)
		rows = append(rows, append(row, report.Percentage(g.Present, g.Total)))
	}

	for i, values := range rows {
		if err := setRow(f, summarySheet, i+1, values...); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	// title, totals header and breakdown header
	for _, row := range []int{1, 7, 10} {
		if err := f.SetRowStyle(summarySheet, row, row, bold); err != nil {
			return fmt.Errorf("failed to style summary sheet: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 28)
}

func writeRecords(f *excelize.File, records []report.RecordLine, bold int) error {
	if err := setRow(f, recordsSheet, 1, "Date", "Student", "Class", "Status"); err != nil {
		return fmt.Errorf("failed to write records header: %w", err)
	}
	for i, r := range records {
		if err := setRow(f, recordsSheet, i+2, r.Date, r.StudentName, r.ClassName, r.Status); err != nil {
			return fmt.Errorf("failed to write record row %d: %w", i+2, err)
		}
	}
	if err := f.SetRowStyle(recordsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style records sheet: %w", err)
	}
	return f.SetColWidth(recordsSheet, "A", "C", 20)
}
