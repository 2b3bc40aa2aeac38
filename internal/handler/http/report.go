package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Admin summaries
	ClassSummary(w http.ResponseWriter, r *http.Request)
	ExportClassSummary(w http.ResponseWriter, r *http.Request)
	SchoolSummary(w http.ResponseWriter, r *http.Request)
	ExportSchoolSummary(w http.ResponseWriter, r *http.Request)

	// Admin drill-downs
	StudentDaily(w http.ResponseWriter, r *http.Request)
	ClassAttendanceLog(w http.ResponseWriter, r *http.Request)
	TeacherDetail(w http.ResponseWriter, r *http.Request)

	// Teacher
	StudentMonthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func periodQuery(r *http.Request) report.PeriodQuery {
	q := r.URL.Query()
	return report.PeriodQuery{
		Period:    q.Get("period"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		ClassID:   q.Get("classId"),
	}
}

// ClassSummary handles GET /admin/classes/{classId}/attendance-summary
func (h *reportHandlerImpl) ClassSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.ClassSummary(r.Context(), chi.URLParam(r, "classId"), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// ExportClassSummary handles GET /admin/classes/{classId}/attendance-summary/export
func (h *reportHandlerImpl) ExportClassSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.ClassSummary(r.Context(), chi.URLParam(r, "classId"), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	buf, err := export.ClassSummary(summary)
	if err != nil {
		slog.Error("Class summary export error", "error", err)
		response.InternalServerError(w, "Failed to build export")
		return
	}
	response.Attachment(w, export.ContentType, export.Filename(summary.ClassName, summary.StartDate, summary.EndDate), buf.Bytes())
}

// SchoolSummary handles GET /admin/school/attendance-summary
func (h *reportHandlerImpl) SchoolSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.SchoolSummary(r.Context(), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// ExportSchoolSummary handles GET /admin/school/attendance-summary/export
func (h *reportHandlerImpl) ExportSchoolSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.SchoolSummary(r.Context(), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	buf, err := export.SchoolSummary(summary)
	if err != nil {
		slog.Error("School summary export error", "error", err)
		response.InternalServerError(w, "Failed to build export")
		return
	}
	response.Attachment(w, export.ContentType, export.Filename("school", summary.StartDate, summary.EndDate), buf.Bytes())
}

// StudentDaily handles GET /admin/students/daily-attendance
func (h *reportHandlerImpl) StudentDaily(w http.ResponseWriter, r *http.Request) {
	daily, err := h.reportService.StudentDaily(r.Context(), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, daily)
}

// ClassAttendanceLog handles GET /admin/classes/{classId}/attendance
func (h *reportHandlerImpl) ClassAttendanceLog(w http.ResponseWriter, r *http.Request) {
	logs, err := h.reportService.ClassAttendanceLog(r.Context(), chi.URLParam(r, "classId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, logs)
}

// TeacherDetail handles GET /admin/teachers/{teacherId}/detail
func (h *reportHandlerImpl) TeacherDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.reportService.TeacherDetail(r.Context(), chi.URLParam(r, "teacherId"), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, detail)
}

// StudentMonthly handles GET /teacher/students/{studentId}/monthly
func (h *reportHandlerImpl) StudentMonthly(w http.ResponseWriter, r *http.Request) {
	query := report.StudentMonthlyQuery{
		TeacherID: middleware.UserID(r.Context()),
		StudentID: chi.URLParam(r, "studentId"),
	}

	// month and year are optional; the service falls back to the current month
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return
		}
		query.Month = month
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		query.Year = year
	}

	monthly, err := h.reportService.StudentMonthly(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, monthly)
}
