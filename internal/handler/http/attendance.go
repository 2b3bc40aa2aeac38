package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	Notifications(w http.ResponseWriter, r *http.Request)

	SaveDraft(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)

	History(w http.ResponseWriter, r *http.Request)
	Details(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Dashboard handles GET /teacher/dashboard
func (h *attendanceHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.attendanceService.Dashboard(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		slog.Error("Teacher dashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, dashboard)
}

// Notifications handles GET /teacher/notifications
func (h *attendanceHandlerImpl) Notifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.attendanceService.Notifications(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, notifications)
}

// SaveDraft handles POST /teacher/attendance/draft
func (h *attendanceHandlerImpl) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req attendance.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Save draft decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TeacherID = middleware.UserID(r.Context())

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.SaveDraft(r.Context(), req); err != nil {
		slog.Error("Save draft service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Draft saved successfully", nil)
}

// Submit handles POST /teacher/attendance/submit
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req attendance.SubmitAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TeacherID = middleware.UserID(r.Context())

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.Submit(r.Context(), req); err != nil {
		slog.Error("Submit attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}
	slog.Info("Attendance submitted", "teacher_id", req.TeacherID, "class_id", req.ClassID, "count", len(req.Submissions))
	response.SuccessWithMessage(w, "Attendance submitted successfully", nil)
}

// Update handles PUT /teacher/attendance/{classId}
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TeacherID = middleware.UserID(r.Context())
	req.ClassID = chi.URLParam(r, "classId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.UpdateByDate(r.Context(), req); err != nil {
		slog.Error("Update attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated successfully", nil)
}

// History handles GET /teacher/attendance/history
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	query := attendance.HistoryQuery{
		TeacherID: middleware.UserID(r.Context()),
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}

	history, err := h.attendanceService.History(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// Details handles GET /teacher/attendance/details?date=YYYY-MM-DD
func (h *attendanceHandlerImpl) Details(w http.ResponseWriter, r *http.Request) {
	query := attendance.DetailsQuery{
		TeacherID: middleware.UserID(r.Context()),
		Date:      r.URL.Query().Get("date"),
	}

	details, err := h.attendanceService.Details(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, details)
}
