package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TeacherHandler interface {
	// Admin
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	RecordAttendance(w http.ResponseWriter, r *http.Request)

	// Teacher self-service
	Profile(w http.ResponseWriter, r *http.Request)
	ClassStudents(w http.ResponseWriter, r *http.Request)
}

type teacherHandlerImpl struct {
	teacherService teacher.TeacherService
}

func NewTeacherHandler(teacherService teacher.TeacherService) TeacherHandler {
	return &teacherHandlerImpl{
		teacherService: teacherService,
	}
}

// List handles GET /admin/teachers
func (h *teacherHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teacherService.List(r.Context())
	if err != nil {
		slog.Error("List teachers service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, teachers)
}

// Create handles POST /admin/teachers
func (h *teacherHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req teacher.CreateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create teacher decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.teacherService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create teacher service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Teacher created successfully", created)
}

// Update handles PUT /admin/teachers/{teacherId}
func (h *teacherHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req teacher.UpdateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update teacher decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "teacherId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.teacherService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update teacher service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Teacher updated successfully", updated)
}

// RecordAttendance handles PUT /admin/teachers/{teacherId}/attendance
func (h *teacherHandlerImpl) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req teacher.RecordAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record teacher attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TeacherID = chi.URLParam(r, "teacherId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	recorded, err := h.teacherService.RecordAttendance(r.Context(), req)
	if err != nil {
		slog.Error("Record teacher attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Teacher attendance recorded", recorded)
}

// Profile handles GET /teacher/profile
func (h *teacherHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.teacherService.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		slog.Error("Teacher profile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// ClassStudents handles GET /teacher/classes/{classId}/students
func (h *teacherHandlerImpl) ClassStudents(w http.ResponseWriter, r *http.Request) {
	roster, err := h.teacherService.ClassStudents(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "classId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, roster)
}
