package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type StudentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type studentHandlerImpl struct {
	studentService student.StudentService
}

func NewStudentHandler(studentService student.StudentService) StudentHandler {
	return &studentHandlerImpl{
		studentService: studentService,
	}
}

func (h *studentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.List(r.Context())
	if err != nil {
		slog.Error("List students service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, students)
}

func (h *studentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req student.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create student decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.studentService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create student service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Student created successfully", created)
}

func (h *studentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req student.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update student decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "studentId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.studentService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update student service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Student updated successfully", updated)
}

func (h *studentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Delete(r.Context(), chi.URLParam(r, "studentId")); err != nil {
		slog.Error("Delete student service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Student deleted successfully", nil)
}
