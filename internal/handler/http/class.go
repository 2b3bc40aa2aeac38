package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ClassHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type classHandlerImpl struct {
	classService class.ClassService
}

func NewClassHandler(classService class.ClassService) ClassHandler {
	return &classHandlerImpl{
		classService: classService,
	}
}

// List handles GET /admin/classes
func (h *classHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classService.List(r.Context())
	if err != nil {
		slog.Error("List classes service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, classes)
}

// Create handles POST /admin/classes
func (h *classHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req class.CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create class decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.classService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create class service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Class created successfully", created)
}

// Update handles PUT /admin/classes/{classId}
func (h *classHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req class.UpdateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update class decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "classId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.classService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update class service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Class updated successfully", updated)
}

// Delete handles DELETE /admin/classes/{classId}
func (h *classHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.classService.Delete(r.Context(), chi.URLParam(r, "classId")); err != nil {
		slog.Error("Delete class service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Class deleted successfully", nil)
}
