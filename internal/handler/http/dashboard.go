package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GET /admin/overview
	Overview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

func (h *dashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.Overview(r.Context())
	if err != nil {
		slog.Error("Overview service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, overview)
}
