package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/insight"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/response"
)

type InsightHandler interface {
	Insights(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
}

type insightHandlerImpl struct {
	insightService insight.InsightService
}

func NewInsightHandler(insightService insight.InsightService) InsightHandler {
	return &insightHandlerImpl{
		insightService: insightService,
	}
}

// Insights handles GET /teacher/insights
func (h *insightHandlerImpl) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.insightService.Insights(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		slog.Error("Insights service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, insights)
}

// Analytics handles GET /teacher/analytics
func (h *insightHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.insightService.Analytics(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		slog.Error("Analytics service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, analytics)
}
