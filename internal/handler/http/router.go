package http

import (
	"log/slog"

	"github.com/cmlabs-hris/school-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every resource handler mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	Dashboard  DashboardHandler
	Class      ClassHandler
	Student    StudentHandler
	Teacher    TeacherHandler
	Report     ReportHandler
	Attendance AttendanceHandler
	Insight    InsightHandler
}

func NewRouter(JWTService jwt.Service, logger *slog.Logger, allowedOrigins []string, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/overview", h.Dashboard.Overview)

				r.Route("/school", func(r chi.Router) {
					r.Get("/attendance-summary", h.Report.SchoolSummary)
					r.Get("/attendance-summary/export", h.Report.ExportSchoolSummary)
				})

				r.Route("/classes", func(r chi.Router) {
					r.Get("/", h.Class.List)
					r.Post("/", h.Class.Create)
					r.Route("/{classId}", func(r chi.Router) {
						r.Put("/", h.Class.Update)
						r.Delete("/", h.Class.Delete)
						r.Get("/attendance", h.Report.ClassAttendanceLog)
						r.Get("/attendance-summary", h.Report.ClassSummary)
						r.Get("/attendance-summary/export", h.Report.ExportClassSummary)
					})
				})

				r.Route("/students", func(r chi.Router) {
					r.Get("/", h.Student.List)
					r.Post("/", h.Student.Create)
					r.Get("/daily-attendance", h.Report.StudentDaily)
					r.Put("/{studentId}", h.Student.Update)
					r.Delete("/{studentId}", h.Student.Delete)
				})

				r.Route("/teachers", func(r chi.Router) {
					r.Get("/", h.Teacher.List)
					r.Post("/", h.Teacher.Create)
					r.Route("/{teacherId}", func(r chi.Router) {
						r.Put("/", h.Teacher.Update)
						r.Get("/detail", h.Report.TeacherDetail)
						r.Put("/attendance", h.Teacher.RecordAttendance)
					})
				})
			})

			r.Route("/teacher", func(r chi.Router) {
				r.Use(middleware.RequireTeacher)

				r.Get("/dashboard", h.Attendance.Dashboard)
				r.Get("/notifications", h.Attendance.Notifications)
				r.Get("/profile", h.Teacher.Profile)
				r.Get("/insights", h.Insight.Insights)
				r.Get("/analytics", h.Insight.Analytics)

				r.Route("/attendance", func(r chi.Router) {
					r.Post("/draft", h.Attendance.SaveDraft)
					r.Post("/submit", h.Attendance.Submit)
					r.Get("/history", h.Attendance.History)
					r.Get("/details", h.Attendance.Details)
					r.Put("/{classId}", h.Attendance.Update)
				})

				r.Get("/classes/{classId}/students", h.Teacher.ClassStudents)
				r.Get("/students/{studentId}/monthly", h.Report.StudentMonthly)
			})
		})
	})
	return r
}
