package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/school-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/logger"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/school-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/school-attendance-go/internal/service/auth"
	classService "github.com/cmlabs-hris/school-attendance-go/internal/service/class"
	dashboardService "github.com/cmlabs-hris/school-attendance-go/internal/service/dashboard"
	insightService "github.com/cmlabs-hris/school-attendance-go/internal/service/insight"
	reportService "github.com/cmlabs-hris/school-attendance-go/internal/service/report"
	studentService "github.com/cmlabs-hris/school-attendance-go/internal/service/student"
	teacherService "github.com/cmlabs-hris/school-attendance-go/internal/service/teacher"
)

const (
	appName    = "school-attendance"
	appVersion = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(os.Stdout, logger.Options{
		App:     appName,
		Version: appVersion,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		slog.Info("Migrations applied")
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	classRepo := postgresql.NewClassRepository(db)
	studentRepo := postgresql.NewStudentRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	draftRepo := postgresql.NewDraftRepository(db)
	teacherAttendanceRepo := postgresql.NewTeacherAttendanceRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	authSvc := serviceAuth.NewAuthService(tx, clk, userRepo, classRepo, refreshTokenRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(tx, clk, recordRepo, draftRepo, classRepo, studentRepo)
	reportSvc := reportService.NewReportService(clk, recordRepo, teacherAttendanceRepo, classRepo, studentRepo, userRepo)
	insightSvc := insightService.NewInsightService(clk, recordRepo, classRepo, studentRepo)
	dashboardSvc := dashboardService.NewDashboardService(clk, recordRepo, classRepo, studentRepo, userRepo)
	classSvc := classService.NewClassService(tx, classRepo, userRepo)
	studentSvc := studentService.NewStudentService(tx, studentRepo, classRepo)
	teacherSvc := teacherService.NewTeacherService(tx, clk, userRepo, classRepo, studentRepo, teacherAttendanceRepo)

	router := appHTTP.NewRouter(JWTService, log, cfg.AllowedOrigins(), appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Class:      appHTTP.NewClassHandler(classSvc),
		Student:    appHTTP.NewStudentHandler(studentSvc),
		Teacher:    appHTTP.NewTeacherHandler(teacherSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Insight:    appHTTP.NewInsightHandler(insightSvc),
	})

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewHousekeepingJobs(clk, refreshTokenRepo, draftRepo).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
