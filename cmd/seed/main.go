package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/config"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/logger"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/school-attendance-go/internal/seed"
	serviceAuth "github.com/cmlabs-hris/school-attendance-go/internal/service/auth"
	classService "github.com/cmlabs-hris/school-attendance-go/internal/service/class"
	teacherService "github.com/cmlabs-hris/school-attendance-go/internal/service/teacher"
)

func main() {
	reset := flag.Bool("reset", false, "truncate every table before seeding")
	flag.Parse()

	if err := run(*reset); err != nil {
		slog.Error("Seed failed", "error", err)
		os.Exit(1)
	}
}

func run(reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(logger.New(os.Stdout, logger.Options{
		App:     "school-attendance-seed",
		Version: "v1.0.0",
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

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

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	classRepo := postgresql.NewClassRepository(db)
	studentRepo := postgresql.NewStudentRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	seeder := seed.NewSeeder(
		db,
		clk,
		rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		userRepo,
		serviceAuth.NewAuthService(tx, clk, userRepo, classRepo, postgresql.NewRefreshTokenRepository(db), JWTService),
		classService.NewClassService(tx, classRepo, userRepo),
		teacherService.NewTeacherService(tx, clk, userRepo, classRepo, studentRepo, postgresql.NewTeacherAttendanceRepository(db)),
	)

	if reset {
		if err := seeder.Reset(ctx); err != nil {
			return err
		}
	}

	summary, err := seeder.Run(ctx)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		slog.Info("Admin already exists, nothing to do. Run with -reset to reseed.")
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("Seed completed",
		"classes", summary.Classes,
		"students", summary.Students,
		"teaching_days", summary.TeachingDays,
		"student_records", summary.StudentRecords,
		"teacher_attendance", summary.TeacherAttendance,
	)
	fmt.Printf("Admin: %s / %s\n", seed.AdminEmail, seed.AdminPassword)
	for _, c := range seed.Classes {
		fmt.Printf(" - %s: %s / %s\n", c.GradeLevel, seed.TeacherEmail(c.GradeLevel), seed.TeacherPassword)
	}
	return nil
}
