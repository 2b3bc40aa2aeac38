package class

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
)

type ClassServiceImpl struct {
	tx      database.Transactor
	classes class.ClassRepository
	users   user.UserRepository
}

func NewClassService(tx database.Transactor, classes class.ClassRepository, users user.UserRepository) class.ClassService {
	return &ClassServiceImpl{
		tx:      tx,
		classes: classes,
		users:   users,
	}
}

// List implements class.ClassService.
func (s *ClassServiceImpl) List(ctx context.Context) ([]class.ClassResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	responses := make([]class.ClassResponse, 0, len(classes))
	for _, c := range classes {
		responses = append(responses, class.ToResponse(c))
	}
	return responses, nil
}

// ensureTeacher resolves an optional teacher id. nil or empty means no teacher.
func (s *ClassServiceImpl) ensureTeacher(ctx context.Context, teacherID *string) (*string, error) {
	if teacherID == nil || *teacherID == "" {
		return nil, nil
	}
	u, err := s.users.GetByID(ctx, *teacherID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, teacher.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if !u.IsTeacher() {
		return nil, teacher.ErrTeacherNotFound
	}
	return &u.ID, nil
}

func (s *ClassServiceImpl) response(ctx context.Context, id string) (class.ClassResponse, error) {
	stats, err := s.classes.GetStats(ctx, id)
	if err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return class.ClassResponse{}, err
		}
		return class.ClassResponse{}, fmt.Errorf("failed to get class: %w", err)
	}
	return class.ToResponse(stats), nil
}

// Create implements class.ClassService.
func (s *ClassServiceImpl) Create(ctx context.Context, req class.CreateClassRequest) (class.ClassResponse, error) {
	if err := req.Validate(); err != nil {
		return class.ClassResponse{}, err
	}

	var created class.Class
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.classes.ExistsByGradeLevel(txCtx, req.GradeLevel, "")
		if err != nil {
			return fmt.Errorf("failed to check grade level: %w", err)
		}
		if exists {
			return class.ErrGradeLevelExists
		}

		teacherID, err := s.ensureTeacher(txCtx, req.TeacherID)
		if err != nil {
			return err
		}

		created, err = s.classes.Create(txCtx, class.Class{
			Name:       req.GradeLevel,
			GradeLevel: req.GradeLevel,
			TeacherID:  teacherID,
		})
		return err
	})
	if err != nil {
		return class.ClassResponse{}, err
	}

	return s.response(ctx, created.ID)
}

// Update implements class.ClassService.
func (s *ClassServiceImpl) Update(ctx context.Context, req class.UpdateClassRequest) (class.ClassResponse, error) {
	if err := req.Validate(); err != nil {
		return class.ClassResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		c, err := s.classes.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.GradeLevel != nil && *req.GradeLevel != c.GradeLevel {
			exists, err := s.classes.ExistsByGradeLevel(txCtx, *req.GradeLevel, c.ID)
			if err != nil {
				return fmt.Errorf("failed to check grade level: %w", err)
			}
			if exists {
				return class.ErrGradeLevelExists
			}
			c.GradeLevel = *req.GradeLevel
			c.Name = *req.GradeLevel
		}

		if req.TeacherID != nil {
			c.TeacherID, err = s.ensureTeacher(txCtx, req.TeacherID)
			if err != nil {
				return err
			}
		}

		return s.classes.Update(txCtx, c)
	})
	if err != nil {
		return class.ClassResponse{}, err
	}

	return s.response(ctx, req.ID)
}

// Delete implements class.ClassService.
func (s *ClassServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return nil
}
