package student

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/utils"
)

type StudentServiceImpl struct {
	tx       database.Transactor
	students student.StudentRepository
	classes  class.ClassRepository
}

func NewStudentService(tx database.Transactor, students student.StudentRepository, classes class.ClassRepository) student.StudentService {
	return &StudentServiceImpl{
		tx:       tx,
		students: students,
		classes:  classes,
	}
}

// List implements student.StudentService.
func (s *StudentServiceImpl) List(ctx context.Context) ([]student.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	c := utils.NewCollator()
	sort.SliceStable(students, func(i, j int) bool {
		if cmp := c.CompareString(students[i].GradeLevel, students[j].GradeLevel); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(students[i].RollNumber, students[j].RollNumber) < 0
	})

	responses := make([]student.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, student.ToResponse(st))
	}
	return responses, nil
}

func (s *StudentServiceImpl) ensureClass(ctx context.Context, classID string) error {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return err
		}
		return fmt.Errorf("failed to get class: %w", err)
	}
	return nil
}

func (s *StudentServiceImpl) ensureRollFree(ctx context.Context, classID, rollNumber, excludeID string) error {
	exists, err := s.students.ExistsByRollNumber(ctx, classID, rollNumber, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check roll number: %w", err)
	}
	if exists {
		return student.ErrRollNumberExists
	}
	return nil
}

// Create implements student.StudentService.
func (s *StudentServiceImpl) Create(ctx context.Context, req student.CreateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}

	var created student.Student
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureClass(txCtx, req.ClassID); err != nil {
			return err
		}
		if err := s.ensureRollFree(txCtx, req.ClassID, req.RollNumber, ""); err != nil {
			return err
		}

		var err error
		created, err = s.students.Create(txCtx, student.Student{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			RollNumber: req.RollNumber,
			ClassID:    req.ClassID,
		})
		return err
	})
	if err != nil {
		return student.StudentResponse{}, err
	}

	return student.ToResponse(created), nil
}

// Update implements student.StudentService.
func (s *StudentServiceImpl) Update(ctx context.Context, req student.UpdateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		st, err := s.students.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.FirstName != nil {
			st.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			st.LastName = *req.LastName
		}
		if req.RollNumber != nil {
			st.RollNumber = *req.RollNumber
		}
		if req.ClassID != nil && *req.ClassID != st.ClassID {
			if err := s.ensureClass(txCtx, *req.ClassID); err != nil {
				return err
			}
			st.ClassID = *req.ClassID
		}
		if req.RollNumber != nil || req.ClassID != nil {
			if err := s.ensureRollFree(txCtx, st.ClassID, st.RollNumber, st.ID); err != nil {
				return err
			}
		}

		return s.students.Update(txCtx, st)
	})
	if err != nil {
		return student.StudentResponse{}, err
	}

	updated, err := s.students.GetByID(ctx, req.ID)
	if err != nil {
		return student.StudentResponse{}, fmt.Errorf("failed to get student: %w", err)
	}
	return student.ToResponse(updated), nil
}

// Delete implements student.StudentService.
func (s *StudentServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}
