package teacher

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/password"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
)

const profileWindowDays = 30

type TeacherServiceImpl struct {
	tx                database.Transactor
	clock             clock.Clock
	users             user.UserRepository
	classes           class.ClassRepository
	students          student.StudentRepository
	teacherAttendance attendance.TeacherAttendanceRepository
}

func NewTeacherService(
	tx database.Transactor,
	clk clock.Clock,
	users user.UserRepository,
	classes class.ClassRepository,
	students student.StudentRepository,
	teacherAttendance attendance.TeacherAttendanceRepository,
) teacher.TeacherService {
	return &TeacherServiceImpl{
		tx:                tx,
		clock:             clk,
		users:             users,
		classes:           classes,
		students:          students,
		teacherAttendance: teacherAttendance,
	}
}

// getTeacher loads a user and rejects anyone who is not a teacher.
func (s *TeacherServiceImpl) getTeacher(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, teacher.ErrTeacherNotFound
		}
		return user.User{}, fmt.Errorf("failed to get teacher: %w", err)
	}
	if !u.IsTeacher() {
		return user.User{}, teacher.ErrTeacherNotFound
	}
	return u, nil
}

func (s *TeacherServiceImpl) briefs(ctx context.Context, teacherID string) ([]class.ClassBrief, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher classes: %w", err)
	}
	briefs := make([]class.ClassBrief, 0, len(classes))
	for _, c := range classes {
		briefs = append(briefs, class.ToBrief(c))
	}
	return briefs, nil
}

func (s *TeacherServiceImpl) response(ctx context.Context, u user.User) (teacher.TeacherResponse, error) {
	briefs, err := s.briefs(ctx, u.ID)
	if err != nil {
		return teacher.TeacherResponse{}, err
	}
	return teacher.TeacherResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		AssignedClasses: briefs,
	}, nil
}

// List implements teacher.TeacherService.
func (s *TeacherServiceImpl) List(ctx context.Context) ([]teacher.TeacherResponse, error) {
	teachers, err := s.users.ListByRole(ctx, user.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	byTeacher := make(map[string][]class.ClassBrief)
	for _, c := range classes {
		if c.TeacherID != nil {
			byTeacher[*c.TeacherID] = append(byTeacher[*c.TeacherID], class.ToBrief(c))
		}
	}

	responses := make([]teacher.TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		assigned := byTeacher[t.ID]
		if assigned == nil {
			assigned = []class.ClassBrief{}
		}
		responses = append(responses, teacher.TeacherResponse{
			ID:              t.ID,
			FirstName:       t.FirstName,
			LastName:        t.LastName,
			Email:           t.Email,
			AssignedClasses: assigned,
		})
	}
	return responses, nil
}

// assignOnly moves every class away from the teacher and, when classID is non-empty, assigns that one.
func (s *TeacherServiceImpl) assignOnly(ctx context.Context, teacherID, classID string) error {
	if err := s.classes.UnassignTeacher(ctx, teacherID); err != nil {
		return err
	}
	if classID == "" {
		return nil
	}
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return err
	}
	return s.classes.AssignTeacher(ctx, classID, &teacherID)
}

// Create implements teacher.TeacherService.
func (s *TeacherServiceImpl) Create(ctx context.Context, req teacher.CreateTeacherRequest) (teacher.TeacherResponse, error) {
	if err := req.Validate(); err != nil {
		return teacher.TeacherResponse{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return teacher.TeacherResponse{}, err
	}

	var created user.User
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.users.ExistsByEmail(txCtx, req.Email, "")
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.ErrEmailAlreadyExists
		}

		created, err = s.users.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Role:         user.RoleTeacher,
		})
		if err != nil {
			return err
		}

		if req.ClassID != nil && *req.ClassID != "" {
			return s.assignOnly(txCtx, created.ID, *req.ClassID)
		}
		return nil
	})
	if err != nil {
		return teacher.TeacherResponse{}, err
	}

	return s.response(ctx, created)
}

// Update implements teacher.TeacherService.
func (s *TeacherServiceImpl) Update(ctx context.Context, req teacher.UpdateTeacherRequest) (teacher.TeacherResponse, error) {
	if err := req.Validate(); err != nil {
		return teacher.TeacherResponse{}, err
	}

	var hash string
	if req.Password != nil && *req.Password != "" {
		var err error
		if hash, err = password.Hash(*req.Password); err != nil {
			return teacher.TeacherResponse{}, err
		}
	}

	var updated user.User
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		u, err := s.getTeacher(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		if req.Email != nil && *req.Email != u.Email {
			exists, err := s.users.ExistsByEmail(txCtx, *req.Email, u.ID)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return user.ErrEmailAlreadyExists
			}
			u.Email = *req.Email
		}

		if err := s.users.Update(txCtx, u); err != nil {
			return err
		}
		if hash != "" {
			if err := s.users.UpdatePassword(txCtx, u.ID, hash); err != nil {
				return err
			}
		}
		updated = u

		if req.ClassID != nil {
			return s.assignOnly(txCtx, u.ID, *req.ClassID)
		}
		return nil
	})
	if err != nil {
		return teacher.TeacherResponse{}, err
	}

	return s.response(ctx, updated)
}

// RecordAttendance implements teacher.TeacherService.
func (s *TeacherServiceImpl) RecordAttendance(ctx context.Context, req teacher.RecordAttendanceRequest) (teacher.TeacherAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return teacher.TeacherAttendanceResponse{}, err
	}

	date, err := period.ParseDate(req.Date, s.clock.Location())
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("date", "date must match the format 2006-01-02")
		return teacher.TeacherAttendanceResponse{}, errs.Err()
	}
	status, _ := attendance.ParseClientStatus(req.Status)

	if _, err := s.getTeacher(ctx, req.TeacherID); err != nil {
		return teacher.TeacherAttendanceResponse{}, err
	}

	saved, err := s.teacherAttendance.Upsert(ctx, attendance.TeacherAttendance{
		TeacherID: req.TeacherID,
		Status:    status,
		Date:      period.DateOf(date),
	})
	if err != nil {
		return teacher.TeacherAttendanceResponse{}, fmt.Errorf("failed to record teacher attendance: %w", err)
	}

	return teacher.TeacherAttendanceResponse{
		ID:        saved.ID,
		TeacherID: saved.TeacherID,
		Date:      period.FormatDate(saved.Date),
		Status:    saved.Status.Client(),
	}, nil
}

// Profile implements teacher.TeacherService.
func (s *TeacherServiceImpl) Profile(ctx context.Context, teacherID string) (teacher.ProfileResponse, error) {
	u, err := s.getTeacher(ctx, teacherID)
	if err != nil {
		return teacher.ProfileResponse{}, err
	}

	briefs, err := s.briefs(ctx, teacherID)
	if err != nil {
		return teacher.ProfileResponse{}, err
	}

	window := period.Trailing(profileWindowDays, s.clock.Now())
	marks, err := s.teacherAttendance.ListByTeacher(ctx, teacherID, window.FromDate(), window.ToDate())
	if err != nil {
		return teacher.ProfileResponse{}, fmt.Errorf("failed to list teacher attendance: %w", err)
	}

	var summary teacher.ProfileAttendance
	for _, m := range marks {
		switch m.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusAbsent:
			summary.Absent++
		case attendance.StatusLate:
			summary.Late++
		case attendance.StatusLeave:
			summary.Leave++
		}
		summary.Total++
	}
	summary.AttendanceRate = 100
	if summary.Total > 0 {
		summary.AttendanceRate = utils.RoundPercent(summary.Present, summary.Total)
	}

	return teacher.ProfileResponse{
		Teacher: teacher.ProfileTeacher{
			ID:    u.ID,
			Name:  u.FullName(),
			Email: u.Email,
		},
		Classes:           briefs,
		AttendanceSummary: summary,
	}, nil
}

// ClassStudents implements teacher.TeacherService.
func (s *TeacherServiceImpl) ClassStudents(ctx context.Context, teacherID, classID string) ([]student.RosterEntry, error) {
	c, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if !c.AssignedTo(teacherID) {
		return nil, class.ErrClassNotFound
	}

	roster, err := s.students.ListByClasses(ctx, []string{classID})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	entries := make([]student.RosterEntry, 0, len(roster))
	for _, st := range roster {
		entries = append(entries, student.RosterEntry{
			ID:        st.ID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
			ClassID:   classID,
		})
	}
	return entries, nil
}
