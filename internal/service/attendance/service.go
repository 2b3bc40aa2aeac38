package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// historyDays is the default History window, today included.
const historyDays = 30

type AttendanceServiceImpl struct {
	tx       database.Transactor
	clock    clock.Clock
	records  attendance.RecordRepository
	drafts   attendance.DraftRepository
	classes  class.ClassRepository
	students student.StudentRepository
}

func NewAttendanceService(
	tx database.Transactor,
	clk clock.Clock,
	records attendance.RecordRepository,
	drafts attendance.DraftRepository,
	classes class.ClassRepository,
	students student.StudentRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:       tx,
		clock:    clk,
		records:  records,
		drafts:   drafts,
		classes:  classes,
		students: students,
	}
}

type mark struct {
	studentID string
	status    attendance.Status
}

// authorizeClass loads the class and hides it from teachers it is not assigned to.
func (s *AttendanceServiceImpl) authorizeClass(ctx context.Context, teacherID, classID string) (class.Class, error) {
	c, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return class.Class{}, err
		}
		return class.Class{}, fmt.Errorf("failed to get class: %w", err)
	}
	if !c.AssignedTo(teacherID) {
		return class.Class{}, class.ErrClassNotFound
	}
	return c, nil
}

// resolveMarks checks every submission against the class roster and converts its status.
func (s *AttendanceServiceImpl) resolveMarks(ctx context.Context, classID string, submissions []attendance.Submission) ([]mark, error) {
	roster, err := s.students.ListByClasses(ctx, []string{classID})
	if err != nil {
		return nil, fmt.Errorf("failed to list class students: %w", err)
	}
	enrolled := make(map[string]struct{}, len(roster))
	for _, st := range roster {
		enrolled[st.ID] = struct{}{}
	}

	marks := make([]mark, 0, len(submissions))
	for _, sub := range submissions {
		if _, ok := enrolled[sub.StudentID]; !ok {
			return nil, fmt.Errorf("%w: %s is not in this class", student.ErrStudentNotFound, sub.StudentID)
		}
		status, err := attendance.ParseClientStatus(sub.Status)
		if err != nil {
			return nil, err
		}
		marks = append(marks, mark{studentID: sub.StudentID, status: status})
	}
	return marks, nil
}

func (s *AttendanceServiceImpl) upsertMarks(ctx context.Context, teacherID, classID string, marks []mark, date, now time.Time) error {
	for _, m := range marks {
		err := s.records.Upsert(ctx, attendance.Record{
			StudentID:  m.studentID,
			ClassID:    classID,
			Status:     m.status,
			RecordedBy: teacherID,
			RecordedAt: now,
			Date:       date,
		})
		if err != nil {
			return fmt.Errorf("failed to save attendance record: %w", err)
		}
	}
	return nil
}

// SaveDraft implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SaveDraft(ctx context.Context, req attendance.SaveDraftRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.authorizeClass(ctx, req.TeacherID, req.ClassID); err != nil {
		return err
	}
	marks, err := s.resolveMarks(ctx, req.ClassID, req.Submissions)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	today := period.DateOf(now)

	drafts := make([]attendance.Draft, 0, len(marks))
	for _, m := range marks {
		drafts = append(drafts, attendance.Draft{
			TeacherID: req.TeacherID,
			ClassID:   req.ClassID,
			StudentID: m.studentID,
			Status:    m.status,
			Date:      today,
			UpdatedAt: now,
		})
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.drafts.DeleteForDay(ctx, req.TeacherID, req.ClassID, today); err != nil {
			return fmt.Errorf("failed to clear drafts: %w", err)
		}
		if err := s.drafts.CreateMany(ctx, drafts); err != nil {
			return fmt.Errorf("failed to save drafts: %w", err)
		}
		return nil
	})
}

// Submit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Submit(ctx context.Context, req attendance.SubmitAttendanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.authorizeClass(ctx, req.TeacherID, req.ClassID); err != nil {
		return err
	}
	marks, err := s.resolveMarks(ctx, req.ClassID, req.Submissions)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	today := period.DateOf(now)

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.upsertMarks(ctx, req.TeacherID, req.ClassID, marks, today, now); err != nil {
			return err
		}
		if err := s.drafts.DeleteForDay(ctx, req.TeacherID, req.ClassID, today); err != nil {
			return fmt.Errorf("failed to clear drafts: %w", err)
		}
		return nil
	})
}

// UpdateByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateByDate(ctx context.Context, req attendance.UpdateAttendanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	now := s.clock.Now()
	today := period.DateOf(now)

	parsed, err := period.ParseDate(req.Date, s.clock.Location())
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("date", "date must be a valid YYYY-MM-DD date")
		return errs.Err()
	}
	date := period.DateOf(parsed)

	if period.DaysBetween(date, today) < 0 {
		var errs validator.ValidationErrors
		errs.Add("date", "date cannot be in the future")
		return errs.Err()
	}
	if !attendance.Editable(date, today) {
		return attendance.ErrEditWindowExpired
	}

	if _, err := s.authorizeClass(ctx, req.TeacherID, req.ClassID); err != nil {
		return err
	}
	marks, err := s.resolveMarks(ctx, req.ClassID, req.Submissions)
	if err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.upsertMarks(ctx, req.TeacherID, req.ClassID, marks, date, now)
	})
}

// Dashboard implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Dashboard(ctx context.Context, teacherID string) (attendance.DashboardResponse, error) {
	now := s.clock.Now()
	today := period.DateOf(now)

	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return attendance.DashboardResponse{}, fmt.Errorf("failed to list teacher classes: %w", err)
	}
	if len(classes) == 0 {
		return attendance.ProjectDashboard(attendance.DashboardInput{Now: now}), nil
	}
	primary := classes[0]

	var (
		roster  []student.Student
		records []attendance.RecordDetail
		drafts  []attendance.Draft
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		roster, err = s.students.ListByClasses(gctx, []string{primary.ID})
		if err != nil {
			return fmt.Errorf("failed to list class students: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		records, err = s.records.List(gctx, attendance.RecordFilter{
			ClassIDs:   []string{primary.ID},
			RecordedBy: teacherID,
			From:       today,
			To:         today,
		})
		if err != nil {
			return fmt.Errorf("failed to list today's records: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		drafts, err = s.drafts.ListForDay(gctx, teacherID, primary.ID, today)
		if err != nil {
			return fmt.Errorf("failed to list today's drafts: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.DashboardResponse{}, err
	}

	in := attendance.DashboardInput{
		Now:    now,
		Class:  &attendance.ClassRoster{ID: primary.ID, Name: primary.Name},
		Drafts: drafts,
	}
	for _, st := range roster {
		in.Class.Students = append(in.Class.Students, attendance.RosterStudent{
			ID:        st.ID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
		})
	}
	for _, r := range records {
		in.Records = append(in.Records, r.Record)
	}

	return attendance.ProjectDashboard(in), nil
}

// Notifications implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Notifications(ctx context.Context, teacherID string) ([]attendance.Notification, error) {
	dashboard, err := s.Dashboard(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return dashboard.Notifications, nil
}

func (s *AttendanceServiceImpl) teacherClassIDs(ctx context.Context, teacherID string) ([]class.ClassStats, []string, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list teacher classes: %w", err)
	}
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return classes, ids, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, query attendance.HistoryQuery) (attendance.HistoryResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	now := s.clock.Now()
	today := period.DateOf(now)
	rng := period.Trailing(historyDays, today)
	from, to := rng.FromDate(), rng.ToDate()

	var errs validator.ValidationErrors
	if query.StartDate != "" {
		if d, err := period.ParseDate(query.StartDate, time.UTC); err == nil {
			from = d
		} else {
			errs.Add("startDate", "startDate must be a valid YYYY-MM-DD date")
		}
	}
	if query.EndDate != "" {
		if d, err := period.ParseDate(query.EndDate, time.UTC); err == nil {
			to = d
		} else {
			errs.Add("endDate", "endDate must be a valid YYYY-MM-DD date")
		}
	}
	if len(errs) == 0 && from.After(to) {
		errs.Add("startDate", "startDate must not be after endDate")
	}
	if err := errs.Err(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	resp := attendance.HistoryResponse{
		Range:     attendance.DateRange{StartDate: period.FormatDate(from), EndDate: period.FormatDate(to)},
		Summaries: []attendance.DaySummary{},
	}

	_, classIDs, err := s.teacherClassIDs(ctx, query.TeacherID)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}
	if len(classIDs) == 0 {
		return resp, nil
	}

	records, err := s.records.List(ctx, attendance.RecordFilter{
		ClassIDs:   classIDs,
		RecordedBy: query.TeacherID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	byDate := make(map[string]*attendance.DaySummary)
	for _, r := range records {
		key := period.FormatDate(r.Date)
		day, ok := byDate[key]
		if !ok {
			day = &attendance.DaySummary{Date: key, Editable: attendance.Editable(r.Date, today)}
			byDate[key] = day
		}
		day.Add(r.Status)
		resp.Totals.Add(r.Status)
	}

	for _, day := range byDate {
		resp.Summaries = append(resp.Summaries, *day)
	}
	sort.Slice(resp.Summaries, func(i, j int) bool {
		return resp.Summaries[i].Date > resp.Summaries[j].Date
	})

	return resp, nil
}

// Details implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Details(ctx context.Context, query attendance.DetailsQuery) ([]attendance.ClassDayDetail, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	parsed, err := period.ParseDate(query.Date, time.UTC)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("date", "date must be a valid YYYY-MM-DD date")
		return nil, errs.Err()
	}
	date := period.DateOf(parsed)
	today := period.DateOf(s.clock.Now())

	classes, classIDs, err := s.teacherClassIDs(ctx, query.TeacherID)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return []attendance.ClassDayDetail{}, nil
	}

	var (
		roster  []student.Student
		records []attendance.RecordDetail
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.students.ListByClasses(gctx, classIDs)
		if err != nil {
			return fmt.Errorf("failed to list class students: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.records.List(gctx, attendance.RecordFilter{ClassIDs: classIDs, From: date, To: date})
		if err != nil {
			return fmt.Errorf("failed to list attendance records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statuses := make(map[string]attendance.Status, len(records))
	for _, r := range records {
		statuses[r.StudentID] = r.Status
	}

	editable := attendance.Editable(date, today)
	details := make([]attendance.ClassDayDetail, 0, len(classes))
	index := make(map[string]int, len(classes))
	for _, c := range classes {
		index[c.ID] = len(details)
		details = append(details, attendance.ClassDayDetail{
			ClassID:     c.ID,
			ClassName:   c.Name,
			Submissions: []attendance.StudentMark{},
			Editable:    editable,
		})
	}

	for _, st := range roster {
		i, ok := index[st.ClassID]
		if !ok {
			continue
		}
		status, ok := statuses[st.ID]
		if !ok {
			status = attendance.StatusPresent
		}
		details[i].Submissions = append(details[i].Submissions, attendance.StudentMark{
			StudentID:   st.ID,
			StudentName: st.FullName(),
			Status:      status.Client(),
		})
	}

	return details, nil
}
