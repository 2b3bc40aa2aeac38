package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
)

const (
	notificationDateLayout = "Jan 2, 2006, 3:04:05 PM"
	nextClassLayout        = "Jan 2, 2006 at 3:04 PM"
	nextClassHour          = 10
)

type RosterStudent struct {
	ID        string
	FirstName string
	LastName  string
}

// ClassRoster is a class and its students in display order.
type ClassRoster struct {
	ID       string
	Name     string
	Students []RosterStudent
}

// DashboardInput is everything the teacher dashboard is computed from.
// Class is nil when the teacher has no class assigned.
type DashboardInput struct {
	Now     time.Time
	Class   *ClassRoster
	Records []Record
	Drafts  []Draft
}

// ProjectDashboard derives today's dashboard from stored records and drafts.
// Students with neither a record nor a draft are shown as present. That default
// is never written back.
func ProjectDashboard(in DashboardInput) DashboardResponse {
	stamp := in.Now.Format(notificationDateLayout)
	resp := DashboardResponse{
		Date:        period.FormatDate(in.Now),
		Submissions: []DashboardSubmission{},
	}

	if in.Class == nil {
		resp.AttendanceStatus = DayStatusNoClass
		resp.Notifications = []Notification{{
			ID:      "no-class",
			Message: "No classes assigned. Contact the administrator for assistance.",
			Type:    "info",
			Date:    stamp,
		}}
		return resp
	}

	records := make(map[string]Record, len(in.Records))
	var lastSubmitted time.Time
	for _, r := range in.Records {
		records[r.StudentID] = r
		if r.RecordedAt.After(lastSubmitted) {
			lastSubmitted = r.RecordedAt
		}
	}
	drafts := make(map[string]Draft, len(in.Drafts))
	for _, d := range in.Drafts {
		drafts[d.StudentID] = d
	}

	var recorded, projected StatusCounts
	recordedStudents := 0
	for _, s := range in.Class.Students {
		sub := DashboardSubmission{
			StudentID:   s.ID,
			StudentName: s.FirstName + " " + s.LastName,
			Status:      StatusPresent.Client(),
		}

		status := StatusPresent
		if r, ok := records[s.ID]; ok {
			status = r.Status
			sub.HasRecord = true
			sub.LastUpdated = timestamp(r.RecordedAt)
			recorded.Add(r.Status)
			recordedStudents++
		} else if d, ok := drafts[s.ID]; ok {
			status = d.Status
			sub.IsDraft = true
			sub.LastUpdated = timestamp(d.UpdatedAt)
		}
		sub.Status = status.Client()
		projected.Add(status)

		resp.Submissions = append(resp.Submissions, sub)
	}

	total := len(in.Class.Students)
	resp.ClassID = &in.Class.ID
	resp.ClassName = &in.Class.Name
	resp.TotalStudents = total

	resp.Summary = recorded
	if recordedStudents < total {
		resp.Summary = projected
	}

	switch {
	case recordedStudents == total:
		resp.AttendanceStatus = DayStatusSubmitted
	case len(in.Drafts) > 0:
		resp.AttendanceStatus = DayStatusDraft
	default:
		resp.AttendanceStatus = DayStatusPending
	}

	next := period.NextWeekday(in.Now)
	nextClass := time.Date(next.Year(), next.Month(), next.Day(), nextClassHour, 0, 0, 0, next.Location()).Format(nextClassLayout)
	resp.QuickActions = QuickActions{
		NextClass:       &nextClass,
		PendingStudents: total - recordedStudents,
		DraftCount:      len(in.Drafts),
	}
	if !lastSubmitted.IsZero() {
		resp.QuickActions.LastSubmittedAt = timestamp(lastSubmitted)
	}

	resp.Notifications = []Notification{}
	if resp.AttendanceStatus != DayStatusSubmitted {
		resp.Notifications = append(resp.Notifications, Notification{
			ID:      "attendance-reminder",
			Message: fmt.Sprintf("Attendance for %s is %s. Please review and submit.", in.Class.Name, resp.AttendanceStatus),
			Type:    "warning",
			Date:    stamp,
		})
	}
	if total == 0 {
		resp.Notifications = append(resp.Notifications, Notification{
			ID:      "no-students",
			Message: "No students are assigned to this class yet.",
			Type:    "info",
			Date:    stamp,
		})
	}

	return resp
}

func timestamp(t time.Time) *string {
	s := t.Format(time.RFC3339)
	return &s
}
