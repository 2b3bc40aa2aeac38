package attendance

import (
	"context"
)

// AttendanceService governs a teacher's daily attendance lifecycle: draft, submit, correct.
type AttendanceService interface {
	// SaveDraft replaces today's drafts for the teacher's class with the given set
	SaveDraft(ctx context.Context, req SaveDraftRequest) error

	// Submit upserts today's records and clears today's drafts in one transaction
	Submit(ctx context.Context, req SubmitAttendanceRequest) error

	// UpdateByDate corrects a past day within the edit window
	UpdateByDate(ctx context.Context, req UpdateAttendanceRequest) error

	// Dashboard projects today's state of the teacher's primary class
	Dashboard(ctx context.Context, teacherID string) (DashboardResponse, error)

	Notifications(ctx context.Context, teacherID string) ([]Notification, error)

	// History groups the teacher's submitted records per day
	History(ctx context.Context, query HistoryQuery) (HistoryResponse, error)

	// Details lists every student of the teacher's classes with their mark for one day
	Details(ctx context.Context, query DetailsQuery) ([]ClassDayDetail, error)
}
