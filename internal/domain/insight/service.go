package insight

import "context"

type InsightService interface {
	// Insights scans the trailing 30 days of the teacher's students
	Insights(ctx context.Context, teacherID string) (InsightsResponse, error)

	// Analytics compares the teacher's classes against the whole school over 90 days
	Analytics(ctx context.Context, teacherID string) (AnalyticsResponse, error)
}
