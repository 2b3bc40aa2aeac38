package dashboard

import "context"

// DashboardService defines the interface for the admin overview
type DashboardService interface {
	// Overview gathers its parts concurrently
	Overview(ctx context.Context) (OverviewResponse, error)
}
