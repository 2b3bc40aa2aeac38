package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
)

const (
	housekeepingInterval = 6 * time.Hour

	// revoked tokens are kept for a day so a replayed token still reads as revoked
	revokedTokenGrace = 24 * time.Hour
)

type HousekeepingJobs struct {
	clock  clock.Clock
	tokens auth.RefreshTokenRepository
	drafts attendance.DraftRepository
}

func NewHousekeepingJobs(clk clock.Clock, tokens auth.RefreshTokenRepository, drafts attendance.DraftRepository) *HousekeepingJobs {
	return &HousekeepingJobs{
		clock:  clk,
		tokens: tokens,
		drafts: drafts,
	}
}

func (j *HousekeepingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_stale_refresh_tokens", housekeepingInterval, j.PurgeStaleRefreshTokens)
	scheduler.AddJob("purge_stale_drafts", housekeepingInterval, j.PurgeStaleDrafts)
}

// PurgeStaleRefreshTokens deletes tokens that expired or were revoked more than a grace period ago.
func (j *HousekeepingJobs) PurgeStaleRefreshTokens(ctx context.Context) error {
	deleted, err := j.tokens.DeleteStale(ctx, j.clock.Now().Add(-revokedTokenGrace))
	if err != nil {
		return fmt.Errorf("failed to delete stale refresh tokens: %w", err)
	}
	slog.Info("Cron: purged refresh tokens", "deleted", deleted)
	return nil
}

// PurgeStaleDrafts deletes drafts from before today. They can no longer be shown or submitted.
func (j *HousekeepingJobs) PurgeStaleDrafts(ctx context.Context) error {
	today := period.DateOf(j.clock.Now())
	deleted, err := j.drafts.DeleteBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to delete stale drafts: %w", err)
	}
	slog.Info("Cron: purged drafts", "deleted", deleted, "before", period.FormatDate(today))
	return nil
}
