package store

import (
	"context"
	"database/sql"

	"github.com/recruitdesk/apiserver/types"
)

// DashboardRepository computes per-user aggregate counts.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Summary(ctx context.Context, userID string) (types.DashboardSummary, error) {
	const query = `
		SELECT
			(SELECT COUNT(1) FROM jobs WHERE user_id = $1 AND status = $2),
			(SELECT COUNT(1) FROM candidates WHERE user_id = $1),
			(SELECT COUNT(1) FROM interviews WHERE user_id = $1 AND status IN ($3, $4))`
	var summary types.DashboardSummary
	err := r.db.QueryRowContext(
		ctx,
		query,
		userID,
		types.JobStatusOpen,
		types.InterviewStatusScheduled,
		types.InterviewStatusRescheduled,
	).Scan(&summary.OpenPositions, &summary.TotalCandidates, &summary.ScheduledInterviews)
	if err != nil {
		return types.DashboardSummary{}, err
	}
	return summary, nil
}
